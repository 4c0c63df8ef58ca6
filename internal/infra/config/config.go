package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds the full configuration snapshot for the bot. It is
// assembled once at startup, validated, and passed by reference to every
// constructor; nothing reads the environment after Load returns.
type AppConfig struct {
	DiscordToken string `envconfig:"DISCORD_BOT_TOKEN"`
	ChannelID    string `envconfig:"DSU_CHANNEL_ID"`
	Timezone     string `envconfig:"DSU_TIMEZONE" default:"Asia/Jakarta"`

	Schedule struct {
		MorningCron string `envconfig:"MORNING_CRON" default:"0 9 * * 1-5"`
		EveningCron string `envconfig:"EVENING_CRON" default:"0 17 * * 1-5"`
		Enabled     bool   `envconfig:"ENABLE_SCHEDULING" default:"true"`
	} `envconfig:""`

	Mentions struct {
		Everyone bool     `envconfig:"MENTION_EVERYONE" default:"false"`
		RoleIDs  []string `envconfig:"MENTION_ROLE_IDS"`
		UserIDs  []string `envconfig:"MENTION_USER_IDS"`
	} `envconfig:""`

	Colors struct {
		Morning string `envconfig:"MORNING_COLOR" default:"F1C40F"`
		Evening string `envconfig:"EVENING_COLOR" default:"9B59B6"`
		Success string `envconfig:"SUCCESS_COLOR" default:"2ECC71"`
		Error   string `envconfig:"ERROR_COLOR" default:"E74C3C"`
	} `envconfig:""`

	TemplateFormat string `envconfig:"TEMPLATE_FORMAT" default:"standard"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogToFile   bool   `envconfig:"LOG_TO_FILE" default:"false"`
	LogFilePath string `envconfig:"LOG_FILE_PATH" default:"logs/dsu-bot.log"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	DebugMode   bool   `envconfig:"DEBUG_MODE" default:"false"`
	DryRun      bool   `envconfig:"DRY_RUN" default:"false"`

	Threads struct {
		Enabled            bool   `envconfig:"ENABLE_THREADS" default:"true"`
		AutoArchiveMinutes int    `envconfig:"THREAD_AUTO_ARCHIVE_MINUTES" default:"1440"`
		Reason             string `envconfig:"THREAD_REASON" default:"Daily standup discussion"`
		InitialMessage     bool   `envconfig:"THREAD_INITIAL_MESSAGE" default:"true"`
	} `envconfig:""`

	Memory struct {
		WarningMB  int `envconfig:"MEMORY_WARNING_MB" default:"128"`
		CriticalMB int `envconfig:"MEMORY_CRITICAL_MB" default:"256"`
	} `envconfig:""`

	Port int `envconfig:"PORT" default:"8080"`
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv never overrides variables already set in the
// environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.TemplateFormat = strings.ToLower(strings.TrimSpace(cfg.TemplateFormat))
	cfg.Mentions.RoleIDs = cleanIDList(cfg.Mentions.RoleIDs)
	cfg.Mentions.UserIDs = cleanIDList(cfg.Mentions.UserIDs)

	return cfg, nil
}

// IsProduction reports whether the bot runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// cleanIDList trims whitespace around comma-separated ids and drops empty
// entries, so "1, 2," parses the way operators expect.
func cleanIDList(ids []string) []string {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
