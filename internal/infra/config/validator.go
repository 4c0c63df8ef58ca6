// internal/infra/config/validator.go
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/opisboy29/discord-dsu-bot/internal/domain/schedule"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/validation"
)

const (
	minTokenLength        = 50
	maxThreadReasonLength = 512
)

var (
	tokenPattern    = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	hexColorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)
)

// Validate runs the fixed ordered check sequence over a configuration
// snapshot and returns the structured report that gates startup. It is pure:
// no I/O, deterministic, and every check runs regardless of earlier failures.
func Validate(cfg *AppConfig) *validation.Report {
	report := validation.NewReport()

	// 1. Bot credential shape.
	switch {
	case cfg.DiscordToken == "":
		report.AddError("CFG_TOKEN_MISSING", "DISCORD_BOT_TOKEN is required")
	case len(cfg.DiscordToken) < minTokenLength:
		report.AddError("CFG_TOKEN_TOO_SHORT", fmt.Sprintf(
			"DISCORD_BOT_TOKEN looks truncated: %d chars, expected at least %d", len(cfg.DiscordToken), minTokenLength))
	case !tokenPattern.MatchString(cfg.DiscordToken):
		report.AddError("CFG_TOKEN_CHARSET", "DISCORD_BOT_TOKEN contains characters outside [A-Za-z0-9._-]")
	}

	// 2. Channel identifier shape.
	switch {
	case cfg.ChannelID == "":
		report.AddError("CFG_CHANNEL_ID_MISSING", "DSU_CHANNEL_ID is required")
	case !validation.IsSnowflake(cfg.ChannelID):
		report.AddError("CFG_CHANNEL_ID_INVALID", fmt.Sprintf(
			"DSU_CHANNEL_ID %q must be a 17-19 digit Discord id", cfg.ChannelID))
	}

	// 3. Timezone must resolve via the platform tz database.
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		report.AddError("CFG_TIMEZONE_INVALID", fmt.Sprintf(
			"DSU_TIMEZONE %q is not a known timezone", cfg.Timezone))
	}

	// 4. Cron expressions. The scheduler substitutes documented defaults for
	// invalid ones; the validator's job is only to surface the problem.
	if !schedule.IsValidCron(cfg.Schedule.MorningCron) {
		report.AddError("CFG_MORNING_CRON_INVALID", fmt.Sprintf(
			"MORNING_CRON %q is not a valid 5-field cron expression", cfg.Schedule.MorningCron))
	}
	if !schedule.IsValidCron(cfg.Schedule.EveningCron) {
		report.AddError("CFG_EVENING_CRON_INVALID", fmt.Sprintf(
			"EVENING_CRON %q is not a valid 5-field cron expression", cfg.Schedule.EveningCron))
	}

	// 5. Embed palette.
	for _, c := range []struct{ key, value string }{
		{"MORNING_COLOR", cfg.Colors.Morning},
		{"EVENING_COLOR", cfg.Colors.Evening},
		{"SUCCESS_COLOR", cfg.Colors.Success},
		{"ERROR_COLOR", cfg.Colors.Error},
	} {
		if !hexColorPattern.MatchString(c.value) {
			report.AddError("CFG_COLOR_INVALID", fmt.Sprintf(
				"%s %q must be exactly 6 hex digits without a leading '#'", c.key, c.value))
		}
	}

	// 6. Memory thresholds must be positive and ordered.
	if cfg.Memory.WarningMB <= 0 || cfg.Memory.CriticalMB <= 0 || cfg.Memory.CriticalMB <= cfg.Memory.WarningMB {
		report.AddError("CFG_MEMORY_THRESHOLDS_INVALID", fmt.Sprintf(
			"MEMORY_CRITICAL_MB (%d) must be greater than MEMORY_WARNING_MB (%d) and both positive",
			cfg.Memory.CriticalMB, cfg.Memory.WarningMB))
	}

	// 7. Template format enum.
	switch cfg.TemplateFormat {
	case "standard", "compact", "minimal":
	default:
		report.AddError("CFG_TEMPLATE_FORMAT_INVALID", fmt.Sprintf(
			"TEMPLATE_FORMAT %q must be one of standard, compact, minimal", cfg.TemplateFormat))
	}

	// 8. Log level enum.
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		report.AddError("CFG_LOG_LEVEL_INVALID", fmt.Sprintf(
			"LOG_LEVEL %q must be one of trace, debug, info, warn, error", cfg.LogLevel))
	}

	// 9. Thread settings.
	switch cfg.Threads.AutoArchiveMinutes {
	case 60, 1440, 4320, 10080:
	default:
		report.AddError("CFG_THREAD_ARCHIVE_INVALID", fmt.Sprintf(
			"THREAD_AUTO_ARCHIVE_MINUTES %d must be one of 60, 1440, 4320, 10080", cfg.Threads.AutoArchiveMinutes))
	}
	if len(cfg.Threads.Reason) > maxThreadReasonLength {
		report.AddError("CFG_THREAD_REASON_TOO_LONG", fmt.Sprintf(
			"THREAD_REASON is %d chars, maximum is %d", len(cfg.Threads.Reason), maxThreadReasonLength))
	}

	// 10. Mention id lists, one aggregate entry per list.
	if bad := invalidIDs(cfg.Mentions.RoleIDs); len(bad) > 0 {
		report.AddError("CFG_MENTION_IDS_INVALID", fmt.Sprintf(
			"MENTION_ROLE_IDS contains invalid ids: %v", bad))
	}
	if bad := invalidIDs(cfg.Mentions.UserIDs); len(bad) > 0 {
		report.AddError("CFG_MENTION_IDS_INVALID", fmt.Sprintf(
			"MENTION_USER_IDS contains invalid ids: %v", bad))
	}

	// 11. Production hygiene warnings.
	if cfg.IsProduction() {
		if cfg.DebugMode {
			report.AddWarning("CFG_DEBUG_IN_PRODUCTION", "DEBUG_MODE is enabled in production")
		}
		if cfg.DryRun {
			report.AddWarning("CFG_DRY_RUN_IN_PRODUCTION", "DRY_RUN is enabled in production; no messages will be sent")
		}
		if !cfg.LogToFile {
			report.AddWarning("CFG_NO_FILE_LOG_IN_PRODUCTION", "LOG_TO_FILE is disabled in production; logs are not durable")
		}
	}

	// 12. Recommendations.
	if !cfg.Mentions.Everyone && len(cfg.Mentions.RoleIDs) == 0 && len(cfg.Mentions.UserIDs) == 0 {
		report.AddRecommendation("CFG_NO_MENTIONS", "no mentions configured; DSU prompts will not ping anyone")
	}
	if !cfg.Threads.Enabled {
		report.AddRecommendation("CFG_THREADS_DISABLED", "discussion threads are disabled")
	}
	if !cfg.Schedule.Enabled {
		report.AddRecommendation("CFG_SCHEDULING_DISABLED", "scheduling is disabled; only manual triggers will post")
	}

	return report
}

func invalidIDs(ids []string) []string {
	var bad []string
	for _, id := range ids {
		if !validation.IsSnowflake(id) {
			bad = append(bad, id)
		}
	}
	return bad
}
