// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/opisboy29/discord-dsu-bot/internal/app"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/validation"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
	infradiscord "github.com/opisboy29/discord-dsu-bot/internal/infra/discord"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/httpserver"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/logger"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/metrics"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/scheduler"
)

// shutdownGrace bounds the whole shutdown sequence; past it the process
// force-exits rather than hang on a wedged connection.
const shutdownGrace = 15 * time.Second

func main() {
	fmt.Println("Discord DSU Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	mainLogger := log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"log_level":       log.GetLevel().String(),
		"template_format": cfg.TemplateFormat,
		"timezone":        cfg.Timezone,
		"dry_run":         cfg.DryRun,
	}).Info("Configuration loaded")

	// Configuration gate. A snapshot that fails validation must never reach
	// Discord, so this one is fatal.
	report := config.Validate(cfg)
	logValidationReport(mainLogger, "configuration", report)
	if !report.Passed() {
		mainLogger.Fatalf("FATAL: Configuration validation failed with %d error(s); refusing to start", len(report.Errors))
	}
	mainLogger.Info("Configuration validated successfully")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// The timezone passed validation; resolve it once and hand the location
	// to every component that reads a wall clock.
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load timezone %q: %v", cfg.Timezone, err)
	}

	// Initialize the Discord session.
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	gateway := infradiscord.NewSessionAdapter(session, log.WithField("component", "gateway"))
	if err := session.Open(); err != nil {
		mainLogger.Fatalf("FATAL: Could not open the Discord gateway connection (check DISCORD_BOT_TOKEN): %v", err)
	}
	mainLogger.Info("Discord gateway connection established")

	// Channel gate. This one is soft: a failure disables scheduled prompts
	// but leaves manual commands and the health surface running, so the
	// operator can diagnose the channel without restart loops.
	schedulingEnabled := cfg.Schedule.Enabled
	if !schedulingEnabled {
		mainLogger.Warn("ENABLE_SCHEDULING is off; no prompts will be posted on a schedule")
	}
	channelValidator := infradiscord.NewChannelValidator(gateway, log.WithField("component", "channel_validator"))
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 30*time.Second)
	channelReport := channelValidator.Validate(probeCtx, cfg.ChannelID)
	cancelProbe()
	logValidationReport(mainLogger, "channel access", channelReport)
	if channelReport.Passed() {
		mainLogger.WithField("channel_id", cfg.ChannelID).Info("Channel validation passed")
	} else {
		schedulingEnabled = false
		mainLogger.WithField("channel_id", cfg.ChannelID).
			Error("Channel validation failed; scheduled prompts are disabled until the channel is fixed")
	}

	// Wire the dispatch pipeline.
	threads := infradiscord.NewThreadManager(gateway, cfg, log.WithField("component", "threads"))
	dispatcher := app.NewDispatcherImpl(gateway, threads, cfg, loc, log.WithField("component", "dispatcher"))
	dsuScheduler := scheduler.New(cfg, dispatcher, loc, log.WithField("component", "scheduler"))

	if schedulingEnabled {
		if err := dsuScheduler.Start(); err != nil {
			mainLogger.Fatalf("FATAL: Could not start the DSU scheduler: %v", err)
		}
	} else {
		mainLogger.Warn("Scheduler not started; prompts are available through manual commands only")
	}

	// Manual commands register unconditionally: they are the escape hatch
	// when the soft gate keeps the scheduler down.
	commands := infradiscord.NewCommandHandler(dispatcher, dsuScheduler, threads, gateway, cfg, log.WithField("component", "commands"))
	commands.Register(session)

	healthServer := httpserver.New(cfg, dsuScheduler, gateway, log.WithField("component", "http"))
	if err := healthServer.Start(); err != nil {
		mainLogger.Fatalf("FATAL: Could not start the health server: %v", err)
	}

	mainLogger.Info("Application setup complete. DSU bot is running.")

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	mainLogger.WithField("signal", sig.String()).Info("Shutting down application...")

	done := make(chan struct{})
	go func() {
		defer close(done)
		dsuScheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			mainLogger.WithError(err).Error("Health server did not shut down cleanly")
		}
		if err := session.Close(); err != nil {
			mainLogger.WithError(err).Error("Discord session did not close cleanly")
		}
	}()

	select {
	case <-done:
		mainLogger.Info("Application shut down gracefully")
	case <-time.After(shutdownGrace):
		mainLogger.Error("Shutdown exceeded the grace period; forcing exit")
		os.Exit(1)
	}
}

// logValidationReport prints every entry of a validation report through the
// structured logger, one line per finding, so operators see the complete
// picture instead of the first failure.
func logValidationReport(log *logrus.Entry, subject string, report *validation.Report) {
	for _, entry := range report.Errors {
		log.WithField("code", entry.Code).Errorf("%s validation: %s", subject, entry.Message)
	}
	for _, entry := range report.Warnings {
		log.WithField("code", entry.Code).Warnf("%s validation: %s", subject, entry.Message)
	}
	for _, entry := range report.Recommendations {
		log.WithField("code", entry.Code).Infof("%s validation recommendation: %s", subject, entry.Message)
	}
}
