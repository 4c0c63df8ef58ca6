// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
)

// New builds the application logger from configuration. The instance is
// constructed once at startup and handed to components as pre-tagged
// *logrus.Entry values; there is no package-level logger to mutate.
func New(cfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	// Set Log Level. DEBUG_MODE wins over LOG_LEVEL so operators can flip one
	// switch during an incident.
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	if cfg.DebugMode && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	// Set Log Formatter
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else { // Development or other environments
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	// Optional durable sink. A file that cannot be opened must not take the
	// bot down; the configuration validator already warns when production
	// runs without one.
	if cfg.LogToFile {
		if file, err := openLogFile(cfg.LogFilePath); err != nil {
			log.Warnf("Could not open log file %s, continuing with stdout only: %v", cfg.LogFilePath, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, file))
			log.Infof("File logging enabled at %s", cfg.LogFilePath)
		}
	}

	log.Debugf("Log level set to: %s", log.GetLevel().String())
	log.Debugf("Log format set for environment: %s", cfg.Environment)

	return log
}

// openLogFile creates the parent directory if needed and opens the file in
// append mode. The handle lives for the whole process.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
