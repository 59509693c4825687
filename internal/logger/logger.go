package logger

import (
	"os"
	"strings"

	"github.com/segyhp/dues-engine/internal/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance, shared with the logrus package-level helpers
var Log = logrus.StandardLogger()

// Init configures the global logger from the logging section of the config.
func Init(cfg *config.Config) *logrus.Logger {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(cfg.Logging.Format) == "json" || cfg.IsProduction() {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	return Log
}
