package logging

import (
	"os"

	"github.com/localnerve/orgportal/internal/config"
	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger from the config
func Setup(cfg *config.Config) {
	logrus.SetOutput(os.Stdout)

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	if cfg.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}
