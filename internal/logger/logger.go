// Package logger builds logrus loggers from store configuration.
//
// Every entry handed out carries a "package" field so log searches can be
// narrowed to one component.
package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/AlonMell/rbstore/internal/config"
)

// New returns a logger writing to out with the level and format of cfg.
func New(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

// ForPackage returns an entry tagged with pkg.
func ForPackage(log *logrus.Logger, pkg string) *logrus.Entry {
	return log.WithField("package", pkg)
}

// Discard returns an entry that drops everything.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return ForPackage(log, "discard")
}
