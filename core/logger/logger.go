package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/anoideaopen/delegate/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultLevel = logrus.WarnLevel

var (
	once sync.Once
	lg   *logrus.Logger
)

// Logger returns the process logger, configured from the environment on first use.
func Logger() *logrus.Logger {
	once.Do(func() {
		cfg, err := config.FromEnv()
		if err != nil {
			cfg = config.Default()
		}

		lg, err = New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			lg, _ = New(defaultLevel.String(), config.LogFormatText)
			lg.WithError(err).Warn("falling back to default logger settings")
		}
	})

	return lg
}

// New creates a logger writing to stderr with the given level and format.
func New(level string, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(lvl)

	switch format {
	case config.LogFormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	case config.LogFormatText, "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("%w: '%s'", config.ErrUnknownLogFormat, format)
	}

	return l, nil
}
