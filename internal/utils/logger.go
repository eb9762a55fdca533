package utils

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogOptions configures NewLogger.
type LogOptions struct {
	Level  string // debug, info, warn, error (default info)
	Format string // text or json (default text)
	File   string // optional log file, appended to alongside stderr
}

// NewLogger creates a logrus logger. The returned closer releases the log file, if any.
func NewLogger(opts LogOptions) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, errors.Errorf("invalid log format %q", opts.Format)
	}

	if opts.File == "" {
		return logger, nopCloser{}, nil
	}
	file, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open log file")
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, file))
	return logger, file, nil
}

// Discard returns a logger that drops everything. Used as the default for library code.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
