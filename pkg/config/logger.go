package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

var (
	ErrMissingSection = errors.New("config file has no logging section")
	ErrBadLevel       = errors.New("unknown log level")
	ErrBadFormat      = errors.New("unknown log format")
)

// LoggerOption adjusts how NewLogger interprets the logging section.
type LoggerOption func(*loggerSettings)

// WithLogFile overrides the file destination configured in the logging
// section.
func WithLogFile(path string) LoggerOption {
	return func(s *loggerSettings) {
		s.file = path
	}
}

type loggerSettings struct {
	level  string
	format string
	file   string
}

// NewLogger builds a slog.Logger from the `logging` section of a YAML file:
//
//	logging:
//	  level: debug      # debug, info, warn, error (default info)
//	  format: text      # text or json (default text)
//	  file: ./app.log   # optional, stderr when absent
func NewLogger(path string, opts ...LoggerOption) (*slog.Logger, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	raw, ok := cfg["logging"]
	if !ok {
		return nil, errors.Wrapf(ErrMissingSection, "in %s", path)
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrMissingSection, "logging key in %s is not a mapping", path)
	}

	settings := loggerSettings{
		level:  stringOr(section, "level", "info"),
		format: stringOr(section, "format", "text"),
		file:   stringOr(section, "file", ""),
	}
	for _, opt := range opts {
		opt(&settings)
	}

	level, err := parseLevel(settings.level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if settings.file != "" {
		file, err := os.OpenFile(settings.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to open log file %s", settings.file)
		}
		out = file
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch settings.format {
	case "text":
		return slog.New(slog.NewTextHandler(out, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, handlerOpts)), nil
	default:
		return nil, errors.Wrapf(ErrBadFormat, "%q", settings.format)
	}
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Wrapf(ErrBadLevel, "%q", level)
	}
}

func stringOr(section map[string]any, key, fallback string) string {
	value, ok := section[key].(string)
	if !ok {
		return fallback
	}

	return value
}
