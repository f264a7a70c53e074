package log

import (
	"fmt"
	stdlog "log"
	"strings"
)

// Config describes a logger in the process configuration.
type Config struct {
	// Level is one of debug|info|warn|error.
	Level string `json:"level" yaml:"level"`
	// Format is one of text|json.
	Format string `json:"format" yaml:"format"`
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// ApplyConfig builds a Logger from Config. Empty fields fall back to
// info/text.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg != nil && cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	var formatter Formatter = &TextFormatter{}
	if cfg != nil {
		switch strings.ToLower(cfg.Format) {
		case "", "text":
		case "json":
			formatter = &JSONFormatter{}
		default:
			return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
		}
	}
	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(NewConsoleOutput())), nil
}

// RedirectStdLog routes the stdlib default logger (used by Pebble among
// others) through the provided Logger at info level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdlogWriter{l: l})
}

type stdlogWriter struct{ l Logger }

func (w stdlogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg != "" {
		w.l.Info(msg, Str("source", "stdlog"))
	}
	return len(p), nil
}
