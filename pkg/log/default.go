package log

import "sync"

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// GetDefaultLogger returns the process-wide logger, creating a text logger at
// info level on first use.
func GetDefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger()
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger. Typically called once
// during startup after configuration is loaded.
func SetDefaultLogger(l Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Package-level helpers that forward to the default logger.
func Debug(msg string, fields ...Field) { GetDefaultLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { GetDefaultLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { GetDefaultLogger().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { GetDefaultLogger().Error(msg, fields...) }
