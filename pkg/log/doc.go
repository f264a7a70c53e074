// Package log provides structured logging for flowfi services.
//
// Loggers are constructed explicitly and passed by dependency injection;
// there is no package-level default logger. Fields are attached with the
// typed Field constructors (Str, Int64, Component, ...) and rendered by a
// pluggable Formatter to one or more Outputs. A slog bridge routes stdlib
// and log/slog records (e.g. Pebble's internal logging) through the same
// pipeline.
package log
