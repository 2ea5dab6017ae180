// Package logger builds the client's structured loggers on top of
// log/slog: text output for development, JSON for production, plus a
// discard logger for embedding the client silently.
package logger
