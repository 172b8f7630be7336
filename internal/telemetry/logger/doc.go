// Package logger provides structured logging for dictcore.
//
// It wraps the standard library log/slog:
//
//   - logger.go: handler setup, dynamic level, package-level default
//   - context.go: context propagation of the logger, run ID and dict name
//   - clip.go: shortening of oversized attribute values
//
// The dictionary engine takes a plain *slog.Logger; use Logger.Slog to
// hand it the configured handler.
package logger
