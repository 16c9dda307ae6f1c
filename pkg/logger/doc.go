// Package logger provides structured logging for the mail-merge pipeline.
//
// It is a thin factory over the standard library's log/slog. Every pipeline
// component receives a *slog.Logger through its constructor rather than
// reaching for a package-level singleton, so tests can inject a silent
// logger and the CLI can pick verbosity per run.
//
// Usage:
//
//	log := logger.New(logger.Config{Level: slog.LevelDebug})
//	ds := datasource.NewCSV(csvPath, logger.Component(log, "csv"))
package logger
