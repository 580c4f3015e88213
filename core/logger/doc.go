// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and picks a human-readable console encoder when
// attached to a terminal.
//
// # Run Correlation
//
// Every migration run gets a run ID. WithRunID attaches it to a logger so that
// all entries of one run, including the ledger rows written at the end, can be
// correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json, console, or auto (console on a TTY, json otherwise)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log = logger.WithRunID(log, runID)
//	log.Info("Migration started")
package logger
