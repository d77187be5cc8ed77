// Package logger provides structured logging for the SDK on top of zerolog.
//
// The Logger interface keeps the rest of the codebase decoupled from the
// logging backend and gives tests a capturing implementation (TestLogger).
//
// Basic usage:
//
//	log, err := logger.NewConsole("debug")
//	log.InfoWithFields("request finished", map[string]interface{}{
//		"status":   200,
//		"duration": elapsed,
//	})
//
// A process-wide logger is available through Initialize and GetLogger for
// code paths that have no logger wired in explicitly.
package logger
