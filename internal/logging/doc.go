// Package logging assembles structured slog loggers and formatting helpers used
// across newscast stages.
//
// It owns the console and JSON handlers, fans console output and the JSON
// log file out from one logger, and exposes context-aware helpers so stage
// code tags log lines with the run identifier, stage, and narration segment
// index. NewNop is available for tests and wiring code that cannot fail.
package logging
