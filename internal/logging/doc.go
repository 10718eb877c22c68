// Package logging assembles structured slog loggers and formatting helpers used
// across orgsort components.
//
// It owns the configurable console/JSON handlers, the per-run log file, and
// retention pruning of old run artifacts. Components never configure a global
// logger: they receive a *slog.Logger and tag it with NewComponentLogger. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
