// Package logging assembles the structured slog loggers used across
// scorevault.
//
// It owns level and output plumbing for the console and JSON formats,
// exposes typed attribute helpers so components emit uniformly shaped
// fields, and provides context helpers that tag log lines with request
// correlation ids. A no-op logger is available for tests and wiring code
// that cannot fail.
package logging
