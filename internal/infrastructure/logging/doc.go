// Package logging provides the structured logger for Aquamon Core.
//
// It wraps log/slog with level filtering, JSON or text output, and
// default service fields. Components derive scoped loggers with
// With("component", ...), so every warning about a bad reading or a
// failed save carries its origin.
package logging
