// Package logging configures structured logging for Arbiter.
//
// It builds log/slog loggers from configuration, supporting JSON and text
// output formats with configurable minimum levels. Components receive a
// *slog.Logger and attach their own "component" attribute.
package logging
