// Package logging constructs the process-wide slog logger and provides the
// attribute helpers and standardized field keys the pipeline stages share.
package logging
