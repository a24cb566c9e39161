// Package logging provides the shared slog setup: a console handler for
// interactive scans, a JSON handler for captures that get post-processed,
// and helpers for attaching component context to loggers handed to the
// engine's collaborators.
package logging
