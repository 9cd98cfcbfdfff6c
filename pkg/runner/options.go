package runner

import (
	"log/slog"
)

// DefaultMaxLineSize bounds one command line; longer input ends the run.
const DefaultMaxLineSize = 4096

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithHandler configures how results are presented.
func WithHandler(handler Handler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithStopOnError makes the runner stop at the first rejected command.
func WithStopOnError(stop bool) Option {
	return func(r *Runner) {
		r.StopOnError = stop
	}
}
