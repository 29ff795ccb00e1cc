package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/ntfywatch/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSummaryOutput redirects the startup summary. Pass io.Discard to
// silence it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}
