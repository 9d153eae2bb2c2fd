package loop

import "github.com/okian/riskboard/pkg/logger"

// Option applies a configuration option to the Loop.
type Option func(*Loop)

// WithCapacity sets the maximum number of pending tasks.
func WithCapacity(capacity int) Option {
	return func(l *Loop) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

// WithLogger sets the logger used to report recovered task panics.
func WithLogger(log logger.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}
