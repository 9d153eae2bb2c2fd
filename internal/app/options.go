package app

import (
	"github.com/okian/riskboard/internal/adapters/page"
	"github.com/okian/riskboard/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the diagnostics logger. Raw request errors go here and
// never to the page.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithNavigator installs a hook that learns about every navigation.
func WithNavigator(n page.Navigator) Option {
	return func(o *Orchestrator) {
		o.navigator = n
	}
}

// WithStatsAttribute sets the attribute charted when the page offers no
// choice.
func WithStatsAttribute(attribute string) Option {
	return func(o *Orchestrator) {
		if attribute != "" {
			o.statsAttribute = attribute
		}
	}
}

// WithLoopCapacity bounds the number of pending callbacks.
func WithLoopCapacity(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.loopCapacity = n
		}
	}
}
