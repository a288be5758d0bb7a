package sparsegrid

import "github.com/hupe1980/sparsegrid/resource"

type options struct {
	logger       *Logger
	metrics      MetricsCollector
	ctrl         *resource.Controller
	clearWorkers int
}

// Option configures registry construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithController sets the resource controller shared by every arena the
// registry builds. A nil controller only tracks.
func WithController(ctrl *resource.Controller) Option {
	return func(o *options) {
		o.ctrl = ctrl
	}
}

// WithClearWorkers bounds the parallelism of each arena's recycle pass.
// Defaults to GOMAXPROCS.
func WithClearWorkers(n int) Option {
	return func(o *options) {
		o.clearWorkers = n
	}
}
