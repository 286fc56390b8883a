package voctree

import (
	"github.com/hupe1980/voctree/distance"
	"github.com/hupe1980/voctree/recognizer"
	"github.com/hupe1980/voctree/resource"
)

type options struct {
	minDepth         int
	maxNodeImages    recognizer.Cap
	norm             distance.Kind
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
}

// Option configures DB and Sharded constructors.
type Option func(*options)

func defaultOptions() options {
	return options{
		minDepth:         recognizer.DefaultOptions.MinDepth,
		maxNodeImages:    recognizer.DefaultOptions.MaxNodeImages,
		norm:             recognizer.DefaultOptions.Norm,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// WithMinDepth excludes vocabulary nodes closer than depth to the root from
// descriptors. Shallow nodes are near-universal visual words that carry
// little discriminative value. Default 0 (use every weighted node).
func WithMinDepth(depth int) Option {
	return func(o *options) {
		o.minDepth = depth
	}
}

// WithMaxNodeImages caps how many images a single visual word may reference
// before queries skip it as a stopword. The cap resolves against the
// database size at query time. Default Relative(1.0, 1), i.e. never skip.
//
// With a million images in the database, recognizer.Fixed(20000) is a
// reasonable last-ditch bound when queries get too slow.
func WithMaxNodeImages(c recognizer.Cap) Option {
	return func(o *options) {
		o.maxNodeImages = c
	}
}

// WithNorm selects the descriptor norm. Default distance.L2.
// An unrecognized kind fails at construction, not at query time.
func WithNorm(k distance.Kind) Option {
	return func(o *options) {
		o.norm = k
	}
}

// WithLogger configures structured logging. Default: no logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures operational metrics collection.
// Default: no collection.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metricsCollector = m
	}
}

// WithController bounds shard query fan-out with a resource controller.
// Only Sharded consults it; a nil controller enforces nothing. Default nil.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}
