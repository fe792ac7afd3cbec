package handlepool

import (
	"golang.org/x/time/rate"
)

const (
	// DefaultStaleLogRate is the default number of stale-handle log records
	// per second.
	DefaultStaleLogRate = 10
	// DefaultStaleLogBurst is the default burst for stale-handle log records.
	DefaultStaleLogBurst = 10
)

type options struct {
	name          string
	logger        *Logger
	metrics       MetricsCollector
	release       any // func(*T), checked in New
	maxChunks     int
	budget        *MemoryBudget
	staleLogRate  rate.Limit
	staleLogBurst int
}

func defaultOptions() options {
	return options{
		logger:        NoopLogger(),
		staleLogRate:  DefaultStaleLogRate,
		staleLogBurst: DefaultStaleLogBurst,
	}
}

// Option configures a Pool at construction time.
type Option func(*options)

// WithName labels the pool in log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable.
//
// Example:
//
//	metrics := &handlepool.BasicMetricsCollector{}
//	p, _ := handlepool.New[Mesh](64, handlepool.WithMetricsCollector(metrics))
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithRelease registers fn to be called once for every value the pool
// destroys: on Erase, Clear and Close. Remove hands the value back to the
// caller instead and does not call fn.
//
// On Erase and Clear the slot is already free when fn runs and fn receives
// the removed value, so fn may call back into the pool. During Close the pool
// is already closed.
//
// The element type of fn must match the pool's; New returns ErrReleaseType
// otherwise.
func WithRelease[T any](fn func(*T)) Option {
	return func(o *options) {
		if fn == nil {
			o.release = nil
			return
		}
		o.release = fn
	}
}

// WithMaxChunks caps the number of chunks the pool may allocate.
// Zero means no cap beyond the index space.
func WithMaxChunks(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxChunks = n
	}
}

// WithMemoryBudget charges every chunk allocation against b. Several pools
// may share one budget.
func WithMemoryBudget(b *MemoryBudget) Option {
	return func(o *options) {
		o.budget = b
	}
}

// WithStaleLogRate limits how many stale-handle failures per second are
// logged. A limit of rate.Inf logs every failure.
func WithStaleLogRate(limit rate.Limit, burst int) Option {
	return func(o *options) {
		if burst < 1 {
			burst = 1
		}
		o.staleLogRate = limit
		o.staleLogBurst = burst
	}
}
