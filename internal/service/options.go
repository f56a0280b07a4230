package service

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// DefaultClock returns UTC time truncated to microseconds, the finest
// precision every backend stores.
func DefaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type options struct {
	clock Clock
	newID domain.IDGenerator
}

// Option customises a service.
type Option func(*options)

// WithClock replaces the clock used for timestamps and upload keys.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator replaces the task id generator.
func WithIDGenerator(gen domain.IDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: DefaultClock, newID: domain.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
