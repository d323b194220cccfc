// Package dispatch runs verification requests against the registry: it
// validates the request envelope, builds the pipeline, executes it either
// inline or on a bounded worker pool, and shapes the response. It also
// defines the backend abstraction shared by the local service and the HTTP
// client.
package dispatch

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for the dispatcher pool.
const (
	DefaultMaxWorkers = 4
	DefaultTimeout    = 30 * time.Second
)

// Options configures the dispatcher. The zero value is usable: normalization
// fills in the defaults before validation.
type Options struct {
	// MaxWorkers is the fixed number of pool workers.
	MaxWorkers int `validate:"gte=1"`
	// QueueSize bounds the pending-task queue. Zero means unbounded.
	QueueSize int `validate:"gte=0"`
	// Timeout is the per-request deadline for async verification.
	Timeout time.Duration `validate:"gt=0"`
}

// DefaultOptions returns the stock dispatcher configuration.
func DefaultOptions() Options {
	return Options{MaxWorkers: DefaultMaxWorkers, Timeout: DefaultTimeout}
}

func (o Options) normalized() Options {
	if o.MaxWorkers == 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Validate checks the option constraints after normalization.
func (o Options) Validate() error {
	return optionsValidator().Struct(o.normalized())
}
