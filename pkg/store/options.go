package store

import (
	"log/slog"

	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
)

type options struct {
	id           string
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	enhancerOpts []enhancer.Option
}

// Option defines a functional option for configuring a Store.
type Option func(*options)

// WithID sets the store identifier reported in events.
// By default a random UUID is used.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it several times chains the hooks in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = domain.MergeHooks(o.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the store and its enhancer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEnhancerOptions forwards options to the history enhancer built by New.
func WithEnhancerOptions(opts ...enhancer.Option) Option {
	return func(o *options) {
		o.enhancerOpts = append(o.enhancerOpts, opts...)
	}
}
