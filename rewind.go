package rewind

import (
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"github.com/aretw0/rewind/pkg/store"
)

// Action is an alias of domain.Action.
type Action = domain.Action

// State is an alias of enhancer.State.
type State[S any] = enhancer.State[S]

// Reducer is an alias of enhancer.Reducer.
type Reducer[S any] = enhancer.Reducer[S]

// New wraps reducer with history handling and returns a store holding its state.
func New[S any](reducer Reducer[S], opts ...store.Option) *store.Store[S] {
	return store.New(reducer, opts...)
}

// Enhance wraps reducer with history handling without a store around it.
func Enhance[S any](reducer Reducer[S], opts ...enhancer.Option) enhancer.Enhanced[S] {
	return enhancer.Enhance(reducer, opts...)
}

// WithInitialMessage labels the first history entry of a store built by New.
func WithInitialMessage(message string) store.Option {
	return store.WithEnhancerOptions(enhancer.WithInitialMessage(message))
}
