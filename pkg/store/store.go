package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/rewind/internal/logging"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"github.com/google/uuid"
)

// Listener is called with the new state after every successful dispatch.
type Listener[S any] func(enhancer.State[S])

// Store holds the latest state of an enhanced reducer and serializes dispatches.
// Safe for concurrent use.
type Store[S any] struct {
	id     string
	reduce enhancer.Enhanced[S]
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu    sync.Mutex // serializes dispatches
	state enhancer.State[S]

	// pending holds applied dispatches not yet notified, in the order they
	// were applied. Appended under mu; mu is never acquired while holding
	// notifyMu.
	notifyMu sync.Mutex
	pending  []notification[S]
	draining bool

	subsMu    sync.Mutex
	listeners map[uint64]Listener[S]
	nextSub   uint64
}

// New wraps reducer with the history enhancer and initializes a store with it.
func New[S any](reducer enhancer.Reducer[S], opts ...Option) *Store[S] {
	o := applyOptions(opts)
	enhancerOpts := append([]enhancer.Option{enhancer.WithLogger(o.logger)}, o.enhancerOpts...)
	return newStore(enhancer.Enhance(reducer, enhancerOpts...), o)
}

// NewFromEnhanced initializes a store around an already enhanced reducer.
// Enhancer options passed through WithEnhancerOptions are ignored.
func NewFromEnhanced[S any](reduce enhancer.Enhanced[S], opts ...Option) *Store[S] {
	return newStore(reduce, applyOptions(opts))
}

func applyOptions(opts []Option) *options {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	return o
}

func newStore[S any](reduce enhancer.Enhanced[S], o *options) *Store[S] {
	return &Store[S]{
		id:        o.id,
		reduce:    reduce,
		hooks:     o.hooks,
		logger:    o.logger.With("store_id", o.id),
		state:     reduce.Init(),
		listeners: make(map[uint64]Listener[S]),
	}
}

// ID returns the store identifier.
func (s *Store[S]) ID() string {
	return s.id
}

// State returns the latest state.
func (s *Store[S]) State() enhancer.State[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action and returns the new state.
// On failure the previous state is kept and returned together with the error.
func (s *Store[S]) Dispatch(ctx context.Context, action domain.Action) (enhancer.State[S], error) {
	s.mu.Lock()

	prev := s.state
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		s.reject(ctx, action, err)
		return prev, err
	}

	next, err := s.reduce(&prev, action)
	if err != nil {
		s.mu.Unlock()
		s.reject(ctx, action, err)
		return prev, fmt.Errorf("dispatch %s: %w", action.Type, err)
	}
	s.state = next

	s.notifyMu.Lock()
	s.pending = append(s.pending, notification[S]{ctx: ctx, action: action, prev: prev, next: next})
	s.notifyMu.Unlock()
	s.mu.Unlock()

	s.drain()
	return next, nil
}

type notification[S any] struct {
	ctx    context.Context
	action domain.Action
	prev   enhancer.State[S]
	next   enhancer.State[S]
}

// drain delivers pending notifications in order. A single goroutine drains at
// a time; a dispatch that finds a drain in progress (including one made from a
// listener) leaves its notification to that goroutine.
func (s *Store[S]) drain() {
	s.notifyMu.Lock()
	if s.draining {
		s.notifyMu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		n := s.pending[0]
		s.pending[0] = notification[S]{}
		s.pending = s.pending[1:]
		s.notifyMu.Unlock()
		s.notify(n)
		s.notifyMu.Lock()
	}
	s.draining = false
	s.notifyMu.Unlock()
}

func (s *Store[S]) notify(n notification[S]) {
	now := time.Now()
	if s.hooks.OnTravel != nil && isTravel(n.action.Type) {
		msg := ""
		if e, ok := n.next.History.Current(); ok {
			msg = e.Message
		}
		s.hooks.OnTravel(n.ctx, &domain.TravelEvent{
			EventBase: domain.EventBase{Timestamp: now, Type: domain.EventTravel, StoreID: s.id},
			Action:    n.action,
			FromHead:  n.prev.History.Head(),
			ToHead:    n.next.History.Head(),
			Message:   msg,
		})
	}
	if s.hooks.OnDispatch != nil {
		s.hooks.OnDispatch(n.ctx, &domain.DispatchEvent{
			EventBase: domain.EventBase{Timestamp: now, Type: domain.EventDispatch, StoreID: s.id},
			Action:    n.action,
			Head:      n.next.History.Head(),
			Len:       n.next.History.Len(),
		})
	}
	for _, l := range s.snapshotListeners() {
		l(n.next)
	}
}

func (s *Store[S]) reject(ctx context.Context, action domain.Action, err error) {
	s.logger.Warn("Action rejected", "action", action.Type, "err", err)
	if s.hooks.OnReject != nil {
		s.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventReject, StoreID: s.id},
			Action:    action,
			Err:       err,
		})
	}
}

// Commit dispatches a commit action.
func (s *Store[S]) Commit(ctx context.Context, message string) (enhancer.State[S], error) {
	return s.Dispatch(ctx, domain.Commit(message))
}

// Undo dispatches an undo action.
func (s *Store[S]) Undo(ctx context.Context) (enhancer.State[S], error) {
	return s.Dispatch(ctx, domain.Undo())
}

// Redo dispatches a redo action.
func (s *Store[S]) Redo(ctx context.Context) (enhancer.State[S], error) {
	return s.Dispatch(ctx, domain.Redo())
}

// Goto dispatches a goto action.
func (s *Store[S]) Goto(ctx context.Context, index int) (enhancer.State[S], error) {
	return s.Dispatch(ctx, domain.Goto(index))
}

// Subscribe registers a listener called after every successful dispatch.
// Listeners see states in the order they were applied. They run outside the
// store lock and may dispatch themselves; such a dispatch is applied at once
// and notified after the current listener returns.
// The returned function removes the listener.
func (s *Store[S]) Subscribe(l Listener[S]) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

func (s *Store[S]) snapshotListeners() []Listener[S] {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	out := make([]Listener[S], 0, len(s.listeners))
	for i := uint64(0); i < s.nextSub; i++ {
		if l, ok := s.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}

func isTravel(actionType string) bool {
	switch actionType {
	case domain.ActionUndo, domain.ActionRedo, domain.ActionGoto:
		return true
	}
	return false
}
