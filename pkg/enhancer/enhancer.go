package enhancer

import (
	"reflect"

	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/history"
)

// Reducer is a pure state transition function.
// A nil state means "no state yet": called with nil and the empty action it
// must return the initial state.
type Reducer[S any] func(state *S, action domain.Action) S

// State is the combined state produced by an enhanced reducer: the wrapped
// reducer's own state plus the history log.
type State[S any] struct {
	Base    S                  `json:"base"`
	History history.History[S] `json:"history"`
}

// Enhanced is a reducer over State. It reports an error, and returns the
// input state unchanged, when a reserved action cannot be applied.
type Enhanced[S any] func(state *State[S], action domain.Action) (State[S], error)

// Init returns the initial combined state.
func (e Enhanced[S]) Init() State[S] {
	s, _ := e(nil, domain.Action{})
	return s
}

// Enhance wraps base with commit, undo, redo and goto handling.
func Enhance[S any](base Reducer[S], opts ...Option) Enhanced[S] {
	cfg := newSettings(opts...)
	logger := cfg.logger

	initial := func() State[S] {
		baseInitial := base(nil, domain.Action{})
		return State[S]{
			Base:    baseInitial,
			History: history.Initial(cfg.config.InitialMessage, baseInitial),
		}
	}

	return func(state *State[S], action domain.Action) (State[S], error) {
		if state == nil {
			return initial(), nil
		}

		h := state.History
		if h.IsZero() {
			h = initial().History
		}

		// Goto never consults the wrapped reducer.
		if action.Type == domain.ActionGoto {
			index, err := action.IndexPayload()
			if err != nil {
				logger.Warn("Rejected goto", "err", err)
				return *state, err
			}
			moved, restored, err := h.Goto(index)
			if err != nil {
				logger.Warn("Rejected goto", "index", index, "len", h.Len(), "err", err)
				return *state, err
			}
			logger.Debug("History travel", "action", "goto", "from_head", h.Head(), "to_head", moved.Head())
			return State[S]{Base: restored, History: moved}, nil
		}

		var message string
		if action.Type == domain.ActionCommit {
			msg, err := action.MessagePayload()
			if err != nil {
				logger.Warn("Rejected commit", "err", err)
				return *state, err
			}
			message = msg
		}

		var userState *S
		if !isEmpty(state.Base) {
			current := state.Base
			userState = &current
		}
		next := base(userState, action)

		switch action.Type {
		case domain.ActionCommit:
			committed := h.Commit(message, state.Base)
			logger.Debug("History commit", "message", message, "pruned", h.Head(), "len", committed.Len())
			return State[S]{Base: next, History: committed}, nil

		case domain.ActionUndo:
			moved, restored := h.Undo()
			logger.Debug("History travel", "action", "undo", "from_head", h.Head(), "to_head", moved.Head())
			return State[S]{Base: restored, History: moved}, nil

		case domain.ActionRedo:
			moved, restored, ok := h.Redo()
			if !ok {
				return State[S]{Base: next, History: h}, nil
			}
			logger.Debug("History travel", "action", "redo", "from_head", h.Head(), "to_head", moved.Head())
			return State[S]{Base: restored, History: moved}, nil
		}

		return State[S]{Base: next, History: h}, nil
	}
}

// isEmpty reports whether a base state carries nothing the wrapped reducer
// could build on, in which case it is handed nil instead.
// Nil pointers and interfaces, empty maps and slices, and structs without
// fields are empty. Structs with fields and scalars never are, even when
// they hold their zero value.
func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Struct:
		return rv.NumField() == 0
	}
	return false
}
