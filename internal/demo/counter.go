// Package demo provides a small counter domain used by the CLI, the servers
// and the tests to exercise the history enhancer.
package demo

import (
	"github.com/aretw0/rewind/pkg/domain"
)

// Counter action types.
const (
	ActionInc = "INC"
	ActionDec = "DEC"
	ActionAdd = "ADD" // Payload: int
	ActionSet = "SET" // Payload: int
)

// Counter is the demo application state.
type Counter struct {
	Value int `json:"value" yaml:"value"`
}

func Inc() domain.Action { return domain.Action{Type: ActionInc} }
func Dec() domain.Action { return domain.Action{Type: ActionDec} }

func Add(n int) domain.Action { return domain.Action{Type: ActionAdd, Payload: n} }
func Set(n int) domain.Action { return domain.Action{Type: ActionSet, Payload: n} }

// Reduce is the counter reducer. Actions with a malformed payload are ignored.
func Reduce(state *Counter, action domain.Action) Counter {
	if state == nil {
		return Counter{}
	}
	switch action.Type {
	case ActionInc:
		return Counter{Value: state.Value + 1}
	case ActionDec:
		return Counter{Value: state.Value - 1}
	case ActionAdd:
		if n, err := action.IntPayload(); err == nil {
			return Counter{Value: state.Value + n}
		}
	case ActionSet:
		if n, err := action.IntPayload(); err == nil {
			return Counter{Value: n}
		}
	}
	return *state
}
