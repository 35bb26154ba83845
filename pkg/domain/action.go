package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Action is a request to change the state of a store.
// Type identifies the kind of change; Payload carries its argument, if any.
type Action struct {
	Type    string `json:"type" yaml:"type" mapstructure:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty" mapstructure:"payload"`
}

// Reserved action types. These are intercepted by the history enhancer and
// never reach the wrapped reducer as anything but opaque actions.
const (
	// ActionCommit snapshots the current state under a label.
	// Payload: string (the message)
	ActionCommit = "@@rewind/COMMIT"

	// ActionUndo steps one entry back into the log.
	ActionUndo = "@@rewind/UNDO"

	// ActionRedo steps one entry forward, towards the newest commit.
	ActionRedo = "@@rewind/REDO"

	// ActionGoto jumps to an arbitrary entry of the log.
	// Payload: int (index, 0 is the newest entry)
	ActionGoto = "@@rewind/GOTO"
)

// Commit builds a commit action carrying the given message.
func Commit(message string) Action {
	return Action{Type: ActionCommit, Payload: message}
}

// Undo builds an undo action.
func Undo() Action {
	return Action{Type: ActionUndo}
}

// Redo builds a redo action.
func Redo() Action {
	return Action{Type: ActionRedo}
}

// Goto builds a goto action targeting the entry at index.
func Goto(index int) Action {
	return Action{Type: ActionGoto, Payload: index}
}

// IsReserved reports whether the action type is one of the four time-travel kinds.
func IsReserved(actionType string) bool {
	switch actionType {
	case ActionCommit, ActionUndo, ActionRedo, ActionGoto:
		return true
	}
	return false
}

// Kind returns a short, label-friendly name for an action type.
// Reserved types lose their namespace ("@@rewind/UNDO" -> "undo"); anything
// else is reported as "passthrough".
func Kind(actionType string) string {
	if !IsReserved(actionType) {
		return "passthrough"
	}
	return strings.ToLower(strings.TrimPrefix(actionType, "@@rewind/"))
}

// ParseKind maps a short kind name ("commit", "undo", "redo", "goto") to its
// reserved action type. Unknown names are returned unchanged, so callers can
// use it to normalize user input before building an Action.
func ParseKind(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "commit":
		return ActionCommit
	case "undo":
		return ActionUndo
	case "redo":
		return ActionRedo
	case "goto":
		return ActionGoto
	}
	return name
}

// MessagePayload extracts the commit message of a commit action.
func (a Action) MessagePayload() (string, error) {
	msg, ok := a.Payload.(string)
	if !ok {
		return "", fmt.Errorf("%w: commit message must be a string, got %T", ErrInvalidPayload, a.Payload)
	}
	return msg, nil
}

// IndexPayload extracts the target index of a goto action.
func (a Action) IndexPayload() (int, error) {
	i, err := a.IntPayload()
	if err != nil {
		return 0, fmt.Errorf("goto index: %w", err)
	}
	return i, nil
}

// IntPayload extracts an integer payload.
// Integral numbers decoded from JSON or YAML (float64, json.Number, int64...)
// are accepted as long as they carry no fractional part and fit in an int.
func (a Action) IntPayload() (int, error) {
	switch v := a.Payload.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v), nil
		}
	case uint:
		if v <= math.MaxInt {
			return int(v), nil
		}
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		if uint64(v) <= math.MaxInt {
			return int(v), nil
		}
	case uint64:
		if v <= math.MaxInt {
			return int(v), nil
		}
	case float32:
		if n, ok := floatToInt(float64(v)); ok {
			return n, nil
		}
	case float64:
		if n, ok := floatToInt(v); ok {
			return n, nil
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			if n >= math.MinInt && n <= math.MaxInt {
				return int(n), nil
			}
		} else if f, err := v.Float64(); err == nil {
			if n, ok := floatToInt(f); ok {
				return n, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: expected an integer, got %T(%v)", ErrInvalidPayload, a.Payload, a.Payload)
}

// floatToInt converts f when it is integral and within the int range.
func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
		return 0, false
	}
	return int(f), true
}
