package history

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/rewind/pkg/domain"
)

// Entry is one labeled snapshot of the log.
type Entry[S any] struct {
	Message string `json:"message"`
	State   S      `json:"state"`
}

// node is a cell of the persistent list. Nodes are never mutated after creation.
type node[S any] struct {
	entry Entry[S]
	next  *node[S]
}

// History is the log of snapshots plus the head pointer.
// The zero value is an empty, uninitialized history; use Initial to seed one.
type History[S any] struct {
	head int
	top  *node[S]
	size int
}

// Initial returns a history holding a single entry, with the head on it.
func Initial[S any](message string, state S) History[S] {
	return History[S]{
		head: 0,
		top:  &node[S]{entry: Entry[S]{Message: message, State: state}},
		size: 1,
	}
}

// Head returns the index of the active entry (0 is the newest).
func (h History[S]) Head() int {
	return h.head
}

// Len returns the number of entries in the log.
func (h History[S]) Len() int {
	return h.size
}

// IsZero reports whether the history was never initialized.
func (h History[S]) IsZero() bool {
	return h.top == nil
}

// At returns the entry at index i, counting from the newest entry.
func (h History[S]) At(i int) (Entry[S], bool) {
	if i < 0 || i >= h.size {
		return Entry[S]{}, false
	}
	n := h.top
	for ; i > 0; i-- {
		n = n.next
	}
	return n.entry, true
}

// Current returns the entry the head points at.
func (h History[S]) Current() (Entry[S], bool) {
	return h.At(h.head)
}

// Entries returns a copy of the log, newest first.
func (h History[S]) Entries() []Entry[S] {
	out := make([]Entry[S], 0, h.size)
	for n := h.top; n != nil; n = n.next {
		out = append(out, n.entry)
	}
	return out
}

// Commit discards the entries newer than the head (the future a previous undo
// stepped past), prepends a new entry and moves the head back to 0.
func (h History[S]) Commit(message string, state S) History[S] {
	rest := h.top
	for i := 0; i < h.head && rest != nil; i++ {
		rest = rest.next
	}
	return History[S]{
		head: 0,
		top:  &node[S]{entry: Entry[S]{Message: message, State: state}, next: rest},
		size: h.size - h.head + 1,
	}
}

// Undo moves the head one entry towards the oldest one and returns the state
// stored there. At the oldest entry the head does not move.
// On an uninitialized history it returns the receiver and the zero state.
func (h History[S]) Undo() (History[S], S) {
	if h.size == 0 {
		var zero S
		return h, zero
	}
	newHead := min(h.head+1, h.size-1)
	e, _ := h.At(newHead)
	h.head = newHead
	return h, e.State
}

// Redo moves the head one entry towards the newest one and returns the state
// stored there. The boolean is false when there is nothing to redo: the head
// is already on the newest entry (or the history is uninitialized). The
// receiver is then returned as is and callers keep their live state.
func (h History[S]) Redo() (History[S], S, bool) {
	var zero S
	if h.head == 0 {
		return h, zero, false
	}
	newHead := max(h.head-1, 0)
	e, ok := h.At(newHead)
	if !ok {
		return h, zero, false
	}
	h.head = newHead
	return h, e.State, true
}

// Goto moves the head to index and returns the state stored there.
// The index is not clamped: outside [0, Len) an error wrapping
// domain.ErrOutOfRange is returned together with the unchanged receiver.
func (h History[S]) Goto(index int) (History[S], S, error) {
	e, ok := h.At(index)
	if !ok {
		var zero S
		return h, zero, fmt.Errorf("%w: index %d, log has %d entries", domain.ErrOutOfRange, index, h.size)
	}
	h.head = index
	return h, e.State, nil
}

type historyJSON[S any] struct {
	Head int        `json:"head"`
	Log  []Entry[S] `json:"log"`
}

// MarshalJSON renders the history as {"head": n, "log": [...]}, newest first.
func (h History[S]) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyJSON[S]{Head: h.head, Log: h.Entries()})
}

// UnmarshalJSON rebuilds a history from its JSON form.
func (h *History[S]) UnmarshalJSON(data []byte) error {
	var raw historyJSON[S]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Log) == 0 {
		*h = History[S]{}
		return nil
	}
	if raw.Head < 0 || raw.Head >= len(raw.Log) {
		return fmt.Errorf("%w: head %d, log has %d entries", domain.ErrOutOfRange, raw.Head, len(raw.Log))
	}
	var top *node[S]
	for i := len(raw.Log) - 1; i >= 0; i-- {
		top = &node[S]{entry: raw.Log[i], next: top}
	}
	*h = History[S]{head: raw.Head, top: top, size: len(raw.Log)}
	return nil
}
