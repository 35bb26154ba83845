/*
Package rewind adds time travel to an ordinary reducer.

A reducer is a pure function from the previous state and an action to the next
state. Rewind wraps it so that four reserved actions are intercepted: commit
snapshots the current state under a label, undo and redo walk the history
backward and forward, and goto jumps to any snapshot. Every other action
passes through to the wrapped reducer untouched.

# Concept

The combined state carries the reducer's own state next to a history log. The
log is a persistent list: a commit allocates a single node sharing the older
entries, and every operation returns new values, so old states stay valid.
Committing while the head sits on an older entry discards the newer ones
(branch pruning).

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/rewind"
		"github.com/aretw0/rewind/pkg/domain"
	)

	func reduce(state *int, action domain.Action) int {
		if state == nil {
			return 0
		}
		if action.Type == "INC" {
			return *state + 1
		}
		return *state
	}

	func main() {
		ctx := context.Background()
		s := rewind.New(reduce)

		s.Dispatch(ctx, domain.Action{Type: "INC"})
		s.Commit(ctx, "one")
		st, _ := s.Undo(ctx)
		fmt.Println(st.Base)
	}

The enhancer can also be used on its own, without a store, through
[Enhance]. The history log lives in package history and the reserved actions
in package domain.
*/
package rewind
