/*
Package enhancer wraps a reducer with commit, undo, redo and goto semantics.

A Reducer is a pure function from the current state and an action to the next
state. Enhance returns a reducer of the same shape over State, which carries
the wrapped reducer's state (Base) next to the History log. The four reserved
actions of package domain are interpreted by the enhancer; every other action
is forwarded to the wrapped reducer and the history is threaded through as is.

	counter := func(s *int, a domain.Action) int {
		if s == nil {
			return 0
		}
		if a.Type == "INC" {
			return *s + 1
		}
		return *s
	}

	reduce := enhancer.Enhance(counter, enhancer.WithInitialMessage("start"))
	state, _ := reduce(nil, domain.Action{})
	state, _ = reduce(&state, domain.Action{Type: "INC"})
	state, _ = reduce(&state, domain.Commit("plus one"))
	state, _ = reduce(&state, domain.Undo()) // state.Base == 0

Commit snapshots the state as it stood before the commit action, so mutating
actions are dispatched first and the commit is a separate checkpoint step.
*/
package enhancer
