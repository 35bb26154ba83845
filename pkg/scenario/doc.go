// Package scenario loads scripted action sequences from YAML or JSON files and
// replays them against a store, checking the resulting history.
//
// A scenario file looks like:
//
//	name: counter
//	initial_message: Initial
//	steps:
//	  - action: INC
//	  - action: commit
//	    payload: first
//	  - action: goto
//	    payload: 9
//	    expect_error: out_of_range
//	expect:
//	  head: 0
//	  len: 2
//	  state: {value: 1}
//
// Reserved actions may be written by their short kind (commit, undo, redo,
// goto); anything else is dispatched to the wrapped reducer as is.
package scenario
