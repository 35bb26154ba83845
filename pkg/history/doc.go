/*
Package history implements the persistent commit log behind time travel.

A History is a value: every operation returns a new History and leaves the
receiver untouched, so older values stay valid and can be kept around for
inspection. The log is a singly-linked list ordered from the newest entry to
the oldest; a commit allocates a single node pointing at the retained suffix,
so committing never copies earlier entries.

The head pointer selects the entry whose state is restored by time-travel
operations. Head 0 is the newest entry.

	h := history.Initial("start", 0)
	h = h.Commit("first", 1)
	h = h.Commit("second", 2)

	h, s := h.Undo()        // s == 1, h.Head() == 1
	h = h.Commit("alt", 10) // "second" is pruned, log is [alt, first, start]
*/
package history
