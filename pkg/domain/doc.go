/*
Package domain contains the shared vocabulary of the rewind module.

It defines the Action value dispatched to reducers, the four reserved
time-travel action kinds and the sentinel errors reported when one of them
cannot be applied. The package is pure and has no dependencies besides the
standard library.

# Reserved Actions

  - Commit(message): snapshot the current state under a label.
  - Undo(): step one entry back into the log (clamped at the oldest entry).
  - Redo(): step one entry forward (clamped at the newest entry).
  - Goto(index): jump to an exact entry; out of range is an error.
*/
package domain
