package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/rewind/pkg/history"
)

// HistoryMarkdown renders the history log as a markdown table, newest entry
// first, marking the entry under the head.
func HistoryMarkdown[S any](h history.History[S], format func(S) string) string {
	var b strings.Builder
	b.WriteString("| | # | Message | State |\n")
	b.WriteString("|---|---|---|---|\n")
	for i, e := range h.Entries() {
		marker := ""
		if i == h.Head() {
			marker = "→"
		}
		msg := e.Message
		if msg == "" {
			msg = "_(no message)_"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | `%s` |\n", marker, i, escapeCell(msg), format(e.State))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
