package graph

import (
	"fmt"
	"html"
	"strings"

	"github.com/aretw0/rewind/pkg/history"
	"github.com/microcosm-cc/bluemonday"
)

var labelPolicy = bluemonday.StrictPolicy()

// GenerateMermaid produces a Mermaid flowchart of the history log, oldest entry
// first. Shapes and styles:
// - Oldest entry: ((Circle))
// - Other entries: [Rectangle]
// - Entry under the head: current
// - Entries newer than the head (the ones a commit would prune): undone
// format renders the state of each entry; nil omits it.
func GenerateMermaid[S any](h history.History[S], format func(S) string) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	entries := h.Entries()
	for pos := len(entries) - 1; pos >= 0; pos-- {
		e := entries[pos]
		id := nodeID(pos)

		opener, closer := "[", "]"
		if pos == len(entries)-1 {
			opener, closer = "((", "))"
		}

		label := escapeLabel(e.Message)
		if label == "" {
			label = "#" + fmt.Sprint(pos)
		}
		if format != nil {
			label = fmt.Sprintf("%s <br/> %s", label, escapeLabel(format(e.State)))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		if pos < len(entries)-1 {
			arrow := "-->"
			if pos < h.Head() {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(pos+1), arrow, id)
		}
	}

	if len(entries) == 0 {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef undone fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	for pos := 0; pos < h.Head(); pos++ {
		fmt.Fprintf(&sb, "    class %s undone;\n", nodeID(pos))
	}
	fmt.Fprintf(&sb, "    class %s current;\n", nodeID(h.Head()))

	return sb.String()
}

func nodeID(pos int) string {
	return fmt.Sprintf("e%d", pos)
}

// escapeLabel strips markup and replaces characters that would close a
// Mermaid label.
func escapeLabel(s string) string {
	s = html.UnescapeString(labelPolicy.Sanitize(s))
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
