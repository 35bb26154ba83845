package graph_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/aretw0/rewind/internal/presentation/graph"
	"github.com/aretw0/rewind/pkg/history"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	h := history.Initial("Initial", 0).Commit("one", 1).Commit(`say "hi"`, 2)
	h, _ = h.Undo()

	out := graph.GenerateMermaid(h, strconv.Itoa)

	for _, want := range []string{
		"graph LR\n",
		`e2(("Initial <br/> 0"))`,
		`e1["one <br/> 1"]`,
		`e0["say 'hi' <br/> 2"]`,
		"e2 --> e1",
		"e1 -.-> e0",
		"class e0 undone;",
		"class e1 current;",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "class e2 undone;")
}

func TestGenerateMermaid_Ordering(t *testing.T) {
	h := history.Initial("", "a").Commit("", "b")

	out := graph.GenerateMermaid(h, nil)
	assert.Less(t, strings.Index(out, `e1(("#1"))`), strings.Index(out, `e0["#0"]`), "oldest entry comes first")
	assert.Contains(t, out, "class e0 current;")
}

func TestGenerateMermaid_Empty(t *testing.T) {
	var h history.History[int]
	assert.Equal(t, "graph LR\n", graph.GenerateMermaid(h, nil))
}

func TestGenerateMermaid_StripsMarkup(t *testing.T) {
	h := history.Initial("", 0).Commit(`<b>bold</b> <script>alert(1)</script>move`, 1)

	out := graph.GenerateMermaid(h, nil)
	assert.Contains(t, out, `e0["bold move"]`)
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "script")
}
