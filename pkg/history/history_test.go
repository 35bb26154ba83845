package history_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages[S any](h history.History[S]) []string {
	var out []string
	for _, e := range h.Entries() {
		out = append(out, e.Message)
	}
	return out
}

func TestInitial(t *testing.T) {
	h := history.Initial("hello", 42)

	assert.Equal(t, 0, h.Head())
	assert.Equal(t, 1, h.Len())
	assert.False(t, h.IsZero())
	assert.Equal(t, []history.Entry[int]{{Message: "hello", State: 42}}, h.Entries())
}

func TestZeroValue(t *testing.T) {
	var h history.History[int]

	assert.True(t, h.IsZero())
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Entries())

	undone, s := h.Undo()
	assert.Equal(t, h, undone)
	assert.Equal(t, 0, s)

	_, _, ok := h.Redo()
	assert.False(t, ok)

	_, _, err := h.Goto(0)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestCommit_AppendsAndResetsHead(t *testing.T) {
	h := history.Initial("", 0)
	for i := 1; i <= 5; i++ {
		h = h.Commit("commit", i)
		assert.Equal(t, i+1, h.Len())
		assert.Equal(t, 0, h.Head())
	}

	e, ok := h.At(0)
	require.True(t, ok)
	assert.Equal(t, 5, e.State, "index 0 holds the newest commit")

	e, ok = h.At(h.Len() - 1)
	require.True(t, ok)
	assert.Equal(t, 0, e.State, "the initial entry stays the oldest")
}

func TestCommit_LeavesReceiverUntouched(t *testing.T) {
	base := history.Initial("a", 1).Commit("b", 2)
	next := base.Commit("c", 3)

	assert.Equal(t, []string{"b", "a"}, messages(base))
	assert.Equal(t, []string{"c", "b", "a"}, messages(next))
}

func TestUndo_Clamps(t *testing.T) {
	h := history.Initial("a", 1).Commit("b", 2).Commit("c", 3)

	h, s := h.Undo()
	assert.Equal(t, 1, h.Head())
	assert.Equal(t, 2, s)

	h, s = h.Undo()
	assert.Equal(t, 2, h.Head())
	assert.Equal(t, 1, s)

	for i := 0; i < 3; i++ {
		h, s = h.Undo()
		assert.Equal(t, 2, h.Head(), "head stays on the oldest entry")
		assert.Equal(t, 1, s)
	}
}

func TestRedo_Clamps(t *testing.T) {
	h := history.Initial("a", 1).Commit("b", 2)

	same, _, ok := h.Redo()
	assert.False(t, ok, "nothing to redo at the newest entry")
	assert.Equal(t, h, same)

	h, _ = h.Undo()
	h, s, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, 0, h.Head())
	assert.Equal(t, 2, s)

	_, _, ok = h.Redo()
	assert.False(t, ok)
}

func TestUndoRedo_AreInverses(t *testing.T) {
	h := history.Initial("a", 1).Commit("b", 2).Commit("c", 3).Commit("d", 4)

	for start := 0; start < h.Len()-1; start++ {
		at, _, err := h.Goto(start)
		require.NoError(t, err)
		_, want, _ := h.Goto(start)

		undone, _ := at.Undo()
		back, got, ok := undone.Redo()

		require.True(t, ok)
		assert.Equal(t, at.Head(), back.Head(), "start %d", start)
		assert.Equal(t, want, got, "start %d", start)
		assert.Equal(t, at.Entries(), back.Entries())
	}
}

func TestCommit_PrunesDivergentBranch(t *testing.T) {
	h := history.Initial("init", "0").Commit("A", "a").Commit("B", "b")

	h, restored := h.Undo()
	require.Equal(t, "a", restored)

	h = h.Commit("C", "c")

	assert.Equal(t, 0, h.Head())
	assert.Equal(t, []string{"C", "A", "init"}, messages(h))
	for i := 0; i < h.Len(); i++ {
		_, s, err := h.Goto(i)
		require.NoError(t, err)
		assert.NotEqual(t, "b", s, "pruned entry must not be reachable")
	}
}

func TestGoto(t *testing.T) {
	h := history.Initial("a", 1).Commit("b", 2).Commit("c", 3)

	t.Run("Exact", func(t *testing.T) {
		for i := 0; i < h.Len(); i++ {
			moved, s, err := h.Goto(i)
			require.NoError(t, err)
			e, _ := h.At(i)
			assert.Equal(t, e.State, s)
			assert.Equal(t, i, moved.Head())
		}
	})

	t.Run("Out Of Range", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			moved, _, err := h.Goto(idx)
			assert.ErrorIs(t, err, domain.ErrOutOfRange)
			assert.Equal(t, h, moved, "history must not change")
		}
	})
}

func TestJSON(t *testing.T) {
	h := history.Initial("a", 1).Commit("b", 2)
	h, _ = h.Undo()

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"head":1,"log":[{"message":"b","state":2},{"message":"a","state":1}]}`, string(data))

	var decoded history.History[int]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h.Head(), decoded.Head())
	assert.Equal(t, h.Entries(), decoded.Entries())

	var bad history.History[int]
	err = json.Unmarshal([]byte(`{"head":4,"log":[{"message":"a","state":1}]}`), &bad)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}
