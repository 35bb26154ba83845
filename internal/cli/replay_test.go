package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReplay_Success(t *testing.T) {
	path := writeScenario(t, `
name: smoke
initial_message: Initial
steps:
  - action: INC
  - action: commit
    payload: one
  - action: goto
    payload: 4
    expect_error: out_of_range
expect:
  head: 0
  len: 2
  state: {value: 1}
`)
	var out bytes.Buffer
	require.NoError(t, Replay(context.Background(), Config{}, path, &out))

	assert.Contains(t, out.String(), ">>> Scenario 'smoke' (3 steps)")
	assert.Contains(t, out.String(), "rejected: no such history entry")
	assert.Contains(t, out.String(), "| → | 0 | one | `1` |")
	assert.Contains(t, out.String(), ">>> All expectations met.")
}

func TestReplay_Failure(t *testing.T) {
	path := writeScenario(t, `
steps:
  - action: INC
expect:
  state: {value: 2}
`)
	var out bytes.Buffer
	err := Replay(context.Background(), Config{}, path, &out)
	require.Error(t, err)
	assert.NotContains(t, out.String(), "All expectations met")
}

func TestReplay_MissingFile(t *testing.T) {
	err := Replay(context.Background(), Config{}, filepath.Join(t.TempDir(), "none.yaml"), &bytes.Buffer{})
	assert.Error(t, err)
}
