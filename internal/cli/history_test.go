package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryAfterSynth(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "artifacts.db")

	_, err := executeRoot(t, "synth", componentsDir, "--db", dbPath)
	require.NoError(t, err)

	out, err := executeRoot(t, "history", dbPath, "Counter")
	require.NoError(t, err)
	assert.Contains(t, out, "Counter: 2 artifact(s)")
	assert.Contains(t, out, `propUpdater($$props, [update_b], [["x_dep", [0]]], true)`)
	assert.Contains(t, out, "() => {}")

	out, err = executeRoot(t, "--format", "json", "history", dbPath, "Form")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Form", resp.Data.Component)
	require.Len(t, resp.Data.Artifacts, 2)
	assert.Equal(t, "prop", string(resp.Data.Artifacts[0].Category))
	assert.Equal(t, "state", string(resp.Data.Artifacts[1].Category))
	assert.Less(t, resp.Data.Artifacts[0].Seq, resp.Data.Artifacts[1].Seq)
}

func TestHistoryUnchangedRebuildAddsNothing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "artifacts.db")

	for range 2 {
		_, err := executeRoot(t, "synth", componentsDir, "--db", dbPath)
		require.NoError(t, err)
	}

	out, err := executeRoot(t, "--format", "json", "history", dbPath, "Counter")
	require.NoError(t, err)

	var resp struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data.Artifacts, 2)
}

func TestHistoryUnknownComponent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "artifacts.db")
	_, err := executeRoot(t, "synth", componentsDir, "--db", dbPath)
	require.NoError(t, err)

	out, err := executeRoot(t, "history", dbPath, "Nobody")
	require.NoError(t, err)
	assert.Equal(t, "No artifacts recorded for Nobody\n", out)
}

func TestHistoryMissingDatabase(t *testing.T) {
	out, err := executeRoot(t, "history", filepath.Join(t.TempDir(), "missing.db"), "Counter")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
	assert.Contains(t, out, "database not found")
}
