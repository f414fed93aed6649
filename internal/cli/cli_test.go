package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeContentDir writes a minimal valid content pack and returns the dir.
func writeContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pack := `
nodes:
  - id: alpha
    name: Alpha
    category: capabilities
    cost:
      compute: 100
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte(pack), 0o644))
	return dir
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestValidateCommand_ValidPack(t *testing.T) {
	dir := writeContentDir(t)

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Content valid (1 nodes, 0 deployments)")
}

func TestValidateCommand_ValidPackJSON(t *testing.T) {
	dir := writeContentDir(t)

	out, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateCommand_InvalidPack(t *testing.T) {
	dir := t.TempDir()
	pack := `
nodes:
  - id: alpha
    name: Alpha
    category: capabilities
    prerequisites: [ghost]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte(pack), 0o644))

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, `unknown prerequisite "ghost"`)
}

func TestValidateCommand_MissingDir(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunCommand_PrintsTrace(t *testing.T) {
	content := writeContentDir(t)
	scenario := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `
name: smoke
setup:
  computeTotal: 200
steps:
  - startResearch: {id: alpha, compute: 50}
  - beginTurn: true
  - endTurn: true
`
	require.NoError(t, os.WriteFile(scenario, []byte(doc), 0o644))

	out, err := execute(t, "run", "--content", content, scenario)
	require.NoError(t, err)
	assert.Contains(t, out, "research:started id=alpha compute=50")
	assert.Contains(t, out, "research:progress turn=1 alpha=0.5")
}

func TestRunCommand_JSONResult(t *testing.T) {
	content := writeContentDir(t)
	scenario := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `
name: smoke
steps:
  - beginTurn: true
`
	require.NoError(t, os.WriteFile(scenario, []byte(doc), 0o644))

	out, err := execute(t, "--format", "json", "run", "--content", content, scenario)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "smoke", resp.Data.Scenario)
	assert.Equal(t, 1, resp.Data.Turn)
}

func TestRunCommand_MissingContentFlag(t *testing.T) {
	_, err := execute(t, "run", "scenario.yaml")
	require.Error(t, err)
}

func TestRunCommand_BadScenarioPath(t *testing.T) {
	content := writeContentDir(t)

	_, err := execute(t, "run", "--content", content, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSavesCommand_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "saves.db")

	out, err := execute(t, "saves", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "no saves")
}

func TestSavesCommand_ListsAfterScenarioSave(t *testing.T) {
	content := writeContentDir(t)
	db := filepath.Join(t.TempDir(), "saves.db")
	scenario := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `
name: checkpointed
setup:
  computeTotal: 100
steps:
  - beginTurn: true
  - save: slot-a
`
	require.NoError(t, os.WriteFile(scenario, []byte(doc), 0o644))

	_, err := execute(t, "run", "--content", content, "--db", db, scenario)
	require.NoError(t, err)

	out, err := execute(t, "saves", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "slot-a")

	jsonOut, err := execute(t, "--format", "json", "saves", "--db", db)
	require.NoError(t, err)
	var resp struct {
		Status string     `json:"status"`
		Data   []SaveInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "slot-a", resp.Data[0].Name)
	assert.Equal(t, 1, resp.Data[0].Turn)
}

func TestExitError_Codes(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError), "plain errors default to failure")

	wrapped := WrapExitError(ExitCommandError, "context", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Contains(t, wrapped.Error(), "context")
}
