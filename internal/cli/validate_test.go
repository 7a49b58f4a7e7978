package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidInstances(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pair.json", trivialJSON)
	writeFile(t, dir, "irving.yaml", irvingYAML)
	writeFile(t, dir, "pair.cue", trivialCUE)

	out, err := execute(t, NewValidateCommand(textOpts()), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 3 instance(s) valid")
}

func TestValidateValidInstancesJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pair.json", trivialJSON)

	out, err := execute(t, NewValidateCommand(jsonOpts()), path)
	require.NoError(t, err)

	data, cliErr, status := decodeResponse[ValidationResult](t, out)
	assert.Equal(t, "ok", status)
	assert.Nil(t, cliErr)
	assert.True(t, data.Valid)
	assert.Equal(t, 1, data.Files)
	assert.Empty(t, data.Errors)
}

func TestValidateNonExistentPath(t *testing.T) {
	out, err := execute(t, NewValidateCommand(textOpts()), "/nonexistent/instances")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateEmptyDirectory(t *testing.T) {
	out, err := execute(t, NewValidateCommand(textOpts()), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestValidateInvalidInstance(t *testing.T) {
	path := writeFile(t, t.TempDir(), "odd.json", oddJSON)

	out, err := execute(t, NewValidateCommand(textOpts()), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, path)
	assert.Contains(t, out, "E009 ODD_COUNT")
}

func TestValidateCollectsEveryError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_odd.json", oddJSON)
	writeFile(t, dir, "b_broken.json", `{"A": [`)
	writeFile(t, dir, "c_self.json", `{"A": ["A"], "B": ["A"]}`)
	writeFile(t, dir, "d_ok.json", trivialJSON)

	out, err := execute(t, NewValidateCommand(jsonOpts()), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	data, cliErr, status := decodeResponse[ValidationResult](t, out)
	assert.Equal(t, "error", status)
	require.NotNil(t, cliErr)
	assert.False(t, data.Valid)
	assert.Equal(t, 4, data.Files)
	require.Len(t, data.Errors, 3)

	byFile := map[string]ValidationError{}
	for _, e := range data.Errors {
		byFile[filepath.Base(e.File)] = e
	}

	assert.Equal(t, ErrCodeDecodeFailed, byFile["b_broken.json"].Code)
	assert.Equal(t, ErrCodeInvalid, byFile["a_odd.json"].Code)
	assert.Equal(t, "ODD_COUNT", byFile["a_odd.json"].Reason)
	assert.Equal(t, ErrCodeInvalid, byFile["c_self.json"].Code)
	assert.Equal(t, "A", byFile["c_self.json"].Participant)
}

func TestValidateCUEErrorHasLine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.cue", "A: [\"B\"]\nB: [\"A\"\n")

	out, err := execute(t, NewValidateCommand(jsonOpts()), path)
	require.Error(t, err)

	data, _, _ := decodeResponse[ValidationResult](t, out)
	require.Len(t, data.Errors, 1)
	assert.Equal(t, ErrCodeBuildFailed, data.Errors[0].Code)
	assert.Positive(t, data.Errors[0].Line)
}

func TestValidateHelpText(t *testing.T) {
	cmd := NewValidateCommand(textOpts())
	assert.Equal(t, "validate <path>", cmd.Use)
	assert.Contains(t, cmd.Long, "exactly once")
}
