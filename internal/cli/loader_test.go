package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInstanceFile_Formats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"pair.json", trivialJSON},
		{"pair.yaml", "A: [B]\nB: [A]\n"},
		{"pair.yml", "A: [B]\nB: [A]\n"},
		{"pair.cue", trivialCUE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.content)

			inst, err := LoadInstanceFile(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B"}, inst.Participants)
			assert.Equal(t, []string{"B"}, inst.Preferences["A"])
			assert.Equal(t, []string{"A"}, inst.Preferences["B"])
		})
	}
}

func TestLoadInstanceFile_KeepsSourceOrder(t *testing.T) {
	dir := t.TempDir()

	inst, err := LoadInstanceFile(writeFile(t, dir, "irving.yaml", irvingYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, inst.Participants)

	cue := `D: ["A", "B", "C"]
A: ["B", "C", "D"]
B: ["C", "A", "D"]
C: ["A", "B", "D"]
`
	inst, err = LoadInstanceFile(writeFile(t, dir, "order.cue", cue))
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "B", "C"}, inst.Participants)
}

func TestLoadInstanceFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{"bad.json", `{"A": ["B"]`, ErrCodeDecodeFailed},
		{"dup.json", `{"A": ["B"], "A": ["B"]}`, ErrCodeDecodeFailed},
		{"bad.yaml", "A: [B\n", ErrCodeDecodeFailed},
		{"bad.cue", "A: [\"B\"\n", ErrCodeBuildFailed},
		{"notes.txt", "A B", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.content)

			_, err := LoadInstanceFile(path)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "want *LoadError, got %T", err)
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestLoadInstanceFile_Missing(t *testing.T) {
	_, err := LoadInstanceFile(filepath.Join(t.TempDir(), "missing.json"))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}

func TestLoadInstances_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", unsolvableJSON)
	writeFile(t, dir, "a.yaml", "A: [B]\nB: [A]\n")
	writeFile(t, dir, "nested/c.cue", trivialCUE)
	writeFile(t, dir, "README.md", "not an instance")

	result, errs := LoadInstances(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.FileCount)

	var names []string
	for _, f := range result.Files {
		rel, err := filepath.Rel(dir, f.Path)
		require.NoError(t, err)
		names = append(names, rel)
	}
	assert.Equal(t, []string{"a.yaml", "b.json", filepath.Join("nested", "c.cue")}, names)
}

func TestLoadInstances_Modes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{`)
	writeFile(t, dir, "b.json", `{`)
	writeFile(t, dir, "c.json", trivialJSON)

	result, errs := LoadInstances(dir, LoadModeFailFast)
	require.NotNil(t, result)
	assert.Len(t, errs, 1)
	assert.Empty(t, result.Files)

	result, errs = LoadInstances(dir, LoadModeCollectAll)
	require.NotNil(t, result)
	assert.Len(t, errs, 2)
	assert.Len(t, result.Files, 1)
}

func TestLoadInstances_PathErrors(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		result, errs := LoadInstances("/nonexistent/instances", LoadModeFailFast)
		assert.Nil(t, result)
		require.Len(t, errs, 1)

		var loadErr *LoadError
		require.True(t, errors.As(errs[0], &loadErr))
		assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	})

	t.Run("no_files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

		result, errs := LoadInstances(dir, LoadModeFailFast)
		assert.Nil(t, result)
		require.Len(t, errs, 1)

		var loadErr *LoadError
		require.True(t, errors.As(errs[0], &loadErr))
		assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
	})
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeDecodeFailed, Path: "a.json", Message: "unexpected EOF"}
	assert.Equal(t, "a.json: E008: unexpected EOF", err.Error())

	err = &LoadError{Code: ErrCodeNotFound, Message: "path not found: x"}
	assert.Equal(t, "E005: path not found: x", err.Error())
}
