package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteInstance writes inst as JSON to dir/name, creating parent
// directories, and returns the path.
func WriteInstance(t testing.TB, dir, name string, inst any) string {
	t.Helper()

	data, err := json.MarshalIndent(inst, "", "  ")
	if err != nil {
		t.Fatalf("encode instance: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
