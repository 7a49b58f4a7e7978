package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	trivialJSON    = `{"A": ["B"], "B": ["A"]}`
	unsolvableJSON = `{"A": ["B", "C", "D"], "B": ["C", "A", "D"], "C": ["A", "B", "D"], "D": ["A", "B", "C"]}`
	oddJSON        = `{"A": ["B", "C"], "B": ["C", "A"], "C": ["A", "B"]}`

	irvingYAML = `"1": ["4", "6", "2", "5", "3"]
"2": ["6", "3", "5", "1", "4"]
"3": ["4", "5", "1", "6", "2"]
"4": ["2", "6", "5", "1", "3"]
"5": ["4", "2", "3", "6", "1"]
"6": ["5", "1", "4", "2", "3"]
`

	trivialCUE = `A: ["B"]
B: ["A"]
`
)

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse decodes a CLIResponse whose Data has type T.
func decodeResponse[T any](t *testing.T, out string) (T, *CLIError, string) {
	t.Helper()
	var resp struct {
		Status string    `json:"status"`
		Data   T         `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp.Data, resp.Error, resp.Status
}

func textOpts() *RootOptions {
	return &RootOptions{Format: "text"}
}

func jsonOpts() *RootOptions {
	return &RootOptions{Format: "json"}
}
