package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Render prints every snapshot followed by the outcome:
//
//	== phase1b ==
//	A | B   F
//	...
//	== result ==
//	success rotations=1
//	A-F B-E C-D
//
// The output is deterministic and is what golden files store.
func Render(result *Result) []byte {
	var buf strings.Builder

	for _, snap := range result.Snapshots {
		fmt.Fprintf(&buf, "== %s ==\n", snap.Checkpoint)
		buf.WriteString(snap.Table)
	}

	buf.WriteString("== result ==\n")
	switch result.Outcome {
	case OutcomeSuccess:
		fmt.Fprintf(&buf, "success rotations=%d\n", result.Rotations)
		pairs := make([]string, len(result.Pairs))
		for i, p := range result.Pairs {
			pairs[i] = p.A + "-" + p.B
		}
		buf.WriteString(strings.Join(pairs, " ") + "\n")
	case OutcomeFailure:
		fmt.Fprintf(&buf, "failure rotations=%d\n%s\n", result.Rotations, result.Reason)
	default:
		fmt.Fprintf(&buf, "%s\n%s\n", result.Outcome, result.Reason)
	}

	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its checkpoint tables
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the rendering doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the given result against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Render(result))
}
