package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
)

// Scenario defines a solver conformance scenario: one instance, the outcome
// it must produce, and optional assertions on the trace and the tables.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Preferences is the instance, as an ordered mapping of id to list.
	// Mapping order fixes the solver's iteration order.
	Preferences ir.Instance `yaml:"preferences"`

	// Expect is the required outcome.
	Expect Expect `yaml:"expect"`

	// Assertions validate the trace and the checkpoint tables.
	// Supported types: trace_contains, trace_order, trace_count, final_state
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expected outcomes.
const (
	OutcomeSuccess   = ir.OutcomeSuccess
	OutcomeFailure   = ir.OutcomeFailure
	OutcomeMalformed = "malformed"
)

// Expect specifies the required outcome of a scenario.
type Expect struct {
	// Outcome is "success", "failure" or "malformed".
	Outcome string `yaml:"outcome"`

	// Reason is the failure reason (failure) or the input error code
	// (malformed). Must be empty for success.
	Reason string `yaml:"reason,omitempty"`

	// Matching lists the expected partner of each participant. Subset match:
	// only listed participants are checked.
	Matching map[string]string `yaml:"matching,omitempty"`

	// Rotations is the expected number of eliminated rotations, if set.
	Rotations *int `yaml:"rotations,omitempty"`
}

// EventMatch selects trace events. Empty fields match anything.
type EventMatch struct {
	Phase string `yaml:"phase,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
	From  string `yaml:"from,omitempty"`
	To    string `yaml:"to,omitempty"`
}

// Assertion validates the trace or a checkpoint table.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": some event matches
	// - "trace_order": events matching each entry of Events appear in order
	// - "trace_count": exactly Count events match
	// - "final_state": Participant's remaining list at Checkpoint equals Remaining
	Type string `yaml:"type"`

	// Event selector (used by trace_contains and trace_count).
	EventMatch `yaml:",inline"`

	// Count is the expected number of matching events (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected event order (used by trace_order).
	Events []EventMatch `yaml:"events,omitempty"`

	// Checkpoint names the snapshot (used by final_state): "initial",
	// "phase1", "phase1b", "rotation N" or "phase2".
	Checkpoint string `yaml:"checkpoint,omitempty"`

	// Participant whose list is checked (used by final_state).
	Participant string `yaml:"participant,omitempty"`

	// Remaining is the expected remaining list, in preference order
	// (used by final_state). An empty list is allowed.
	Remaining []string `yaml:"remaining,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. If pattern is non-empty, only files whose base name matches it
// (filepath.Match syntax) are loaded.
func LoadScenarios(dir, pattern string) ([]*Scenario, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if pattern != "" {
			ok, err := filepath.Match(pattern, e.Name())
			if err != nil {
				return nil, nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, paths, nil
}

// validateScenario checks that required fields are present and valid.
// The instance itself is not validated here: malformed instances are a
// legitimate scenario outcome.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := validateExpect(&s.Expect); err != nil {
		return err
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *Expect) error {
	switch e.Outcome {
	case "":
		return fmt.Errorf("expect.outcome is required")
	case OutcomeSuccess:
		if e.Reason != "" {
			return fmt.Errorf("expect.reason must be empty for success")
		}
	case OutcomeFailure:
		if !knownReason(e.Reason) {
			return fmt.Errorf("expect.reason %q is not a failure reason", e.Reason)
		}
		if len(e.Matching) > 0 {
			return fmt.Errorf("expect.matching must be empty for failure")
		}
	case OutcomeMalformed:
		if e.Reason == "" {
			return fmt.Errorf("expect.reason (input error code) is required for malformed")
		}
	default:
		return fmt.Errorf("expect.outcome %q must be success, failure or malformed", e.Outcome)
	}
	if e.Rotations != nil && *e.Rotations < 0 {
		return fmt.Errorf("expect.rotations must be non-negative")
	}
	return nil
}

func knownReason(r string) bool {
	for _, known := range roommates.Reasons {
		if string(known) == r {
			return true
		}
	}
	return false
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.EventMatch == (EventMatch{}) {
			return fmt.Errorf("assertions[%d]: an event selector is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Checkpoint == "" {
			return fmt.Errorf("assertions[%d]: checkpoint is required for final_state", index)
		}
		if a.Participant == "" {
			return fmt.Errorf("assertions[%d]: participant is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
