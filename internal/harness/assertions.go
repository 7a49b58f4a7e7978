package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/roommates/internal/roommates"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string            // Assertion type for categorization
	Expected string            // Human-readable expected outcome
	Actual   string            // Human-readable actual outcome
	Trace    []roommates.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, formatEvent(event))
		}
	}

	return buf.String()
}

func formatEvent(e roommates.Event) string {
	s := fmt.Sprintf("%s %s", e.Phase, e.Kind)
	if e.From != "" || e.To != "" {
		s += fmt.Sprintf(" %s->%s", e.From, e.To)
	}
	for _, p := range e.Pairs {
		s += fmt.Sprintf(" (%s,%s)", p.A, p.B)
	}
	return s
}

func (m EventMatch) String() string {
	var parts []string
	for _, kv := range [][2]string{{"phase", m.Phase}, {"kind", m.Kind}, {"from", m.From}, {"to", m.To}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if len(parts) == 0 {
		return "any event"
	}
	return strings.Join(parts, " ")
}

// Matches reports whether e satisfies every non-empty field of m.
func (m EventMatch) Matches(e roommates.Event) bool {
	return (m.Phase == "" || m.Phase == string(e.Phase)) &&
		(m.Kind == "" || m.Kind == string(e.Kind)) &&
		(m.From == "" || m.From == e.From) &&
		(m.To == "" || m.To == e.To)
}

// assertTraceContains checks that some event matches the selector.
func assertTraceContains(trace []roommates.Event, assertion Assertion) error {
	for _, event := range trace {
		if assertion.EventMatch.Matches(event) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: assertion.EventMatch.String(),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the selectors match events in order.
// Matches don't need to be consecutive (intervening events are allowed).
func assertTraceOrder(trace []roommates.Event, assertion Assertion) error {
	pos := 0
	for i, want := range assertion.Events {
		found := false
		for pos < len(trace) {
			event := trace[pos]
			pos++
			if want.Matches(event) {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", assertion.Events),
				Actual:   fmt.Sprintf("no %s after event %d (events[%d])", want, matchedSeq(trace, pos), i),
				Trace:    trace,
			}
		}
	}
	return nil
}

func matchedSeq(trace []roommates.Event, pos int) int64 {
	if pos == 0 || pos > len(trace) {
		return 0
	}
	return trace[pos-1].Seq
}

// assertTraceCount checks that exactly Count events match the selector.
func assertTraceCount(trace []roommates.Event, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if assertion.EventMatch.Matches(event) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.EventMatch),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalState checks a participant's remaining list at a checkpoint.
func assertFinalState(result *Result, assertion Assertion) error {
	snap, ok := result.Snapshot(assertion.Checkpoint)
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("snapshot at %s", assertion.Checkpoint),
			Actual:   fmt.Sprintf("checkpoint not reached (have %s)", checkpointNames(result)),
		}
	}

	got, ok := snap.Lists[assertion.Participant]
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("participant %s at %s", assertion.Participant, assertion.Checkpoint),
			Actual:   "participant not in table",
		}
	}

	if !slices.Equal(got, assertion.Remaining) {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s at %s = %v", assertion.Participant, assertion.Checkpoint, assertion.Remaining),
			Actual:   fmt.Sprintf("%v\n\n%s", got, snap.Table),
		}
	}

	return nil
}

func checkpointNames(result *Result) string {
	names := make([]string, len(result.Snapshots))
	for i, s := range result.Snapshots {
		names[i] = s.Checkpoint
	}
	return strings.Join(names, ", ")
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
