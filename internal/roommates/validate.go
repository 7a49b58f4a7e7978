package roommates

import (
	"sort"

	"github.com/roach88/roommates/internal/ir"
)

// Validate checks the caller contract of the solver: an even, non-zero number
// of participants, each ranking every other participant exactly once.
//
// Mutual consistency (A lists B iff B lists A) follows from every list being
// a permutation of all other ids.
//
// Returns an *InputError describing the first violation found, scanning
// participants in instance order.
func Validate(inst ir.Instance) error {
	n := len(inst.Participants)
	if n == 0 {
		return newInputError(ErrCodeEmptyInstance, "", "instance has no participants")
	}
	if n%2 != 0 {
		return newInputError(ErrCodeOddCount, "", "instance has %d participants, need an even number", n)
	}

	known := make(map[string]bool, n)
	for _, id := range inst.Participants {
		if id == "" {
			return newInputError(ErrCodeEmptyID, "", "participant id must not be empty")
		}
		if known[id] {
			return newInputError(ErrCodeDuplicateParticipant, id, "participant listed more than once")
		}
		known[id] = true
	}

	var extra []string
	for id := range inst.Preferences {
		if !known[id] {
			extra = append(extra, id)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return newInputError(ErrCodeUnknownParticipant, extra[0], "preferences given for a participant outside the instance order")
	}

	for _, id := range inst.Participants {
		prefs, ok := inst.Preferences[id]
		if !ok || prefs == nil {
			return newInputError(ErrCodeMissingPreferences, id, "no preference list")
		}
		if len(prefs) != n-1 {
			return newInputError(ErrCodeWrongLength, id, "preference list has %d entries, want %d", len(prefs), n-1)
		}

		seen := make(map[string]bool, len(prefs))
		for _, other := range prefs {
			switch {
			case other == id:
				return newInputError(ErrCodeSelfReference, id, "participant ranks itself")
			case !known[other]:
				return newInputError(ErrCodeUnknownParticipant, id, "preference list names unknown participant %q", other)
			case seen[other]:
				return newInputError(ErrCodeDuplicateEntry, id, "preference list names %q more than once", other)
			}
			seen[other] = true
		}
	}

	return nil
}
