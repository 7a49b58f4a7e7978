package roommates

import (
	"fmt"

	"github.com/roach88/roommates/internal/ir"
)

// Absent is the rank reported for an entry that is not (or no longer) in a
// preference list. Present entries always rank at least 1.
const Absent = -1

// Last selects the least-preferred surviving entry in NthRemaining.
const Last = -1

// participant is one row of the preference table.
//
// prefs never changes after construction; removal flips live[i] to false, so
// surviving entries keep their relative order (rank stability).
type participant struct {
	id    string
	prefs []string
	live  []bool
	pos   map[string]int
	count int // surviving entries

	held     string // id whose offer is held, valid only if holding
	holding  bool
	proposed bool // has an accepted proposal outstanding
}

// Entry is a preference list slot as seen by renderers.
type Entry struct {
	ID      string
	Removed bool
}

// Store is the preference table for one problem instance.
//
// A Store is created per instance and owned by the caller; there is no shared
// registry, so independent instances can be solved side by side.
//
// INVARIANTS:
//   - Removal is always mutual: y is live in x's list iff x is live in y's.
//   - Surviving entries never change relative order.
//   - Remaining counts never increase.
type Store struct {
	order  []string
	people map[string]*participant
}

// NewStore validates the instance and builds a fresh store from it.
// Returns an *InputError if the instance violates the caller contract.
func NewStore(inst ir.Instance) (*Store, error) {
	if err := Validate(inst); err != nil {
		return nil, err
	}

	s := &Store{
		order:  make([]string, len(inst.Participants)),
		people: make(map[string]*participant, len(inst.Participants)),
	}
	copy(s.order, inst.Participants)

	for _, id := range s.order {
		prefs := append([]string(nil), inst.Preferences[id]...)
		p := &participant{
			id:    id,
			prefs: prefs,
			live:  make([]bool, len(prefs)),
			pos:   make(map[string]int, len(prefs)),
			count: len(prefs),
		}
		for i, other := range prefs {
			p.live[i] = true
			p.pos[other] = i
		}
		s.people[id] = p
	}

	return s, nil
}

// IDs returns participant ids in instance order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of participants.
func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) get(id string) (*participant, error) {
	p, ok := s.people[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	return p, nil
}

// Rank returns how strongly x prefers y: len(x's original list) minus the
// index of y in it. Higher is more preferred. Returns Absent if y has been
// removed from x's list or either id is unknown.
func (s *Store) Rank(x, y string) int {
	p, ok := s.people[x]
	if !ok {
		return Absent
	}
	i, ok := p.pos[y]
	if !ok || !p.live[i] {
		return Absent
	}
	return len(p.prefs) - i
}

// NthRemaining returns x's n-th most preferred surviving entry (1-indexed).
// n == Last returns the least preferred surviving entry.
// Returns ErrOutOfRange if fewer than n entries survive.
func (s *Store) NthRemaining(x string, n int) (string, error) {
	p, err := s.get(x)
	if err != nil {
		return "", err
	}

	if n == Last {
		for i := len(p.prefs) - 1; i >= 0; i-- {
			if p.live[i] {
				return p.prefs[i], nil
			}
		}
		return "", fmt.Errorf("%w: %s has no remaining entries", ErrOutOfRange, x)
	}
	if n < 1 {
		return "", fmt.Errorf("%w: invalid index %d", ErrOutOfRange, n)
	}

	seen := 0
	for i, other := range p.prefs {
		if !p.live[i] {
			continue
		}
		seen++
		if seen == n {
			return other, nil
		}
	}
	return "", fmt.Errorf("%w: %s has %d remaining entries, want %d", ErrOutOfRange, x, p.count, n)
}

// RemoveMutual removes y from x's list and x from y's list.
// Both sides are checked before either is touched; on error nothing changes.
func (s *Store) RemoveMutual(x, y string) error {
	px, err := s.get(x)
	if err != nil {
		return err
	}
	py, err := s.get(y)
	if err != nil {
		return err
	}

	ix, okx := px.pos[y]
	iy, oky := py.pos[x]
	if !okx || !oky || !px.live[ix] || !py.live[iy] {
		return fmt.Errorf("%w: pair (%s, %s)", ErrNotPresent, x, y)
	}

	px.live[ix] = false
	px.count--
	py.live[iy] = false
	py.count--
	return nil
}

// RemainingCount returns the number of surviving entries in x's list.
func (s *Store) RemainingCount(x string) int {
	p, ok := s.people[x]
	if !ok {
		return 0
	}
	return p.count
}

// TotalRemaining returns the sum of all remaining counts.
// Strictly decreases with every removal.
func (s *Store) TotalRemaining() int {
	total := 0
	for _, p := range s.people {
		total += p.count
	}
	return total
}

// Remaining returns x's surviving entries, most preferred first.
func (s *Store) Remaining(x string) []string {
	p, ok := s.people[x]
	if !ok {
		return nil
	}
	out := make([]string, 0, p.count)
	for i, other := range p.prefs {
		if p.live[i] {
			out = append(out, other)
		}
	}
	return out
}

// Entries returns x's full original list with removal marks.
func (s *Store) Entries(x string) []Entry {
	p, ok := s.people[x]
	if !ok {
		return nil
	}
	out := make([]Entry, len(p.prefs))
	for i, other := range p.prefs {
		out[i] = Entry{ID: other, Removed: !p.live[i]}
	}
	return out
}

// Held returns the participant whose offer x currently holds.
func (s *Store) Held(x string) (string, bool) {
	p, ok := s.people[x]
	if !ok || !p.holding {
		return "", false
	}
	return p.held, true
}

// Proposed reports whether x has an accepted proposal outstanding.
func (s *Store) Proposed(x string) bool {
	p, ok := s.people[x]
	return ok && p.proposed
}

func (s *Store) setHeld(x, from string) {
	p := s.people[x]
	p.held, p.holding = from, true
}

func (s *Store) clearHeld(x string) {
	p := s.people[x]
	p.held, p.holding = "", false
}

func (s *Store) setProposed(x string, proposed bool) {
	s.people[x].proposed = proposed
}
