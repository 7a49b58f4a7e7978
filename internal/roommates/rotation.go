package roommates

import "fmt"

// Rotation is a cycle of pairs (a_i, b_i) where b_i is a_i's first choice
// and b_{i+1} its second.
type Rotation struct {
	A []string
	B []string
}

// Pairs returns the rotation as (a_i, b_i) pairs.
func (r Rotation) Pairs() []Pair {
	out := make([]Pair, len(r.A))
	for i := range r.A {
		out[i] = Pair{A: r.A[i], B: r.B[i]}
	}
	return out
}

// runRotations is phase 2. It eliminates rotations until every list has at
// most one entry. Returns ReasonPhase2CycleBroken if a rotation cannot be
// discovered or eliminated; the final one-entry check is left to the caller.
func (s *Solver) runRotations() Reason {
	for {
		start, ok := s.nextRotationStart()
		if !ok {
			return ""
		}

		rot, err := s.findRotation(start)
		if err != nil {
			s.log.Debug("rotation discovery failed", "start", start, "error", err)
			return ReasonPhase2CycleBroken
		}
		s.record(Event{Phase: PhaseRotation, Kind: EventRotation, Pairs: rot.Pairs()})

		if err := s.eliminate(rot); err != nil {
			s.log.Debug("rotation elimination failed", "start", start, "error", err)
			return ReasonPhase2CycleBroken
		}
		s.rotations++
		s.observe(CheckpointRotation)
	}
}

// nextRotationStart returns the first participant, in instance order, with
// more than one remaining entry. Returns false when there is none or when
// some list is already empty (no stable matching; the final check reports it).
func (s *Solver) nextRotationStart() (string, bool) {
	start := ""
	for _, id := range s.store.order {
		switch n := s.store.RemainingCount(id); {
		case n == 0:
			return "", false
		case n > 1 && start == "":
			start = id
		}
	}
	return start, start != ""
}

// findRotation walks p -> second(p) -> last(second(p)) -> ... from start
// until a p repeats, and returns the cycle from the first occurrence of the
// repeated p.
func (s *Solver) findRotation(start string) (Rotation, error) {
	ps := []string{start}
	seen := map[string]int{start: 0}

	for {
		q, err := s.store.NthRemaining(ps[len(ps)-1], 2)
		if err != nil {
			return Rotation{}, err
		}
		next, err := s.store.NthRemaining(q, Last)
		if err != nil {
			return Rotation{}, err
		}

		if first, ok := seen[next]; ok {
			return s.rotationFrom(ps[first:])
		}
		seen[next] = len(ps)
		ps = append(ps, next)

		// each step adds a distinct participant
		if len(ps) > s.store.Len() {
			return Rotation{}, fmt.Errorf("rotation from %s did not close", start)
		}
	}
}

func (s *Solver) rotationFrom(as []string) (Rotation, error) {
	rot := Rotation{A: make([]string, len(as)), B: make([]string, len(as))}
	for i, a := range as {
		b, err := s.store.NthRemaining(a, 1)
		if err != nil {
			return Rotation{}, err
		}
		rot.A[i] = a
		rot.B[i] = b
	}
	return rot, nil
}

// eliminate applies a rotation as one unit: every b_i rejects a_i, then every
// a_i proposes to its new first choice, which drops everyone it ranks below a_i.
func (s *Solver) eliminate(rot Rotation) error {
	for i, a := range rot.A {
		b := rot.B[i]
		if err := s.remove(PhaseRotation, a, b); err != nil {
			return err
		}
		s.store.clearHeld(b)
	}

	for _, a := range rot.A {
		b, err := s.store.NthRemaining(a, 1)
		if err != nil {
			return err
		}
		s.store.setHeld(b, a)
		s.record(Event{Phase: PhaseRotation, Kind: EventHold, From: a, To: b})
		if err := s.dropBelow(PhaseRotation, b, a); err != nil {
			return err
		}
	}
	return nil
}
