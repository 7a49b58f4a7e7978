package roommates

// eligible reports whether id still has to propose: it has no accepted
// proposal outstanding and a non-empty list.
func (s *Solver) eligible(id string) bool {
	return !s.store.Proposed(id) && s.store.RemainingCount(id) > 0
}

// runProposals is phase 1.
//
// Participants are scanned in instance order; every eligible participant
// proposes once per pass. The phase ends after a pass in which nobody was
// eligible, i.e. everyone has an accepted proposal out or an empty list.
func (s *Solver) runProposals() error {
	for {
		progressed := false
		for _, id := range s.store.order {
			if !s.eligible(id) {
				continue
			}
			progressed = true
			if err := s.propose(id); err != nil {
				return err
			}
		}
		if !progressed {
			return nil
		}
	}
}

// propose lets offerer propose to its current first choice and applies the
// offeree's response as one unit.
func (s *Solver) propose(offerer string) error {
	offeree, err := s.store.NthRemaining(offerer, 1)
	if err != nil {
		return err
	}

	current, holding := s.store.Held(offeree)
	switch {
	case !holding:
		s.store.setHeld(offeree, offerer)
		s.store.setProposed(offerer, true)
		s.record(Event{Phase: PhaseProposal, Kind: EventAccept, From: offerer, To: offeree})

	case s.store.Rank(offeree, offerer) > s.store.Rank(offeree, current):
		// offeree trades up; current goes back into the pool
		if err := s.remove(PhaseProposal, offeree, current); err != nil {
			return err
		}
		s.store.setProposed(current, false)
		s.store.setHeld(offeree, offerer)
		s.store.setProposed(offerer, true)
		s.record(Event{Phase: PhaseProposal, Kind: EventTradeUp, From: offerer, To: offeree})

	default:
		s.record(Event{Phase: PhaseProposal, Kind: EventReject, From: offerer, To: offeree})
		if err := s.remove(PhaseProposal, offerer, offeree); err != nil {
			return err
		}
	}
	return nil
}
