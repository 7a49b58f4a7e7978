package roommates

// runReduction is phase 1b: one full pass over participants in instance
// order, running reduceLower then reduceHigher for each.
//
// Callers must have checked that every participant holds an offer.
func (s *Solver) runReduction() error {
	for _, id := range s.store.order {
		if err := s.reduceLower(id); err != nil {
			return err
		}
		if err := s.reduceHigher(id); err != nil {
			return err
		}
	}
	return nil
}

// reduceLower removes every entry p ranks strictly below the offer it holds.
func (s *Solver) reduceLower(p string) error {
	held, ok := s.store.Held(p)
	if !ok {
		return nil
	}
	return s.dropBelow(PhaseReduction, p, held)
}

// reduceHigher removes every q from p's list that holds an offer q prefers
// to p: q would reject p anyway.
func (s *Solver) reduceHigher(p string) error {
	for _, q := range s.store.Remaining(p) {
		qHeld, ok := s.store.Held(q)
		if !ok {
			continue
		}
		if s.store.Rank(q, qHeld) > s.store.Rank(q, p) {
			if err := s.remove(PhaseReduction, p, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// dropBelow removes every entry of x's list ranked strictly below cutoff.
// cutoff itself stays.
func (s *Solver) dropBelow(phase Phase, x, cutoff string) error {
	limit := s.store.Rank(x, cutoff)
	for _, y := range s.store.Remaining(x) {
		if s.store.Rank(x, y) < limit {
			if err := s.remove(phase, x, y); err != nil {
				return err
			}
		}
	}
	return nil
}
