package roommates

import (
	"fmt"
	"log/slog"

	"github.com/roach88/roommates/internal/ir"
)

// Checkpoint names a point at which the solver exposes the store to an
// observer.
type Checkpoint string

const (
	CheckpointProposal  Checkpoint = "phase1"
	CheckpointReduction Checkpoint = "phase1b"
	CheckpointRotation  Checkpoint = "rotation"
	CheckpointFinal     Checkpoint = "phase2"
)

// CheckpointFunc observes the store at a checkpoint. It must not retain or
// mutate the store.
type CheckpointFunc func(cp Checkpoint, s *Store)

// Result is the outcome of a solve.
//
// Exactly one of Matching and Reason is set: a stable matching was found, or
// Reason says at which check the instance was shown to have none.
type Result struct {
	// Matching maps every participant to its partner. Symmetric and total.
	Matching map[string]string `json:"matching,omitempty"`

	// Reason is set when no stable matching exists.
	Reason Reason `json:"reason,omitempty"`

	// Rotations is the number of rotations eliminated in phase 2.
	Rotations int `json:"rotations"`

	// Trace holds every event when WithTrace is set.
	Trace []Event `json:"trace,omitempty"`
}

// Stable reports whether a stable matching was found.
func (r *Result) Stable() bool {
	return r.Reason == "" && r.Matching != nil
}

// Option configures a Solver.
type Option func(*Solver)

// WithTrace records every proposal outcome, removal and rotation in
// Result.Trace.
func WithTrace() Option {
	return func(s *Solver) {
		s.trace = true
	}
}

// WithCheckpoint registers an observer called after phase 1, after
// reduction, after every rotation elimination and at the end of phase 2.
func WithCheckpoint(fn CheckpointFunc) Option {
	return func(s *Solver) {
		s.checkpoint = fn
	}
}

// WithLogger sets the logger used for phase diagnostics (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		s.log = l
	}
}

// Solver runs Irving's algorithm on one store.
//
// A Solver is single-use: Run mutates its store in place and may be called
// once. Use Solve for the common case.
type Solver struct {
	store      *Store
	clock      *Clock
	trace      bool
	events     []Event
	rotations  int
	checkpoint CheckpointFunc
	log        *slog.Logger
	done       bool
}

// NewSolver creates a solver for the given store.
func NewSolver(store *Store, opts ...Option) *Solver {
	s := &Solver{
		store: store,
		clock: NewClock(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve validates the instance, builds a fresh store and runs the solver.
//
// The error is non-nil only for a malformed instance (matching
// ErrInputMalformed) or an internal fault. "No stable matching" is a normal
// result reported through Result.Reason.
func Solve(inst ir.Instance, opts ...Option) (*Result, error) {
	store, err := NewStore(inst)
	if err != nil {
		return nil, err
	}
	return NewSolver(store, opts...).Run()
}

// Run sequences the three phases, stopping at the first failing check.
func (s *Solver) Run() (*Result, error) {
	if s.done {
		return nil, fmt.Errorf("solver already ran")
	}
	s.done = true

	if err := s.runProposals(); err != nil {
		return nil, fmt.Errorf("phase 1: %w", err)
	}
	s.observe(CheckpointProposal)
	for _, id := range s.store.order {
		if _, ok := s.store.Held(id); !ok {
			s.log.Debug("no stable matching", "phase", PhaseProposal, "participant", id)
			return s.fail(ReasonPhase1Unresolved), nil
		}
	}

	if err := s.runReduction(); err != nil {
		return nil, fmt.Errorf("phase 1b: %w", err)
	}
	s.observe(CheckpointReduction)
	for _, id := range s.store.order {
		if s.store.RemainingCount(id) == 0 {
			s.log.Debug("no stable matching", "phase", PhaseReduction, "participant", id)
			return s.fail(ReasonPhase1ReductionEmpty), nil
		}
	}

	if reason := s.runRotations(); reason != "" {
		s.log.Debug("no stable matching", "phase", PhaseRotation, "reason", reason)
		return s.fail(reason), nil
	}
	s.observe(CheckpointFinal)

	matching := make(map[string]string, len(s.store.order))
	for _, id := range s.store.order {
		if s.store.RemainingCount(id) != 1 {
			s.log.Debug("no stable matching", "phase", PhaseRotation, "participant", id,
				"remaining", s.store.RemainingCount(id))
			return s.fail(ReasonPhase2Incomplete), nil
		}
		partner, _ := s.store.NthRemaining(id, 1)
		matching[id] = partner
	}

	s.log.Debug("stable matching found", "participants", len(matching), "rotations", s.rotations)
	return &Result{
		Matching:  matching,
		Rotations: s.rotations,
		Trace:     s.events,
	}, nil
}

func (s *Solver) fail(reason Reason) *Result {
	return &Result{
		Reason:    reason,
		Rotations: s.rotations,
		Trace:     s.events,
	}
}

func (s *Solver) observe(cp Checkpoint) {
	if s.checkpoint != nil {
		s.checkpoint(cp, s.store)
	}
}

func (s *Solver) record(ev Event) {
	if !s.trace {
		return
	}
	ev.Seq = s.clock.Next()
	s.events = append(s.events, ev)
}

// remove drops the pair (x, y) from both lists and records it.
func (s *Solver) remove(phase Phase, x, y string) error {
	if err := s.store.RemoveMutual(x, y); err != nil {
		return err
	}
	s.record(Event{Phase: phase, Kind: EventRemove, From: x, To: y})
	return nil
}
