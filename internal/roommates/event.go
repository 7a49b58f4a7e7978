package roommates

// Phase names a stage of the solver.
type Phase string

const (
	PhaseProposal  Phase = "phase1"
	PhaseReduction Phase = "phase1b"
	PhaseRotation  Phase = "phase2"
)

// EventKind identifies what happened in an Event.
type EventKind string

const (
	// EventAccept: To accepted From's proposal while holding nothing.
	EventAccept EventKind = "accept"

	// EventTradeUp: To accepted From's proposal and dropped its previous hold.
	EventTradeUp EventKind = "trade_up"

	// EventReject: To rejected From's proposal.
	EventReject EventKind = "reject"

	// EventRemove: the pair (From, To) was removed from both lists.
	EventRemove EventKind = "remove"

	// EventRotation: a rotation was found; Pairs holds (a_i, b_i).
	EventRotation EventKind = "rotation"

	// EventHold: To now holds From's offer after a rotation elimination.
	EventHold EventKind = "hold"
)

// Event is one step of a traced solve.
type Event struct {
	Seq   int64     `json:"seq"`
	Phase Phase     `json:"phase"`
	Kind  EventKind `json:"kind"`
	From  string    `json:"from,omitempty"`
	To    string    `json:"to,omitempty"`
	Pairs []Pair    `json:"pairs,omitempty"`
}

// Clock is a monotonic logical clock for event ordering.
//
// All events are stamped with a strictly increasing seq from this clock, so a
// replayed solve produces the same sequence numbers. Not safe for concurrent
// use; a solve runs on a single goroutine.
type Clock struct {
	seq int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq
}
