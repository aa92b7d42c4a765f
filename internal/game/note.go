package game

import "time"

type NoteKind uint8

const (
	KindTap NoteKind = iota
	KindHold
)

// NoteState is the explicit judgment state machine. Taps move
// Pending -> Hit | Missed. Holds move Pending -> Holding -> HoldComplete |
// HoldBroken, or Pending -> HoldBroken when never started. Terminal states
// are never left.
type NoteState uint8

const (
	StatePending NoteState = iota
	StateHit
	StateMissed
	StateHolding
	StateHoldComplete
	StateHoldBroken
)

func (s NoteState) Terminal() bool {
	switch s {
	case StateHit, StateMissed, StateHoldComplete, StateHoldBroken:
		return true
	}
	return false
}

func (s NoteState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateHit:
		return "hit"
	case StateMissed:
		return "missed"
	case StateHolding:
		return "holding"
	case StateHoldComplete:
		return "hold_complete"
	case StateHoldBroken:
		return "hold_broken"
	}
	return "unknown"
}

// NoteKey identifies a note within the registry. Unique at any instant.
type NoteKey struct {
	Utensil Utensil
	HitTime time.Time
}

// Note is the runtime record derived 1:1 from a chart event when the
// schedule is built. State transitions happen only through the registry.
type Note struct {
	Utensil    Utensil
	Instrument string
	Target     Target
	HitTime    time.Time
	Duration   time.Duration
	Kind       NoteKind
	HoldEnd    time.Time // HitTime + Duration, holds only
	State      NoteState
	LastSample time.Time // last hold maintenance check, holds only
}

func (n *Note) Key() NoteKey {
	return NoteKey{Utensil: n.Utensil, HitTime: n.HitTime}
}
