package game

import "fmt"

// TargetKind enumerates the condition families a chart event can ask for. The
// source charts carry targets as bare words; they are parsed once at load time
// so the evaluator never has to do string matching.
type TargetKind uint8

const (
	TargetNone TargetKind = iota // not listening, never satisfied
	TargetBand                   // rotation band on the pan
	TargetFlip                   // pan contact toggle
	TargetButton                 // cutting board button identifier
	TargetQuadrant               // mixing bowl stick pushed past an edge
	TargetSpin                   // legacy mixing bowl rotation direction
)

type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

type Quadrant string

const (
	QuadrantUp    Quadrant = "up"
	QuadrantDown  Quadrant = "down"
	QuadrantLeft  Quadrant = "left"
	QuadrantRight Quadrant = "right"
)

type Spin string

const (
	SpinClockwise        Spin = "clockwise"
	SpinCounterclockwise Spin = "counterclockwise"
)

// Target is the per-event condition descriptor. Only the field selected by
// Kind is meaningful.
type Target struct {
	Kind     TargetKind
	Band     Band
	Button   string
	Quadrant Quadrant
	Spin     Spin
}

var NoTarget = Target{Kind: TargetNone}

func (t Target) String() string {
	switch t.Kind {
	case TargetBand:
		return string(t.Band)
	case TargetFlip:
		return "flip"
	case TargetButton:
		return t.Button
	case TargetQuadrant:
		return string(t.Quadrant)
	case TargetSpin:
		return string(t.Spin)
	}
	return "none"
}

// ParseTarget maps a chart target word onto an explicit kind for the given
// utensil. An empty word is a valid "no target" descriptor; anything else
// unrecognised is a chart error.
func ParseTarget(u Utensil, raw string) (Target, error) {
	if raw == "" || raw == "none" {
		return NoTarget, nil
	}
	switch u {
	case Pan:
		switch raw {
		case "low", "medium", "high":
			return Target{Kind: TargetBand, Band: Band(raw)}, nil
		case "flip":
			return Target{Kind: TargetFlip}, nil
		}
	case CuttingBoard:
		return Target{Kind: TargetButton, Button: raw}, nil
	case MixingBowl:
		switch raw {
		case "up", "down", "left", "right":
			return Target{Kind: TargetQuadrant, Quadrant: Quadrant(raw)}, nil
		case "clockwise", "counterclockwise":
			return Target{Kind: TargetSpin, Spin: Spin(raw)}, nil
		case "high":
			// Old charts used high/low for spin direction.
			return Target{Kind: TargetSpin, Spin: SpinClockwise}, nil
		case "low":
			return Target{Kind: TargetSpin, Spin: SpinCounterclockwise}, nil
		}
	}
	return NoTarget, fmt.Errorf("unknown target %q for utensil %q", raw, u)
}
