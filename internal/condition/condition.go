// Package condition decides whether a sensor snapshot satisfies a target.
// The evaluator is a pure function over its inputs; missing sensor fields
// read as neutral values rather than errors.
package condition

import (
	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// Evaluator carries the fixed calibration shared by every check: the
// reference rotation per band, the mixing bowl stick center, and how far past
// center counts as pushing an edge.
type Evaluator struct {
	BandReference map[game.Band]float64
	CenterX       float64
	CenterY       float64
	EdgeThreshold float64
}

// Satisfied reports whether the snapshot meets the target for the utensil.
// An absent target is never satisfied.
func (e *Evaluator) Satisfied(u game.Utensil, s game.Snapshot, t game.Target, threshold float64) bool {
	switch t.Kind {
	case game.TargetBand:
		ref := e.BandReference[t.Band]
		// The fallback sits outside the band so a missing reading never satisfies.
		v := s.Float("rotation", ref-threshold-1)
		diff := v - ref
		if diff < 0 {
			diff = -diff
		}
		return diff <= threshold
	case game.TargetFlip:
		return s.Bool("contact")
	case game.TargetButton:
		return s.Float(t.Button, 0) == 1
	case game.TargetQuadrant:
		x := s.Float("x", e.CenterX)
		y := s.Float("y", e.CenterY)
		switch t.Quadrant {
		case game.QuadrantLeft:
			return x < e.CenterX-e.EdgeThreshold
		case game.QuadrantRight:
			return x > e.CenterX+e.EdgeThreshold
		case game.QuadrantUp:
			return y < e.CenterY-e.EdgeThreshold
		case game.QuadrantDown:
			return y > e.CenterY+e.EdgeThreshold
		}
	case game.TargetSpin:
		return s.Text("direction") == string(t.Spin)
	}
	return false
}
