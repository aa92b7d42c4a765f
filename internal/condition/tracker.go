package condition

import (
	"sync"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// DirectionTracker derives a rotation direction from the mixing bowl stick
// position: left of center reads counterclockwise, right reads clockwise, and
// dead center keeps the last known direction. The tracker runs outside the
// evaluator so the evaluator stays stateless.
type DirectionTracker struct {
	mu      sync.Mutex
	centerX float64
	last    game.Spin
}

func NewDirectionTracker(centerX float64) *DirectionTracker {
	return &DirectionTracker{centerX: centerX}
}

// Annotate stamps the detected direction onto the snapshot and returns it.
func (t *DirectionTracker) Annotate(s game.Snapshot) game.Snapshot {
	x := s.Float("x", t.centerX)

	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case x < t.centerX:
		t.last = game.SpinCounterclockwise
	case x > t.centerX:
		t.last = game.SpinClockwise
	}
	if t.last != "" {
		s["direction"] = string(t.last)
	}
	return s
}
