package registry

import (
	"sync"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// Binding is the currently active listening rule for one utensil.
type Binding struct {
	Target    game.Target
	Threshold float64
}

// Bindings maps each utensil to its active target. Thresholds are fixed at
// construction; only the target changes, set by the scheduler at activation
// time and cleared on restart.
type Bindings struct {
	mu         sync.Mutex
	thresholds map[game.Utensil]float64
	targets    map[game.Utensil]game.Target
}

func NewBindings(thresholds map[game.Utensil]float64) *Bindings {
	b := &Bindings{
		thresholds: make(map[game.Utensil]float64, len(thresholds)),
		targets:    make(map[game.Utensil]game.Target),
	}
	for u, t := range thresholds {
		b.thresholds[u] = t
	}
	return b
}

// Activate starts listening for the given target on a utensil.
func (b *Bindings) Activate(u game.Utensil, t game.Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.targets[u] = t
}

// Lookup returns the active binding. ok is false while the engine is not
// listening for this utensil.
func (b *Bindings) Lookup(u game.Utensil) (Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.targets[u]
	if !ok || t.Kind == game.TargetNone {
		return Binding{}, false
	}
	return Binding{Target: t, Threshold: b.thresholds[u]}, true
}

// Threshold returns the configured tolerance for a utensil regardless of
// whether a target is active.
func (b *Bindings) Threshold(u game.Utensil) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.thresholds[u]
}

// Reset unsets every target.
func (b *Bindings) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.targets = make(map[game.Utensil]game.Target)
}
