// Package registry holds the two shared structures mutated from the
// scheduler, the judgment engine, and the miss watchdog. All operations are
// atomic and intention revealing; callers never touch the locks. Locks are
// released before any caller goes on to emit notifications.
package registry

import (
	"sync"
	"time"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// Notes is the in-flight note collection, ordered by insertion.
type Notes struct {
	mu    sync.Mutex
	notes []*game.Note
}

func NewNotes() *Notes {
	return &Notes{}
}

func (r *Notes) Add(n game.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := n
	r.notes = append(r.notes, &c)
}

func (r *Notes) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

// Snapshot returns value copies of every note, in order. Readers work from a
// consistent copy and commit changes through Transition.
func (r *Notes) Snapshot() []game.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.Note, len(r.notes))
	for i, n := range r.notes {
		out[i] = *n
	}
	return out
}

// Transition atomically moves the identified note from one state to another.
// It reports false when the note is absent or no longer in the from state, so
// of two racing readers only the first wins. Entering StateHolding records
// the sample time.
func (r *Notes) Transition(key game.NoteKey, from, to game.NoteState, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.Key() != key {
			continue
		}
		if n.State != from {
			return false
		}
		n.State = to
		if to == game.StateHolding {
			n.LastSample = at
		}
		return true
	}
	return false
}

// Touch refreshes the hold sample time of a note that is still holding.
func (r *Notes) Touch(key game.NoteKey, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.Key() != key {
			continue
		}
		if n.State != game.StateHolding {
			return false
		}
		n.LastSample = at
		return true
	}
	return false
}

// Prune drops every note in a terminal state and reports how many were
// removed. Pending and actively holding notes are never touched.
func (r *Notes) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notes[:0]
	removed := 0
	for _, n := range r.notes {
		if n.State.Terminal() {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.notes = kept
	return removed
}

func (r *Notes) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}
