package judge

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/registry"
)

// Watchdog finalizes notes nobody judged in time: taps whose window lapsed
// become misses, holds that never started become broken. It never touches a
// hold that is actively being maintained.
type Watchdog struct {
	notes     *registry.Notes
	sink      notify.Sink
	hitWindow time.Duration
}

func NewWatchdog(notes *registry.Notes, sink notify.Sink, hitWindow time.Duration) *Watchdog {
	return &Watchdog{notes: notes, sink: sink, hitWindow: hitWindow}
}

// Scan runs one pass over the registry. The scheduler calls it on every tick
// of the watchdog loop.
func (w *Watchdog) Scan(now time.Time) {
	for _, n := range w.notes.Snapshot() {
		if n.State != game.StatePending {
			continue
		}
		if !now.After(n.HitTime.Add(w.hitWindow)) {
			continue
		}

		switch n.Kind {
		case game.KindTap:
			if !w.notes.Transition(n.Key(), game.StatePending, game.StateMissed, now) {
				continue
			}
			w.sink.Emit(notify.EventNoteResult, notify.Result{
				Instrument: n.Instrument,
				Utensil:    string(n.Utensil),
				Result:     "miss",
				NoteType:   "tap",
				Scheduled:  notify.UnixSeconds(n.HitTime),
				ActualTime: notify.UnixSeconds(now),
			})
			log.Info("tap missed", "utensil", n.Utensil, "scheduled", n.HitTime)

		case game.KindHold:
			if !w.notes.Transition(n.Key(), game.StatePending, game.StateHoldBroken, now) {
				continue
			}
			w.sink.Emit(notify.EventNoteResult, notify.Result{
				Instrument:       n.Instrument,
				Utensil:          string(n.Utensil),
				Result:           "miss",
				NoteType:         "hold",
				Scheduled:        notify.UnixSeconds(n.HitTime),
				ActualTime:       notify.UnixSeconds(now),
				ExpectedDuration: n.Duration.Seconds(),
			})
			log.Info("hold never started", "utensil", n.Utensil, "scheduled", n.HitTime)
		}
	}
}
