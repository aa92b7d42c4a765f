// Package judge turns sensor readings into note outcomes. The engine runs on
// whatever goroutine delivers a reading; the watchdog runs on its own tick
// and finalizes notes whose window lapsed. Both commit transitions through
// the registry so a note resolves exactly once no matter how many readings
// race for it.
package judge

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/condition"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/registry"
)

type Config struct {
	HitWindow         time.Duration
	HoldCheckInterval time.Duration
	HoldGracePeriod   time.Duration
}

type Engine struct {
	notes    *registry.Notes
	bindings *registry.Bindings
	eval     *condition.Evaluator
	sink     notify.Sink
	cfg      Config
	now      func() time.Time
}

func NewEngine(notes *registry.Notes, bindings *registry.Bindings, eval *condition.Evaluator, sink notify.Sink, cfg Config) *Engine {
	return &Engine{
		notes:    notes,
		bindings: bindings,
		eval:     eval,
		sink:     sink,
		cfg:      cfg,
		now:      time.Now,
	}
}

// HandleReading walks the registry for notes matching the utensil and applies
// the tap or hold state machine to each, then prunes resolved notes. It works
// from a registry snapshot and commits every transition atomically, emitting
// only after the transition won.
func (e *Engine) HandleReading(u game.Utensil, snap game.Snapshot) {
	now := e.now()
	threshold := e.bindings.Threshold(u)

	for _, n := range e.notes.Snapshot() {
		if n.Utensil != u || n.State.Terminal() {
			continue
		}
		dt := now.Sub(n.HitTime)
		if n.State == game.StatePending && dt < -e.cfg.HitWindow {
			// Too early to judge.
			continue
		}
		satisfied := e.eval.Satisfied(u, snap, n.Target, threshold)

		switch n.Kind {
		case game.KindTap:
			e.judgeTap(n, now, dt, satisfied)
		case game.KindHold:
			e.judgeHold(n, now, dt, satisfied)
		}
	}

	e.notes.Prune()
}

func (e *Engine) judgeTap(n game.Note, now time.Time, dt time.Duration, satisfied bool) {
	if !satisfied {
		return
	}
	if !e.notes.Transition(n.Key(), game.StatePending, game.StateHit, now) {
		return
	}
	accuracy := dt.Milliseconds()
	e.sink.Emit(notify.EventNoteResult, notify.Result{
		Utensil:    string(n.Utensil),
		Instrument: n.Instrument,
		Result:     "hit",
		NoteType:   "tap",
		Time:       notify.UnixSeconds(now),
		Scheduled:  notify.UnixSeconds(n.HitTime),
		AccuracyMs: accuracy,
	})
	log.Info("tap hit", "utensil", n.Utensil, "accuracy_ms", accuracy)
}

func (e *Engine) judgeHold(n game.Note, now time.Time, dt time.Duration, satisfied bool) {
	switch {
	case n.State == game.StatePending:
		// Start phase.
		if !satisfied {
			return
		}
		if !e.notes.Transition(n.Key(), game.StatePending, game.StateHolding, now) {
			return
		}
		e.sink.Emit(notify.EventNoteResult, notify.Result{
			Utensil:    string(n.Utensil),
			Instrument: n.Instrument,
			Result:     "hold_start",
			NoteType:   "hold",
			Time:       notify.UnixSeconds(now),
			Scheduled:  notify.UnixSeconds(n.HitTime),
			Duration:   n.Duration.Seconds(),
			AccuracyMs: dt.Milliseconds(),
		})
		log.Info("hold started", "utensil", n.Utensil, "duration", n.Duration)

	case n.State == game.StateHolding && now.Before(n.HoldEnd):
		// Maintain phase, sampled no more often than the check interval.
		if now.Sub(n.LastSample) < e.cfg.HoldCheckInterval {
			return
		}
		if satisfied {
			e.notes.Touch(n.Key(), now)
			return
		}
		if !e.notes.Transition(n.Key(), game.StateHolding, game.StateHoldBroken, now) {
			return
		}
		held := now.Sub(n.HitTime)
		e.sink.Emit(notify.EventNoteResult, notify.Result{
			Utensil:           string(n.Utensil),
			Instrument:        n.Instrument,
			Result:            "hold_break",
			NoteType:          "hold",
			Time:              notify.UnixSeconds(now),
			Scheduled:         notify.UnixSeconds(n.HitTime),
			ExpectedDuration:  n.Duration.Seconds(),
			HeldDuration:      held.Seconds(),
			CompletionPercent: int(held.Seconds() / n.Duration.Seconds() * 100),
		})
		log.Info("hold broken", "utensil", n.Utensil, "held", held, "expected", n.Duration)

	case n.State == game.StateHolding:
		// End phase: condition still met, or released within the grace period.
		if satisfied || now.Sub(n.HoldEnd) < e.cfg.HoldGracePeriod {
			if !e.notes.Transition(n.Key(), game.StateHolding, game.StateHoldComplete, now) {
				return
			}
			e.sink.Emit(notify.EventNoteResult, notify.Result{
				Utensil:    string(n.Utensil),
				Instrument: n.Instrument,
				Result:     "hold_complete",
				NoteType:   "hold",
				Time:       notify.UnixSeconds(now),
				Scheduled:  notify.UnixSeconds(n.HitTime),
				Duration:   n.Duration.Seconds(),
			})
			log.Info("hold complete", "utensil", n.Utensil, "duration", n.Duration)
			return
		}
		if !e.notes.Transition(n.Key(), game.StateHolding, game.StateHoldBroken, now) {
			return
		}
		e.sink.Emit(notify.EventNoteResult, notify.Result{
			Utensil:           string(n.Utensil),
			Instrument:        n.Instrument,
			Result:            "hold_break",
			NoteType:          "hold",
			Time:              notify.UnixSeconds(now),
			Scheduled:         notify.UnixSeconds(n.HitTime),
			ExpectedDuration:  n.Duration.Seconds(),
			HeldDuration:      n.Duration.Seconds(),
			CompletionPercent: 99,
		})
		log.Info("hold released at the end", "utensil", n.Utensil)
	}
}
