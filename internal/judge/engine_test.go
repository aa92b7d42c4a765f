package judge

import (
	"testing"
	"time"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/condition"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/registry"
)

var base = time.Unix(1700000000, 0)

var (
	lowBand  = game.Target{Kind: game.TargetBand, Band: game.BandLow}
	onTarget = game.Snapshot{"rotation": 30.0}
	offBand  = game.Snapshot{"rotation": 200.0}
)

type fixture struct {
	notes    *registry.Notes
	bindings *registry.Bindings
	rec      *notify.Recorder
	engine   *Engine
	watchdog *Watchdog
}

func newFixture() *fixture {
	f := &fixture{
		notes:    registry.NewNotes(),
		bindings: registry.NewBindings(map[game.Utensil]float64{game.Pan: 20}),
		rec:      &notify.Recorder{},
	}
	eval := &condition.Evaluator{
		BandReference: map[game.Band]float64{game.BandLow: 30, game.BandMedium: 90, game.BandHigh: 150},
		CenterX:       519,
		CenterY:       517,
		EdgeThreshold: 200,
	}
	f.engine = NewEngine(f.notes, f.bindings, eval, f.rec, Config{
		HitWindow:         3 * time.Second,
		HoldCheckInterval: 50 * time.Millisecond,
		HoldGracePeriod:   100 * time.Millisecond,
	})
	f.watchdog = NewWatchdog(f.notes, f.rec, 3*time.Second)
	return f
}

func (f *fixture) addTap(hit time.Time) {
	f.notes.Add(game.Note{
		Utensil:    game.Pan,
		Instrument: "piano",
		Target:     lowBand,
		HitTime:    hit,
		Kind:       game.KindTap,
		State:      game.StatePending,
	})
}

func (f *fixture) addHold(hit time.Time, duration time.Duration) {
	f.notes.Add(game.Note{
		Utensil:    game.Pan,
		Instrument: "piano",
		Target:     lowBand,
		HitTime:    hit,
		Duration:   duration,
		Kind:       game.KindHold,
		HoldEnd:    hit.Add(duration),
		State:      game.StatePending,
	})
}

func (f *fixture) readingAt(at time.Time, snap game.Snapshot) {
	f.engine.now = func() time.Time { return at }
	f.engine.HandleReading(game.Pan, snap)
}

func (f *fixture) results() []notify.Result {
	var out []notify.Result
	for _, p := range f.rec.Named(notify.EventNoteResult) {
		out = append(out, p.(notify.Result))
	}
	return out
}

func TestTapHitWithinWindow(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addTap(hit)

	f.readingAt(hit.Add(2900*time.Millisecond), onTarget)

	results := f.results()
	if len(results) != 1 {
		t.Fatal("results", results)
	}
	r := results[0]
	if r.Result != "hit" || r.NoteType != "tap" || r.AccuracyMs != 2900 {
		t.Log("result", r)
		t.Fail()
	}
	if f.notes.Len() != 0 {
		t.Log("resolved tap should be pruned, len", f.notes.Len())
		t.Fail()
	}
}

func TestTapTooEarly(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addTap(hit)

	f.readingAt(hit.Add(-3*time.Second-time.Millisecond), onTarget)

	if results := f.results(); len(results) != 0 {
		t.Log("results", results)
		t.Fail()
	}
	if f.notes.Len() != 1 {
		t.Log("unjudged note must stay pending")
		t.Fail()
	}
}

func TestTapUnsatisfiedReadingDoesNothing(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addTap(hit)

	f.readingAt(hit, offBand)

	if results := f.results(); len(results) != 0 {
		t.Log("results", results)
		t.Fail()
	}
}

func TestTapJudgedExactlyOnce(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addTap(hit)

	f.readingAt(hit, onTarget)
	f.readingAt(hit.Add(10*time.Millisecond), onTarget)
	f.watchdog.Scan(hit.Add(4 * time.Second))

	results := f.results()
	if len(results) != 1 || results[0].Result != "hit" {
		t.Log("results", results)
		t.Fail()
	}
}

func TestWatchdogTapMiss(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addTap(hit)

	// Within the window nothing happens.
	f.watchdog.Scan(hit.Add(3 * time.Second))
	if results := f.results(); len(results) != 0 {
		t.Fatal("early scan emitted", results)
	}

	f.watchdog.Scan(hit.Add(3*time.Second + time.Millisecond))
	f.watchdog.Scan(hit.Add(4 * time.Second))

	results := f.results()
	if len(results) != 1 {
		t.Fatal("miss must be reported exactly once", results)
	}
	r := results[0]
	if r.Result != "miss" || r.NoteType != "tap" {
		t.Log("result", r)
		t.Fail()
	}
}

func TestHoldStartMaintainComplete(t *testing.T) {
	f := newFixture()
	hit := base.Add(5 * time.Second)
	f.addHold(hit, 2*time.Second)

	f.readingAt(hit, onTarget)
	results := f.results()
	if len(results) != 1 || results[0].Result != "hold_start" {
		t.Fatal("results", results)
	}

	// Maintenance samples while the condition stays true.
	f.readingAt(hit.Add(500*time.Millisecond), onTarget)
	f.readingAt(hit.Add(time.Second), onTarget)

	// Within grace of the end, still counts as complete.
	f.readingAt(hit.Add(2*time.Second+50*time.Millisecond), offBand)

	results = f.results()
	if len(results) != 2 {
		t.Fatal("results", results)
	}
	r := results[1]
	if r.Result != "hold_complete" || r.Duration != 2.0 {
		t.Log("result", r)
		t.Fail()
	}
	if f.notes.Len() != 0 {
		t.Log("completed hold should be pruned")
		t.Fail()
	}
}

func TestHoldBreakMidway(t *testing.T) {
	f := newFixture()
	hit := base.Add(5 * time.Second)
	f.addHold(hit, 2*time.Second)

	f.readingAt(hit, onTarget)
	f.readingAt(hit.Add(time.Second), offBand)

	results := f.results()
	if len(results) != 2 {
		t.Fatal("results", results)
	}
	r := results[1]
	if r.Result != "hold_break" {
		t.Log("result", r)
		t.Fail()
	}
	if r.HeldDuration != 1.0 || r.CompletionPercent != 50 {
		t.Log("held", r.HeldDuration, "percent", r.CompletionPercent)
		t.Fail()
	}
}

func TestHoldSamplingThrottle(t *testing.T) {
	f := newFixture()
	hit := base.Add(5 * time.Second)
	f.addHold(hit, 2*time.Second)

	f.readingAt(hit, onTarget)
	// A bad reading inside the check interval must not break the hold.
	f.readingAt(hit.Add(20*time.Millisecond), offBand)

	results := f.results()
	if len(results) != 1 {
		t.Log("results", results)
		t.Fail()
	}
	if f.notes.Len() != 1 {
		t.Log("hold must still be in flight")
		t.Fail()
	}
}

func TestHoldReleasedPastGrace(t *testing.T) {
	f := newFixture()
	hit := base.Add(5 * time.Second)
	f.addHold(hit, 2*time.Second)

	f.readingAt(hit, onTarget)
	f.readingAt(hit.Add(2*time.Second+200*time.Millisecond), offBand)

	results := f.results()
	if len(results) != 2 {
		t.Fatal("results", results)
	}
	r := results[1]
	if r.Result != "hold_break" || r.CompletionPercent != 99 {
		t.Log("result", r)
		t.Fail()
	}
}

func TestHoldTooEarlyDoesNotStart(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addHold(hit, 2*time.Second)

	f.readingAt(hit.Add(-4*time.Second), onTarget)

	if results := f.results(); len(results) != 0 {
		t.Log("results", results)
		t.Fail()
	}
}

func TestWatchdogHoldNeverStarted(t *testing.T) {
	f := newFixture()
	hit := base.Add(5 * time.Second)
	f.addHold(hit, 2*time.Second)

	f.watchdog.Scan(hit.Add(3*time.Second + time.Millisecond))
	f.watchdog.Scan(hit.Add(5 * time.Second))

	results := f.results()
	if len(results) != 1 {
		t.Fatal("results", results)
	}
	r := results[0]
	if r.Result != "miss" || r.NoteType != "hold" || r.ExpectedDuration != 2.0 {
		t.Log("result", r)
		t.Fail()
	}
}

func TestWatchdogLeavesActiveHoldAlone(t *testing.T) {
	f := newFixture()
	hit := base.Add(5 * time.Second)
	f.addHold(hit, 10*time.Second)

	f.readingAt(hit, onTarget)
	// Long past the start window, but the hold is being maintained.
	f.watchdog.Scan(hit.Add(4 * time.Second))

	results := f.results()
	if len(results) != 1 || results[0].Result != "hold_start" {
		t.Log("results", results)
		t.Fail()
	}
	if f.notes.Len() != 1 {
		t.Log("active hold must survive the watchdog")
		t.Fail()
	}
}

func TestReadingForOtherUtensilIgnored(t *testing.T) {
	f := newFixture()
	hit := base.Add(10 * time.Second)
	f.addTap(hit)

	f.engine.now = func() time.Time { return hit }
	f.engine.HandleReading(game.CuttingBoard, game.Snapshot{"1": float64(1)})

	if results := f.results(); len(results) != 0 {
		t.Log("results", results)
		t.Fail()
	}
}
