package chart

import (
	"testing"
	"time"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/queue"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/registry"
)

type nopScanner struct{}

func (nopScanner) Scan(time.Time) {}

func testConfig() Config {
	return Config{
		LeadTime:      30 * time.Millisecond,
		Tick:          2 * time.Millisecond,
		HoldThreshold: time.Second,
		JoinTimeout:   200 * time.Millisecond,
		SettleDelay:   5 * time.Millisecond,
	}
}

func newScheduler(rec *notify.Recorder, cfg Config) (*Scheduler, *registry.Notes, *registry.Bindings) {
	notes := registry.NewNotes()
	bindings := registry.NewBindings(map[game.Utensil]float64{game.Pan: 20})
	return New(notes, bindings, rec, nopScanner{}, cfg), notes, bindings
}

func testChart(offsets ...time.Duration) *game.Chart {
	c := &game.Chart{BPM: 120}
	for _, off := range offsets {
		c.Events = append(c.Events, game.Event{
			Offset:     off,
			Utensil:    game.Pan,
			Instrument: "piano",
			Target:     game.Target{Kind: game.TargetBand, Band: game.BandLow},
		})
	}
	return c
}

func TestStartRequiresChart(t *testing.T) {
	s, _, _ := newScheduler(&notify.Recorder{}, testConfig())
	if err := s.Start(nil); nil == err {
		t.Fail()
	}
	if err := s.Start(&game.Chart{}); nil == err {
		t.Log("empty chart must fail fast")
		t.Fail()
	}
}

func TestStartTwiceFails(t *testing.T) {
	s, _, _ := newScheduler(&notify.Recorder{}, testConfig())
	c := testChart(10 * time.Second)

	if err := s.Start(c); nil != err {
		t.Fatal(err)
	}
	defer s.Stop()

	if err := s.Start(c); nil == err {
		t.Log("second start must be rejected")
		t.Fail()
	}
}

func TestBuildSchedulesLeadTimeExactly(t *testing.T) {
	s, notes, _ := newScheduler(&notify.Recorder{}, testConfig())
	start := time.Unix(1700000000, 0)
	c := testChart(10 * time.Second)
	c.Events[0].Duration = 2 * time.Second

	visual, activation := s.build(c, start)

	hit := start.Add(10 * time.Second)
	if at, _ := visual.NextAt(); !at.Equal(hit.Add(-30 * time.Millisecond)) {
		t.Log("visual at", at)
		t.Fail()
	}
	if at, _ := activation.NextAt(); !at.Equal(hit) {
		t.Log("activation at", at)
		t.Fail()
	}

	snap := notes.Snapshot()
	if len(snap) != 1 {
		t.Fatal("registry", snap)
	}
	n := snap[0]
	if n.Kind != game.KindHold || !n.HoldEnd.Equal(hit.Add(2*time.Second)) || n.State != game.StatePending {
		t.Log("note", n)
		t.Fail()
	}
}

func TestBuildKeepsTapsBelowHoldThreshold(t *testing.T) {
	s, notes, _ := newScheduler(&notify.Recorder{}, testConfig())
	c := testChart(time.Second)
	c.Events[0].Duration = 500 * time.Millisecond // below the 1s threshold

	s.build(c, time.Unix(1700000000, 0))

	if n := notes.Snapshot()[0]; n.Kind != game.KindTap {
		t.Log("note", n)
		t.Fail()
	}
}

func TestPlaybackEmitsVisualThenActivation(t *testing.T) {
	rec := &notify.Recorder{}
	s, _, bindings := newScheduler(rec, testConfig())
	c := testChart(60 * time.Millisecond)

	if err := s.Start(c); nil != err {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for s.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	visuals := rec.Named(notify.EventChart)
	actives := rec.Named(notify.EventTargetActive)
	if len(visuals) != 1 || len(actives) != 1 {
		t.Fatal("visuals", visuals, "actives", actives)
	}

	cue := visuals[0].(notify.VisualCue)
	active := actives[0].(notify.TargetActive)
	if cue.EventTime != active.EventTime {
		t.Log("cue", cue.EventTime, "active", active.EventTime)
		t.Fail()
	}
	if cue.IsHold {
		t.Log("tap cue flagged as hold")
		t.Fail()
	}

	if _, ok := bindings.Lookup(game.Pan); !ok {
		t.Log("activation must set the binding")
		t.Fail()
	}
	if s.Running() {
		t.Log("loop must stop after both queues drain")
		t.Fail()
	}

	all := rec.All()
	if all[0].Event != notify.EventChart {
		t.Log("first emission", all[0].Event)
		t.Fail()
	}
}

func TestStopHaltsPlayback(t *testing.T) {
	rec := &notify.Recorder{}
	s, _, _ := newScheduler(rec, testConfig())
	c := testChart(10 * time.Second)

	if err := s.Start(c); nil != err {
		t.Fatal(err)
	}
	s.Stop()
	time.Sleep(20 * time.Millisecond)

	if s.Running() {
		t.Fail()
	}
	if emitted := rec.All(); len(emitted) != 0 {
		t.Log("emitted", emitted)
		t.Fail()
	}
}

func TestRestartResetsSharedState(t *testing.T) {
	rec := &notify.Recorder{}
	s, notes, bindings := newScheduler(rec, testConfig())
	c := testChart(10 * time.Second)

	if err := s.Start(c); nil != err {
		t.Fatal(err)
	}
	// Simulate state left over from the interrupted run.
	bindings.Activate(game.Pan, game.Target{Kind: game.TargetFlip})
	notes.Add(game.Note{Utensil: game.CuttingBoard, HitTime: time.Now(), State: game.StateHit})

	if err := s.Restart(c); nil != err {
		t.Fatal(err)
	}
	defer s.Stop()

	if _, ok := bindings.Lookup(game.Pan); ok {
		t.Log("bindings must be unset after restart")
		t.Fail()
	}
	if notes.Len() != len(c.Events) {
		t.Log("registry should hold exactly the rebuilt schedule, len", notes.Len())
		t.Fail()
	}
	if !s.Running() {
		t.Log("restart must leave playback running")
		t.Fail()
	}
}

func TestQueueDrainOrderStable(t *testing.T) {
	// Two events at the same instant keep chart order through the queue.
	q := queue.New[int]()
	at := time.Unix(1700000000, 0)
	q.Push(at, 1)
	q.Push(at, 2)
	due := q.PopDue(at)
	if len(due) != 2 || due[0] != 1 {
		t.Log("due", due)
		t.Fail()
	}
}
