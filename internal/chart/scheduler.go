// Package chart drives playback: it turns a loaded chart into two time
// ordered queues and runs the tick loops that fire visual cues, activate
// targets, and let the watchdog sweep for misses.
package chart

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/queue"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/registry"
)

// countdownDuration covers the 3-2-1-GO preamble and the music start beat.
const countdownDuration = 5 * time.Second

type Config struct {
	LeadTime      time.Duration // how early visual cues fire
	Tick          time.Duration // scheduling latency floor
	HoldThreshold time.Duration // durations above this are holds
	JoinTimeout   time.Duration // bound on waiting for loops at restart
	SettleDelay   time.Duration // pause between teardown and fresh start
	Countdown     bool          // emit the 3-2-1-GO preamble
}

// Scanner is one watchdog pass; see judge.Watchdog.
type Scanner interface {
	Scan(now time.Time)
}

// Scheduler owns the playback lifecycle. Start, Stop and Restart are the only
// state-mutating entry points exposed to the host application.
type Scheduler struct {
	notes    *registry.Notes
	bindings *registry.Bindings
	sink     notify.Sink
	watchdog Scanner
	cfg      Config
	now      func() time.Time

	mu       sync.Mutex
	running  atomic.Bool
	loopDone chan struct{}
	scanDone chan struct{}
}

func New(notes *registry.Notes, bindings *registry.Bindings, sink notify.Sink, watchdog Scanner, cfg Config) *Scheduler {
	return &Scheduler{
		notes:    notes,
		bindings: bindings,
		sink:     sink,
		watchdog: watchdog,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Start validates the chart, builds both queues and the note registry, and
// launches the tick loop and the watchdog loop. It fails if the chart is
// absent or playback is already running, leaving no partial state behind.
func (s *Scheduler) Start(c *game.Chart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c == nil {
		return errors.New("no chart loaded")
	}
	if err := c.Validate(); nil != err {
		return fmt.Errorf("invalid chart: %w", err)
	}
	if s.running.Load() {
		return errors.New("chart already running")
	}

	start := s.now().Add(c.Offset)
	if s.cfg.Countdown {
		start = start.Add(countdownDuration)
	}
	visual, activation := s.build(c, start)

	s.running.Store(true)
	loopDone := make(chan struct{})
	scanDone := make(chan struct{})
	s.loopDone, s.scanDone = loopDone, scanDone
	go s.run(c, visual, activation, start, loopDone)
	go s.scan(scanDone)

	log.Info("playback started", "events", len(c.Events), "start", start)
	return nil
}

// Stop clears the running flag; both loops observe it on their next tick.
func (s *Scheduler) Stop() {
	s.running.Store(false)
	log.Info("stop requested")
}

// Restart tears playback down and starts the chart from the beginning. Join
// timeouts are warnings, not failures: a lingering loop cannot corrupt the
// fresh run because the registry is cleared only after the joins.
func (s *Scheduler) Restart(c *game.Chart) error {
	s.running.Store(false)

	s.mu.Lock()
	loopDone, scanDone := s.loopDone, s.scanDone
	s.mu.Unlock()

	if !join(loopDone, s.cfg.JoinTimeout) {
		log.Warn("chart loop did not stop within the join timeout")
	}
	if !join(scanDone, s.cfg.JoinTimeout) {
		log.Warn("watchdog loop did not stop within the join timeout")
	}

	s.notes.Clear()
	s.bindings.Reset()
	time.Sleep(s.cfg.SettleDelay)

	log.Info("restarting chart")
	return s.Start(c)
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// build fills both queues and the registry from the chart. Every event gets a
// visual entry at hit-LeadTime, an activation entry at hit, and one pending
// note.
func (s *Scheduler) build(c *game.Chart, start time.Time) (visual, activation *queue.Timed[game.Event]) {
	visual = queue.New[game.Event]()
	activation = queue.New[game.Event]()

	for _, e := range c.Events {
		hit := start.Add(e.Offset)
		visual.Push(hit.Add(-s.cfg.LeadTime), e)
		activation.Push(hit, e)

		n := game.Note{
			Utensil:    e.Utensil,
			Instrument: e.Instrument,
			Target:     e.Target,
			HitTime:    hit,
			Duration:   e.Duration,
			State:      game.StatePending,
		}
		if e.Duration > s.cfg.HoldThreshold {
			n.Kind = game.KindHold
			n.HoldEnd = hit.Add(e.Duration)
		}
		s.notes.Add(n)
	}
	return visual, activation
}

// run is the playback tick loop. Each iteration drains everything due from
// the visual queue, then from the activation queue, then sleeps one tick, so
// an emission may lag its scheduled time by up to one tick.
func (s *Scheduler) run(c *game.Chart, visual, activation *queue.Timed[game.Event], start time.Time, done chan struct{}) {
	defer close(done)

	if s.cfg.Countdown {
		s.countdown(c, start)
	}

	for s.running.Load() && (visual.Len() > 0 || activation.Len() > 0) {
		now := s.now()

		for _, e := range visual.PopDue(now) {
			hit := start.Add(e.Offset)
			s.sink.Emit(notify.EventChart, notify.VisualCue{
				Instrument: e.Instrument,
				Utensil:    string(e.Utensil),
				Target:     e.Target.String(),
				EventTime:  notify.UnixSeconds(hit),
				ServerTime: notify.UnixSeconds(now),
				Duration:   e.Duration.Seconds(),
				IsHold:     e.Duration > s.cfg.HoldThreshold,
			})
			log.Debug("visual cue", "utensil", e.Utensil, "target", e.Target)
		}

		for _, e := range activation.PopDue(now) {
			hit := start.Add(e.Offset)
			s.bindings.Activate(e.Utensil, e.Target)
			s.sink.Emit(notify.EventTargetActive, notify.TargetActive{
				Utensil:    string(e.Utensil),
				Instrument: e.Instrument,
				Target:     e.Target.String(),
				EventTime:  notify.UnixSeconds(hit),
			})
			log.Debug("target active", "utensil", e.Utensil, "target", e.Target)
		}

		time.Sleep(s.cfg.Tick)
	}

	s.running.Store(false)
	log.Info("playback finished")
}

// scan is the watchdog loop, independent of the playback loop but bound to
// the same running flag and tick interval.
func (s *Scheduler) scan(done chan struct{}) {
	defer close(done)
	for s.running.Load() {
		s.watchdog.Scan(s.now())
		time.Sleep(s.cfg.Tick)
	}
}

func (s *Scheduler) countdown(c *game.Chart, start time.Time) {
	for _, count := range []string{"3", "2", "1"} {
		if !s.running.Load() {
			return
		}
		s.sink.Emit(notify.EventCountdown, notify.Countdown{Count: count})
		time.Sleep(time.Second)
	}
	s.sink.Emit(notify.EventCountdown, notify.Countdown{Count: "GO"})
	time.Sleep(time.Second)

	if c.MusicFile != "" {
		s.sink.Emit(notify.EventPlayMusic, notify.PlayMusic{
			MusicFile: c.MusicFile,
			StartTime: notify.UnixSeconds(start),
		})
		log.Info("music start", "file", c.MusicFile)
	}
	time.Sleep(time.Second)
}

func join(done chan struct{}, timeout time.Duration) bool {
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
