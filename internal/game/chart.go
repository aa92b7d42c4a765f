package game

import (
	"fmt"
	"sort"
	"time"
)

// Event is one immutable chart entry. Offset is relative to chart start; a
// zero Duration means a tap.
type Event struct {
	Offset     time.Duration
	Utensil    Utensil
	Instrument string
	Target     Target
	Duration   time.Duration
}

type Chart struct {
	BPM       float64
	Offset    time.Duration // applied to the playback start time
	MusicFile string
	Events    []Event
}

// TotalDuration is the end of the last event including its hold tail.
func (c *Chart) TotalDuration() time.Duration {
	var total time.Duration
	for _, e := range c.Events {
		if end := e.Offset + e.Duration; end > total {
			total = end
		}
	}
	return total
}

// Sort orders events by offset, keeping the load order of equal offsets.
func (c *Chart) Sort() {
	sort.SliceStable(c.Events, func(i, j int) bool {
		return c.Events[i].Offset < c.Events[j].Offset
	})
}

// Validate fails fast on charts that must not reach the scheduler.
func (c *Chart) Validate() error {
	if len(c.Events) == 0 {
		return fmt.Errorf("chart has no events")
	}
	for i, e := range c.Events {
		if e.Offset < 0 {
			return fmt.Errorf("event %d has negative offset %v", i, e.Offset)
		}
		if e.Duration < 0 {
			return fmt.Errorf("event %d has negative duration %v", i, e.Duration)
		}
		if _, err := ParseUtensil(string(e.Utensil)); nil != err {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}
