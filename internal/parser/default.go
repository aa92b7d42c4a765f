// Package parser loads rhythm charts. The playback format is a JSON file of
// timed utensil events; converters produce it from a Tone.js MIDI dump or a
// standard MIDI file plus a track-to-utensil mapping.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

type chartFile struct {
	BPM       float64     `json:"bpm"`
	Offset    float64     `json:"offset"`
	MusicFile string      `json:"music_file"`
	Events    []eventFile `json:"events"`
}

type eventFile struct {
	Time       float64 `json:"time"`
	Utensil    string  `json:"utensil"`
	Instrument string  `json:"instrument"`
	Target     string  `json:"target"`
	Duration   float64 `json:"duration"`
}

type DefaultParser struct{}

// Parse loads a prepared rhythm chart. Any malformed record fails the whole
// load; a broken chart must never reach the scheduler.
func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read chart: %w", err)
	}

	var cf chartFile
	if err := json.Unmarshal(data, &cf); nil != err {
		return nil, fmt.Errorf("unable to decode chart: %w", err)
	}

	chart := &game.Chart{
		BPM:       cf.BPM,
		Offset:    seconds(cf.Offset),
		MusicFile: cf.MusicFile,
	}
	for i, e := range cf.Events {
		utensil, err := game.ParseUtensil(e.Utensil)
		if nil != err {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		target, err := game.ParseTarget(utensil, e.Target)
		if nil != err {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if e.Time < 0 {
			return nil, fmt.Errorf("event %d has negative time %v", i, e.Time)
		}
		chart.Events = append(chart.Events, game.Event{
			Offset:     seconds(e.Time),
			Utensil:    utensil,
			Instrument: e.Instrument,
			Target:     target,
			Duration:   seconds(e.Duration),
		})
	}
	if err := chart.Validate(); nil != err {
		return nil, err
	}

	chart.Sort()
	return chart, nil
}

// Save writes a chart back out in the playback format.
func Save(chart *game.Chart, path string) error {
	cf := chartFile{
		BPM:       chart.BPM,
		Offset:    chart.Offset.Seconds(),
		MusicFile: chart.MusicFile,
	}
	for _, e := range chart.Events {
		cf.Events = append(cf.Events, eventFile{
			Time:       e.Offset.Seconds(),
			Utensil:    string(e.Utensil),
			Instrument: e.Instrument,
			Target:     e.Target.String(),
			Duration:   e.Duration.Seconds(),
		})
	}
	data, err := json.MarshalIndent(cf, "", "  ")
	if nil != err {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
