package parser

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// ConvertSMF turns a standard MIDI file into a playback chart. Mapping target
// tables may key notes by name ("C4") or by MIDI number ("60").
func ConvertSMF(file string, mapping *Mapping) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read midi file: %w", err)
	}
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if nil != err {
		return nil, fmt.Errorf("unable to parse midi file: %w", err)
	}

	chart := &game.Chart{}

	for i, track := range s.Tracks {
		name := fmt.Sprintf("track-%d", i)
		instrument := ""

		// First pass for metadata, second for notes, so a late track name
		// still applies to early notes.
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			var text string
			var bpm float64
			switch {
			case ev.Message.GetMetaTrackName(&text):
				name = text
			case ev.Message.GetMetaInstrument(&text):
				instrument = text
			case ev.Message.GetMetaTempo(&bpm):
				if chart.BPM == 0 {
					chart.BPM = bpm
				}
			}
		}

		tm, mapped := mapping.Tracks[name]
		noteCount := countNotes(track)
		if noteCount == 0 {
			continue
		}
		if !mapped {
			return nil, fmt.Errorf("track %q has no utensil mapping", name)
		}
		utensil := game.Utensil(tm.Utensil)
		if instrument == "" {
			instrument = name
		}

		events, err := trackEvents(s, track, tm, utensil, instrument)
		if nil != err {
			return nil, fmt.Errorf("track %q: %w", name, err)
		}
		chart.Events = append(chart.Events, events...)
	}

	if err := chart.Validate(); nil != err {
		return nil, err
	}
	chart.Sort()
	return chart, nil
}

func countNotes(track smf.Track) int {
	var ch, key, vel uint8
	count := 0
	for _, ev := range track {
		if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
			count++
		}
	}
	return count
}

// trackEvents pairs note-on with the matching note-off per key and converts
// tick offsets to wall time.
func trackEvents(s *smf.SMF, track smf.Track, tm TrackMapping, utensil game.Utensil, instrument string) ([]game.Event, error) {
	var events []game.Event
	var absTicks int64
	open := make(map[uint8]int64) // key -> note-on absolute ticks

	emit := func(key uint8, onTicks, offTicks int64) error {
		target, err := smfTarget(tm, utensil, key)
		if nil != err {
			return err
		}
		onAt := time.Duration(s.TimeAt(onTicks)) * time.Microsecond
		offAt := time.Duration(s.TimeAt(offTicks)) * time.Microsecond
		events = append(events, game.Event{
			Offset:     onAt,
			Utensil:    utensil,
			Instrument: instrument,
			Target:     target,
			Duration:   offAt - onAt,
		})
		return nil
	}

	var ch, key, vel uint8
	for _, ev := range track {
		absTicks += int64(ev.Delta)
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
			open[key] = absTicks
		case ev.Message.GetNoteOff(&ch, &key, &vel),
			ev.Message.GetNoteOn(&ch, &key, &vel): // running status note-off
			onTicks, ok := open[key]
			if !ok {
				continue
			}
			delete(open, key)
			if err := emit(key, onTicks, absTicks); nil != err {
				return nil, err
			}
		}
	}
	return events, nil
}

func smfTarget(tm TrackMapping, utensil game.Utensil, key uint8) (game.Target, error) {
	word, ok := tm.Targets[midi.Note(key).String()]
	if !ok {
		word = tm.Targets[strconv.Itoa(int(key))]
	}
	return game.ParseTarget(utensil, word)
}
