package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// toneMidi mirrors the pieces of a Tone.js MIDI dump the converter needs.
type toneMidi struct {
	Header struct {
		Tempos []struct {
			BPM float64 `json:"bpm"`
		} `json:"tempos"`
	} `json:"header"`
	Tracks []struct {
		Name       string `json:"name"`
		Instrument struct {
			Name string `json:"name"`
		} `json:"instrument"`
		Notes []struct {
			Name     string  `json:"name"`
			Time     float64 `json:"time"`
			Duration float64 `json:"duration"`
		} `json:"notes"`
	} `json:"tracks"`
}

// ConvertMIDIJSON turns a Tone.js MIDI dump into a playback chart using the
// track mapping. Tracks that carry notes must be mapped; anything else is a
// chart authoring error surfaced before playback.
func ConvertMIDIJSON(file string, mapping *Mapping) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read midi json: %w", err)
	}

	var tm toneMidi
	if err := json.Unmarshal(data, &tm); nil != err {
		return nil, fmt.Errorf("unable to decode midi json: %w", err)
	}
	if len(tm.Header.Tempos) == 0 {
		return nil, fmt.Errorf("midi json has no tempo header")
	}

	chart := &game.Chart{BPM: tm.Header.Tempos[0].BPM}
	for _, track := range tm.Tracks {
		if len(track.Notes) == 0 {
			continue
		}
		tmap, ok := mapping.Tracks[track.Name]
		if !ok {
			return nil, fmt.Errorf("track %q has no utensil mapping", track.Name)
		}
		utensil := game.Utensil(tmap.Utensil)

		for _, note := range track.Notes {
			target, err := mapping.target(track.Name, note.Name)
			if nil != err {
				return nil, fmt.Errorf("track %q note %q: %w", track.Name, note.Name, err)
			}
			chart.Events = append(chart.Events, game.Event{
				Offset:     seconds(note.Time),
				Utensil:    utensil,
				Instrument: track.Instrument.Name,
				Target:     target,
				Duration:   seconds(note.Duration),
			})
		}
	}
	if err := chart.Validate(); nil != err {
		return nil, err
	}

	chart.Sort()
	return chart, nil
}
