package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// TrackMapping assigns a source track to a utensil and maps its note names
// onto target words. Notes without a target entry become cues with no
// condition, which can only be missed.
type TrackMapping struct {
	Utensil string            `yaml:"utensil"`
	Targets map[string]string `yaml:"targets"`
}

type Mapping struct {
	Tracks map[string]TrackMapping `yaml:"tracks"`
}

func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, fmt.Errorf("unable to read mapping: %w", err)
	}
	var m Mapping
	if err := yaml.Unmarshal(data, &m); nil != err {
		return nil, fmt.Errorf("unable to decode mapping: %w", err)
	}
	if len(m.Tracks) == 0 {
		return nil, fmt.Errorf("mapping %s defines no tracks", path)
	}
	for name, tm := range m.Tracks {
		if _, err := game.ParseUtensil(tm.Utensil); nil != err {
			return nil, fmt.Errorf("track %q: %w", name, err)
		}
	}
	return &m, nil
}

// target resolves a note name through the mapping for one track.
func (m *Mapping) target(track, note string) (game.Target, error) {
	tm, ok := m.Tracks[track]
	if !ok {
		return game.NoTarget, fmt.Errorf("track %q has no mapping", track)
	}
	utensil := game.Utensil(tm.Utensil)
	word := tm.Targets[note]
	return game.ParseTarget(utensil, word)
}
