// Package audio plays each utensil's sound while its active condition holds:
// the pan sizzle loops, the others are one-shots. Decoded buffers are cached
// so repeated triggers never touch the disk.
package audio

import (
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// Rule is one utensil's sound configuration.
type Rule struct {
	File string
	Loop bool
}

type channel struct {
	ctrl    *beep.Ctrl
	playing bool
}

type Manager struct {
	mu       sync.Mutex
	rules    map[game.Utensil]Rule
	buffers  map[string]*beep.Buffer
	channels map[game.Utensil]*channel
	rate     beep.SampleRate
}

func NewManager(rules map[game.Utensil]Rule) *Manager {
	return &Manager{
		rules:    rules,
		buffers:  make(map[string]*beep.Buffer),
		channels: make(map[game.Utensil]*channel),
	}
}

// Init opens the speaker and preloads every configured sound. A missing
// sound file fails init; a silent game is a setup error.
func (m *Manager) Init() error {
	m.rate = beep.SampleRate(44100)
	if err := speaker.Init(m.rate, m.rate.N(time.Second/10)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	for u, rule := range m.rules {
		if _, err := m.buffer(rule.File); nil != err {
			return fmt.Errorf("sound for %s: %w", u, err)
		}
	}
	return nil
}

func (m *Manager) buffer(file string) (*beep.Buffer, error) {
	if buf, ok := m.buffers[file]; ok {
		return buf, nil
	}

	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch path.Ext(file) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		streamer, format, err = mp3.Decode(f)
	}
	if nil != err {
		return nil, fmt.Errorf("unable to decode %s: %w", file, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(beep.Resample(4, format.SampleRate, m.rate, streamer))
	m.buffers[file] = buf
	return buf, nil
}

// Update starts or stops a utensil's sound as its condition flips. Called per
// sensor reading while a target is active.
func (m *Manager) Update(u game.Utensil, satisfied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rule, ok := m.rules[u]
	if !ok {
		return
	}
	ch := m.channels[u]
	if ch == nil {
		ch = &channel{}
		m.channels[u] = ch
	}

	switch {
	case satisfied && !ch.playing:
		buf, err := m.buffer(rule.File)
		if nil != err {
			log.Warn("unable to load sound", "utensil", u, "err", err)
			return
		}
		var streamer beep.Streamer = buf.Streamer(0, buf.Len())
		if rule.Loop {
			streamer = loop(buf)
		}
		ch.ctrl = &beep.Ctrl{Streamer: streamer}
		ch.playing = true
		speaker.Play(ch.ctrl)
		log.Debug("sound started", "utensil", u, "file", rule.File)

	case !satisfied && ch.playing:
		speaker.Lock()
		if ch.ctrl != nil {
			ch.ctrl.Paused = true
			ch.ctrl.Streamer = nil
		}
		speaker.Unlock()
		ch.playing = false
		log.Debug("sound stopped", "utensil", u)
	}
}

// StopAll silences every channel, used at shutdown and restart.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	speaker.Lock()
	for _, ch := range m.channels {
		if ch.ctrl != nil {
			ch.ctrl.Paused = true
			ch.ctrl.Streamer = nil
		}
		ch.playing = false
	}
	speaker.Unlock()
}

func loop(buf *beep.Buffer) beep.Streamer {
	return beep.Loop(-1, buf.Streamer(0, buf.Len()))
}
