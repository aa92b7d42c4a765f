// Package sim publishes synthetic sensor readings from the keyboard, standing
// in for the hardware publishers when playing without the physical props.
package sim

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

// Publisher sends one reading over the bus; bus.Client satisfies it.
type Publisher interface {
	Publish(u game.Utensil, snap game.Snapshot) error
}

type Config struct {
	Interval time.Duration // publish cadence
	CenterX  float64
	CenterY  float64
	Edge     float64
	Bands    map[game.Band]float64
}

// Run drives one utensil until q or escape is pressed.
//
// pan:           l/m/h jump rotation to the low/medium/high band, r rests,
//                space toggles contact
// cutting_board: 1-4 press a button for one reading
// mixing_bowl:   arrow keys push the stick past an edge, c recenters
func Run(pub Publisher, u game.Utensil, cfg Config) error {
	keys, err := keyboard.GetKeys(64)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Warn("unable to close keyboard", "err", err)
		}
	}()

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); nil == err && w > 0 {
		width = w
	}

	s := state{
		rotation: 0,
		x:        cfg.CenterX,
		y:        cfg.CenterY,
		buttons:  make(map[string]bool),
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("simulator running", "utensil", u, "interval", cfg.Interval)
	for {
		select {
		case key := <-keys:
			if key.Key == keyboard.KeyEsc || key.Rune == 'q' {
				return nil
			}
			s.apply(u, key, cfg)

		case <-ticker.C:
			snap := s.snapshot(u)
			if err := pub.Publish(u, snap); nil != err {
				return fmt.Errorf("unable to publish reading: %w", err)
			}
			s.afterPublish()
			printStatus(u, snap, width)
		}
	}
}

type state struct {
	rotation float64
	contact  bool
	x, y     float64
	buttons  map[string]bool
}

func (s *state) apply(u game.Utensil, key keyboard.KeyEvent, cfg Config) {
	switch u {
	case game.Pan:
		switch key.Rune {
		case 'l':
			s.rotation = cfg.Bands[game.BandLow]
		case 'm':
			s.rotation = cfg.Bands[game.BandMedium]
		case 'h':
			s.rotation = cfg.Bands[game.BandHigh]
		case 'r':
			s.rotation = 0
		}
		if key.Key == keyboard.KeySpace {
			s.contact = !s.contact
		}

	case game.CuttingBoard:
		switch key.Rune {
		case '1', '2', '3', '4':
			s.buttons[string(key.Rune)] = true
		}

	case game.MixingBowl:
		push := cfg.Edge + 50
		switch key.Key {
		case keyboard.KeyArrowLeft:
			s.x, s.y = cfg.CenterX-push, cfg.CenterY
		case keyboard.KeyArrowRight:
			s.x, s.y = cfg.CenterX+push, cfg.CenterY
		case keyboard.KeyArrowUp:
			s.x, s.y = cfg.CenterX, cfg.CenterY-push
		case keyboard.KeyArrowDown:
			s.x, s.y = cfg.CenterX, cfg.CenterY+push
		}
		if key.Rune == 'c' {
			s.x, s.y = cfg.CenterX, cfg.CenterY
		}
	}
}

func (s *state) snapshot(u game.Utensil) game.Snapshot {
	switch u {
	case game.Pan:
		return game.Snapshot{"rotation": s.rotation, "contact": s.contact}
	case game.CuttingBoard:
		snap := game.Snapshot{}
		for id, down := range s.buttons {
			if down {
				snap[id] = 1
			} else {
				snap[id] = 0
			}
		}
		return snap
	case game.MixingBowl:
		return game.Snapshot{"x": s.x, "y": s.y}
	}
	return game.Snapshot{}
}

// afterPublish releases one-shot button presses so each key press spans a
// single reading.
func (s *state) afterPublish() {
	for id := range s.buttons {
		s.buttons[id] = false
	}
}

func printStatus(u game.Utensil, snap game.Snapshot, width int) {
	line := fmt.Sprintf("\r%-14s %v", u, snap)
	if len(line) > width {
		line = line[:width]
	}
	fmt.Print(line)
}
