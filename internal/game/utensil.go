package game

import "fmt"

// Utensil identifies a physical controller. Values match the wire names used by
// the sensor publishers.
type Utensil string

const (
	Pan          Utensil = "pan"
	CuttingBoard Utensil = "cutting_board"
	MixingBowl   Utensil = "mixing_bowl"
)

var Utensils = []Utensil{Pan, CuttingBoard, MixingBowl}

func ParseUtensil(s string) (Utensil, error) {
	switch Utensil(s) {
	case Pan, CuttingBoard, MixingBowl:
		return Utensil(s), nil
	}
	return "", fmt.Errorf("unknown utensil %q", s)
}
