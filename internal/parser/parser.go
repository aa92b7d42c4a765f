package parser

import "github.com/chenyingyu-main/IDD-Final-Project/internal/game"

type Parser interface {
	Parse(file string) (*game.Chart, error)
}
