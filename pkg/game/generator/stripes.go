package generator

import (
	"math/rand"

	"fours/pkg/game/level"
)

// StripesGenerator paints each row of the target one colour, cycling
// through the chosen colours.
type StripesGenerator struct{}

// Name returns the generator name
func (g *StripesGenerator) Name() string {
	return "stripes"
}

// Target implements LevelGenerator.
func (g *StripesGenerator) Target(rng *rand.Rand, p Params) []level.Square {
	colors := pick(rng, p.Colors)

	squares := make([]level.Square, 0, p.Rows*p.Columns)
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Columns; col++ {
			squares = append(squares, level.Square{Row: row, Col: col, Color: colors[row%len(colors)]})
		}
	}
	return squares
}
