package generator

import (
	"math/rand"

	"fours/pkg/game/level"
)

// BlocksGenerator fills the target with solid 2x2 blocks. An odd last row
// or column takes the colour of the block beside it.
type BlocksGenerator struct{}

// Name returns the generator name
func (g *BlocksGenerator) Name() string {
	return "blocks"
}

// Target implements LevelGenerator.
func (g *BlocksGenerator) Target(rng *rand.Rand, p Params) []level.Square {
	colors := pick(rng, p.Colors)
	blockCols := p.Columns / 2

	squares := make([]level.Square, 0, p.Rows*p.Columns)
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Columns; col++ {
			br, bc := min(row/2, p.Rows/2-1), min(col/2, p.Columns/2-1)
			block := br*blockCols + bc
			squares = append(squares, level.Square{Row: row, Col: col, Color: colors[block%len(colors)]})
		}
	}
	return squares
}

// pick returns n palette colours in random order.
func pick(rng *rand.Rand, n int) []string {
	colors := make([]string, 0, n)
	for _, i := range rng.Perm(len(Palette))[:n] {
		colors = append(colors, Palette[i])
	}
	return colors
}
