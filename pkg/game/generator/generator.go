// Package generator builds random levels. A generator draws the target
// pattern; the pattern is then scrambled with random quarter turns, so every
// generated level can be solved by turning them back.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"fours/pkg/engine/board"
	"fours/pkg/game/level"
)

// ErrInvalidParams is returned for parameters no level can be built from.
var ErrInvalidParams = errors.New("invalid generator parameters")

// Palette is the set of colours generated levels draw from.
var Palette = []string{"#e74c3c", "#2ecc71", "#3498db", "#f1c40f", "#9b59b6", "#e67e22"}

// LevelGenerator is an interface for target pattern algorithms
type LevelGenerator interface {
	// Target returns the solved layout for p. Slots left out are inactive.
	Target(rng *rand.Rand, p Params) []level.Square
	Name() string
}

// Available generators
var (
	Blocks  = &BlocksGenerator{}
	Stripes = &StripesGenerator{}
)

// DefaultGenerator is the default pattern generator
var DefaultGenerator LevelGenerator = Blocks

// ByName returns the generator called name.
func ByName(name string) (LevelGenerator, bool) {
	for _, g := range []LevelGenerator{Blocks, Stripes} {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// Params sizes a generated level.
type Params struct {
	Name     string
	Rows     int
	Columns  int
	Colors   int // how many palette colours to use
	Scramble int // random quarter turns applied to the target
	Holes    int // inactive slots
}

// DefaultParams is a small level a new player can finish.
var DefaultParams = Params{Name: "Random", Rows: 4, Columns: 4, Colors: 4, Scramble: 3}

func (p Params) validate() error {
	switch {
	case p.Rows < 2 || p.Columns < 2:
		return fmt.Errorf("%w: grid must be at least 2x2, got %dx%d", ErrInvalidParams, p.Rows, p.Columns)
	case p.Colors < 2 || p.Colors > len(Palette):
		return fmt.Errorf("%w: colors must be between 2 and %d, got %d", ErrInvalidParams, len(Palette), p.Colors)
	case p.Scramble < 1:
		return fmt.Errorf("%w: scramble must be positive, got %d", ErrInvalidParams, p.Scramble)
	case p.Holes < 0 || p.Holes > p.Rows*p.Columns-4:
		return fmt.Errorf("%w: %d holes do not fit a %dx%d grid", ErrInvalidParams, p.Holes, p.Rows, p.Columns)
	}
	return nil
}

// maxExtraTurns bounds the turns added when a scramble leaves the target
// unchanged.
const maxExtraTurns = 64

// Step is one quarter turn applied while scrambling.
type Step struct {
	At  board.Index
	Dir board.Direction
}

// Generate builds a level with gen's target pattern scrambled by
// p.Scramble turns. It returns the turns applied, in order.
func Generate(rng *rand.Rand, gen LevelGenerator, p Params) (*level.Level, []Step, error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}

	l := &level.Level{
		Name:    p.Name,
		Rows:    p.Rows,
		Columns: p.Columns,
		Target:  punchHoles(rng, gen.Target(rng, p), p),
	}
	l.Initial = l.Target

	grid, err := l.Grid(true)
	if err != nil {
		return nil, nil, err
	}
	if len(board.FindGroups(grid)) == 0 {
		return nil, nil, fmt.Errorf("%w: no group left to turn", ErrInvalidParams)
	}
	target := grid.Snapshot()

	steps := scramble(rng, grid, p.Scramble)
	// A scramble can cancel itself out; keep turning until the board differs.
	for extra := 0; grid.Matches(target); extra++ {
		if extra == maxExtraTurns {
			return nil, nil, fmt.Errorf("%w: %s pattern does not change when turned", ErrInvalidParams, gen.Name())
		}
		steps = append(steps, scramble(rng, grid, 1)...)
	}

	l.Initial = squaresOf(grid)
	l.MovesAllowed = len(steps) + 5
	l.Stars = level.Stars{Max: len(steps), Mid: len(steps) + 2, Min: len(steps) + 4}
	if err := l.Validate(); err != nil {
		return nil, nil, err
	}
	return l, steps, nil
}

// Pack generates count levels of rising difficulty starting from p.
func Pack(rng *rand.Rand, gen LevelGenerator, p Params, count int) ([]*level.Level, error) {
	levels := make([]*level.Level, 0, count)
	for i := 0; i < count; i++ {
		lp := p
		lp.Name = fmt.Sprintf("%s %d", p.Name, i+1)
		lp.Scramble = p.Scramble + i
		l, _, err := Generate(rng, gen, lp)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, nil
}

// scramble applies n random quarter turns to grid, never undoing the
// previous turn straight away.
func scramble(rng *rand.Rand, grid *board.Grid, n int) []Step {
	steps := make([]Step, 0, n)
	for len(steps) < n {
		groups := board.FindGroups(grid)
		group := groups[rng.Intn(len(groups))]
		step := Step{At: group.TopLeftIndex, Dir: board.AllDirections()[rng.Intn(2)]}
		if len(groups) > 1 && len(steps) > 0 && steps[len(steps)-1] == (Step{At: step.At, Dir: step.Dir.Opposite()}) {
			continue
		}
		_ = group.Permute(step.Dir)
		grid.UpdateWithGroup(group)
		steps = append(steps, step)
	}
	return steps
}

// punchHoles removes p.Holes random squares. Holes that would leave the
// board without a group are skipped.
func punchHoles(rng *rand.Rand, squares []level.Square, p Params) []level.Square {
	for i := 0; i < p.Holes; i++ {
		for _, idx := range rng.Perm(len(squares)) {
			rest := append(append([]level.Square(nil), squares[:idx]...), squares[idx+1:]...)
			if hasGroup(rest, p.Rows, p.Columns) {
				squares = rest
				break
			}
		}
	}
	return squares
}

func hasGroup(squares []level.Square, rows, cols int) bool {
	l := &level.Level{Rows: rows, Columns: cols, Target: squares}
	grid, err := l.Grid(true)
	return err == nil && len(board.FindGroups(grid)) > 0
}

// squaresOf reads the active cells of grid back into squares.
func squaresOf(grid *board.Grid) []level.Square {
	var out []level.Square
	grid.ForEachCell(func(row, col int, cell *board.Cell) {
		if cell.Active() {
			out = append(out, level.Square{Row: row, Col: col, Color: cell.Color})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Index().Less(out[j].Index()) })
	return out
}
