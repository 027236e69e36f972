// Package level describes puzzle levels: the starting and target layouts,
// the move budget and the star thresholds. Levels are stored as YAML.
package level

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gookit/color"
	"github.com/zyedidia/generic/mapset"

	"fours/pkg/engine/board"
)

// ErrInvalidLevel wraps every validation failure.
var ErrInvalidLevel = errors.New("invalid level")

// InactiveColor is given to the slots a level leaves unspecified.
const InactiveColor = "#303030"

// Default move budget and star thresholds.
const (
	DefaultMovesAllowed = 10
	DefaultMaxStars     = 5
	DefaultMidStars     = 7
	DefaultMinStars     = 8
)

// Square is one cell of a layout.
type Square struct {
	Row      int    `yaml:"row"`
	Col      int    `yaml:"col"`
	Color    string `yaml:"color"`
	Inactive bool   `yaml:"inactive,omitempty"`
}

// Index returns the square's grid position.
func (s Square) Index() board.Index {
	return board.Index{Row: s.Row, Col: s.Col}
}

// Stars holds the move counts at or under which a finished level earns
// three, two and one star.
type Stars struct {
	Max int `yaml:"max"`
	Mid int `yaml:"mid"`
	Min int `yaml:"min"`
}

// Level is one puzzle.
type Level struct {
	Name         string   `yaml:"name"`
	Rows         int      `yaml:"rows"`
	Columns      int      `yaml:"columns"`
	MovesAllowed int      `yaml:"moves_allowed"`
	Stars        Stars    `yaml:"stars"`
	Initial      []Square `yaml:"initial"`
	Target       []Square `yaml:"target"`
}

// applyDefaults fills zero-valued budget fields.
func (l *Level) applyDefaults() {
	if l.MovesAllowed == 0 {
		l.MovesAllowed = DefaultMovesAllowed
	}
	if l.Stars == (Stars{}) {
		l.Stars = Stars{Max: DefaultMaxStars, Mid: DefaultMidStars, Min: DefaultMinStars}
	}
}

// FillWithInactive adds an inactive square for every slot of the layout
// that has none.
func (l *Level) FillWithInactive() {
	l.Initial = fill(l.Initial, l.Rows, l.Columns)
	l.Target = fill(l.Target, l.Rows, l.Columns)
}

func fill(squares []Square, rows, cols int) []Square {
	present := mapset.New[board.Index]()
	for _, s := range squares {
		present.Put(s.Index())
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := board.Index{Row: row, Col: col}
			if !present.Has(idx) {
				squares = append(squares, Square{Row: row, Col: col, Color: InactiveColor, Inactive: true})
			}
		}
	}
	return squares
}

// Validate checks the level is well formed: dimensions, budget, thresholds,
// squares inside the grid with valid colours and no duplicates, and a target
// reachable by rotation (same inactive slots, same active colours).
func (l *Level) Validate() error {
	if l.Rows < 2 || l.Columns < 2 {
		return fmt.Errorf("%w: %q must be at least 2x2, got %dx%d", ErrInvalidLevel, l.Name, l.Rows, l.Columns)
	}
	if l.MovesAllowed < 1 {
		return fmt.Errorf("%w: %q moves_allowed must be positive", ErrInvalidLevel, l.Name)
	}
	if l.Stars.Max > l.Stars.Mid || l.Stars.Mid > l.Stars.Min {
		return fmt.Errorf("%w: %q star thresholds must satisfy max <= mid <= min", ErrInvalidLevel, l.Name)
	}
	if len(l.Initial) == 0 {
		return fmt.Errorf("%w: %q has no initial squares", ErrInvalidLevel, l.Name)
	}

	if err := l.validateSquares("initial", l.Initial); err != nil {
		return err
	}
	if err := l.validateSquares("target", l.Target); err != nil {
		return err
	}
	return l.validateReachable()
}

func (l *Level) validateSquares(which string, squares []Square) error {
	seen := mapset.New[board.Index]()
	for _, s := range squares {
		if s.Row < 0 || s.Row >= l.Rows || s.Col < 0 || s.Col >= l.Columns {
			return fmt.Errorf("%w: %q %s square %v outside %dx%d grid", ErrInvalidLevel, l.Name, which, s.Index(), l.Rows, l.Columns)
		}
		if seen.Has(s.Index()) {
			return fmt.Errorf("%w: %q %s square %v given twice", ErrInvalidLevel, l.Name, which, s.Index())
		}
		seen.Put(s.Index())
		if len(color.Hex2rgb(s.Color)) != 3 {
			return fmt.Errorf("%w: %q %s square %v has bad colour %q", ErrInvalidLevel, l.Name, which, s.Index(), s.Color)
		}
	}
	return nil
}

func (l *Level) validateReachable() error {
	if len(l.Target) == 0 {
		return nil
	}

	initial := l.Clone()
	initial.FillWithInactive()

	inactive := func(squares []Square) mapset.Set[board.Index] {
		set := mapset.New[board.Index]()
		for _, s := range squares {
			if s.Inactive {
				set.Put(s.Index())
			}
		}
		return set
	}
	a, b := inactive(initial.Initial), inactive(initial.Target)
	same := a.Size() == b.Size()
	a.Each(func(idx board.Index) {
		if !b.Has(idx) {
			same = false
		}
	})
	if !same {
		return fmt.Errorf("%w: %q initial and target inactive squares differ", ErrInvalidLevel, l.Name)
	}

	counts := make(map[string]int)
	for _, s := range initial.Initial {
		if !s.Inactive {
			counts[s.Color]++
		}
	}
	for _, s := range initial.Target {
		if !s.Inactive {
			counts[s.Color]--
		}
	}
	for c, n := range counts {
		if n != 0 {
			return fmt.Errorf("%w: %q colour %s count differs between initial and target", ErrInvalidLevel, l.Name, c)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (l *Level) Clone() *Level {
	c := *l
	c.Initial = append([]Square(nil), l.Initial...)
	c.Target = append([]Square(nil), l.Target...)
	return &c
}

// StarsFor rates a level finished in movesUsed moves.
func (l *Level) StarsFor(movesUsed int) int {
	switch {
	case movesUsed <= l.Stars.Max:
		return 3
	case movesUsed <= l.Stars.Mid:
		return 2
	case movesUsed <= l.Stars.Min:
		return 1
	default:
		return 0
	}
}

// Grid builds the initial (target false) or target grid. Unspecified slots
// become inactive cells; squares are laid out in (row, col) order.
func (l *Level) Grid(target bool) (*board.Grid, error) {
	squares := l.Initial
	if target {
		squares = l.Target
	}
	squares = fill(append([]Square(nil), squares...), l.Rows, l.Columns)
	sort.Slice(squares, func(i, j int) bool {
		return squares[i].Index().Less(squares[j].Index())
	})

	cells := make([]*board.Cell, len(squares))
	for i, s := range squares {
		cells[i] = board.NewCell(s.Color, s.Inactive)
	}
	g, err := board.NewGrid(cells, l.Columns)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	return g, nil
}

// ActiveCount returns the number of active squares in the initial layout.
func (l *Level) ActiveCount() int {
	n := 0
	for _, s := range l.Initial {
		if !s.Inactive {
			n++
		}
	}
	return n
}
