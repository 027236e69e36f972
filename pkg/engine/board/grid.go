package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned by Initialize for unusable grid parameters.
var ErrInvalidConfig = errors.New("invalid grid configuration")

// snapshotSeparator joins cell colours in Snapshot.
const snapshotSeparator = "|"

// Grid is the authoritative row-major matrix of cells. Its dimensions are
// fixed by Initialize; out-of-range access is absorbed, never panics.
type Grid struct {
	cells [][]*Cell
	rows  int
	cols  int
}

// NewGrid creates a grid from cells laid out row-major.
func NewGrid(cells []*Cell, columnsPerRow int) (*Grid, error) {
	g := &Grid{}
	if err := g.Initialize(cells, columnsPerRow); err != nil {
		return nil, err
	}
	return g, nil
}

// Initialize lays cells out row-major, columnsPerRow to a row. A nil entry
// leaves its slot empty. Each placed cell gets its Home index.
func (g *Grid) Initialize(cells []*Cell, columnsPerRow int) error {
	if columnsPerRow < 1 {
		return fmt.Errorf("%w: columns per row must be at least 1, got %d", ErrInvalidConfig, columnsPerRow)
	}
	if len(cells) == 0 {
		return fmt.Errorf("%w: no cells", ErrInvalidConfig)
	}

	g.cols = columnsPerRow
	g.rows = (len(cells) + columnsPerRow - 1) / columnsPerRow
	g.cells = make([][]*Cell, g.rows)
	for row := range g.cells {
		g.cells[row] = make([]*Cell, g.cols)
	}

	for i, cell := range cells {
		row, col := i/columnsPerRow, i%columnsPerRow
		if cell != nil {
			cell.Home = Index{Row: row, Col: col}
		}
		g.cells[row][col] = cell
	}
	return nil
}

// Rows returns the number of rows in the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns per row
func (g *Grid) Cols() int {
	return g.cols
}

// IsValidPosition checks if a row/col position is within grid bounds
func (g *Grid) IsValidPosition(row, col int) bool {
	return g.cells != nil && row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Get returns the cell at the given position, or nil if out of bounds or empty
func (g *Grid) Get(row, col int) *Cell {
	if !g.IsValidPosition(row, col) {
		return nil
	}
	return g.cells[row][col]
}

// GetIndex is Get for an Index.
func (g *Grid) GetIndex(i Index) *Cell {
	return g.Get(i.Row, i.Col)
}

// Set stores cell at the given position. Out of bounds is a no-op.
func (g *Grid) Set(row, col int, cell *Cell) {
	if !g.IsValidPosition(row, col) {
		return
	}
	g.cells[row][col] = cell
}

// IsValidGroupAt reports whether the 2x2 block whose top-left corner is
// (row, col) lies inside the grid and holds four active cells.
func (g *Grid) IsValidGroupAt(row, col int) bool {
	return g.Get(row, col).Active() &&
		g.Get(row, col+1).Active() &&
		g.Get(row+1, col).Active() &&
		g.Get(row+1, col+1).Active()
}

// UpdateWithGroup commits the (possibly permuted) handles of group back into
// the matrix at its top-left index. Nothing is written when the block at that
// index is not a valid group.
func (g *Grid) UpdateWithGroup(group *Group) {
	if group == nil {
		return
	}
	row, col := group.TopLeftIndex.Row, group.TopLeftIndex.Col
	if !g.IsValidGroupAt(row, col) {
		return
	}

	g.Set(row, col, group.TopLeft)
	g.Set(row, col+1, group.TopRight)
	g.Set(row+1, col+1, group.BottomRight)
	g.Set(row+1, col, group.BottomLeft)
}

// ForEachCell calls fn for every occupied slot in row-major order
func (g *Grid) ForEachCell(fn func(row, col int, cell *Cell)) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if cell := g.cells[row][col]; cell != nil {
				fn(row, col, cell)
			}
		}
	}
}

// Count returns the number of occupied slots.
func (g *Grid) Count() int {
	n := 0
	g.ForEachCell(func(int, int, *Cell) { n++ })
	return n
}

// Snapshot returns the order-dependent concatenation of every occupied
// cell's colour. Equal contents always give equal snapshots.
func (g *Grid) Snapshot() string {
	colors := make([]string, 0, g.rows*g.cols)
	g.ForEachCell(func(_, _ int, cell *Cell) {
		colors = append(colors, cell.Color)
	})
	return strings.Join(colors, snapshotSeparator)
}

// Matches reports whether the grid's snapshot equals snapshot.
func (g *Grid) Matches(snapshot string) bool {
	return g.Snapshot() == snapshot
}

func (g *Grid) String() string {
	if g.cells == nil {
		return "Grid is null"
	}

	var b strings.Builder
	b.WriteString("Grid Layout:\n")
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			b.WriteString(g.cells[row][col].Name())
			b.WriteByte('\t')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
