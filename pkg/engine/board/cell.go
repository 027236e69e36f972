// Package board provides the logical model of a tile-rotation puzzle: a
// row-major grid of cells, the overlapping 2x2 groups that can be rotated,
// and the two-phase rotation protocol (animate, then permute and commit).
package board

import "fmt"

// Index identifies a grid position. Ordering is lexicographic by (Row, Col).
type Index struct {
	Row int
	Col int
}

// Less reports whether i sorts before other in row-major order.
func (i Index) Less(other Index) bool {
	if i.Row != other.Row {
		return i.Row < other.Row
	}
	return i.Col < other.Col
}

func (i Index) String() string {
	return fmt.Sprintf("(%d, %d)", i.Row, i.Col)
}

// Point is a position in layout space. Used for animation only, never by
// the grid logic.
type Point struct {
	X float64
	Y float64
}

// Transform is the visual state of a cell as seen by a renderer.
type Transform struct {
	X     float64
	Y     float64
	Angle float64 // degrees
	Scale float64
}

// Position returns the translation part of the transform.
func (t Transform) Position() Point {
	return Point{X: t.X, Y: t.Y}
}

// Cell is a single tile on the board. Cells are owned by a Grid and shared by
// pointer with the groups built over it; they are never copied.
type Cell struct {
	Color    string
	Inactive bool

	// Home is where the level placed the cell. It does not change when the
	// cell is rotated to another slot.
	Home Index

	Transform Transform
}

// NewCell creates a cell with the given colour and an identity transform.
func NewCell(color string, inactive bool) *Cell {
	return &Cell{
		Color:     color,
		Inactive:  inactive,
		Transform: Transform{Scale: 1},
	}
}

// Name returns a short debug name for the cell based on its home slot.
func (c *Cell) Name() string {
	if c == nil {
		return "null"
	}
	return fmt.Sprintf("Square%v", c.Home)
}

// Active reports whether the cell can take part in a group.
func (c *Cell) Active() bool {
	return c != nil && !c.Inactive
}
