package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidDirection is returned when a rotation is requested with an
// unknown Direction value.
var ErrInvalidDirection = errors.New("invalid rotation direction")

// Group is a snapshot of one 2x2 block of the grid. It holds the four cell
// handles and can rotate them, but it is not a live view: after a commit or a
// rescan the grid may no longer agree with it (see Current).
type Group struct {
	ID           uuid.UUID
	TopLeftIndex Index

	TopLeft     *Cell
	TopRight    *Cell
	BottomLeft  *Cell
	BottomRight *Cell

	// Center is the centroid of the four cell positions when the group was
	// built. It is the pivot for the visual phase of a rotation.
	Center Point
}

// GroupAt builds the group whose top-left corner is (row, col), or returns
// nil when the block there is not a valid group.
func GroupAt(g *Grid, row, col int) *Group {
	if g == nil || !g.IsValidGroupAt(row, col) {
		return nil
	}

	group := &Group{
		ID:           uuid.New(),
		TopLeftIndex: Index{Row: row, Col: col},
		TopLeft:      g.Get(row, col),
		TopRight:     g.Get(row, col+1),
		BottomLeft:   g.Get(row+1, col),
		BottomRight:  g.Get(row+1, col+1),
	}
	group.Center = centroid(group.Cells())
	return group
}

func centroid(cells []*Cell) Point {
	var p Point
	for _, c := range cells {
		p.X += c.Transform.X
		p.Y += c.Transform.Y
	}
	n := float64(len(cells))
	return Point{X: p.X / n, Y: p.Y / n}
}

// Cells returns the four handles in clockwise order starting at the top-left
// slot: TopLeft, TopRight, BottomRight, BottomLeft.
func (g *Group) Cells() []*Cell {
	return []*Cell{g.TopLeft, g.TopRight, g.BottomRight, g.BottomLeft}
}

// Contains reports whether c is one of the group's handles.
func (g *Group) Contains(c *Cell) bool {
	for _, cell := range g.Cells() {
		if cell == c {
			return true
		}
	}
	return false
}

// Current reports whether grid still holds this group's handles in the same
// slots, i.e. whether the snapshot is safe to rotate and commit.
func (g *Group) Current(grid *Grid) bool {
	if grid == nil {
		return false
	}
	row, col := g.TopLeftIndex.Row, g.TopLeftIndex.Col
	return grid.IsValidGroupAt(row, col) &&
		grid.Get(row, col) == g.TopLeft &&
		grid.Get(row, col+1) == g.TopRight &&
		grid.Get(row+1, col) == g.BottomLeft &&
		grid.Get(row+1, col+1) == g.BottomRight
}

// Permute moves the four handles one step in dir. This is the logical half
// of a rotation; it touches no transforms.
func (g *Group) Permute(dir Direction) error {
	switch dir {
	case Clockwise:
		g.TopLeft, g.TopRight, g.BottomRight, g.BottomLeft =
			g.BottomLeft, g.TopLeft, g.TopRight, g.BottomRight
	case CounterClockwise:
		g.TopLeft, g.TopRight, g.BottomRight, g.BottomLeft =
			g.TopRight, g.BottomRight, g.BottomLeft, g.TopLeft
	default:
		return fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	return nil
}

// Rotate runs the two phases of a quarter turn. The visual phase is delegated
// to animator (nil means no animation) and blocks until it completes or ctx
// is done. Only a completed animation is followed by Permute; a cancelled one
// returns the context error and leaves the handles untouched.
//
// Callers must not run two rotations over the same grid region at once.
func (g *Group) Rotate(ctx context.Context, dir Direction, animator Animator) error {
	if !dir.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if animator != nil {
		err := animator.Animate(ctx, Animation{
			Cells:   g.Cells(),
			Pivot:   g.Center,
			Degrees: dir.Degrees(),
		})
		if err != nil {
			return err
		}
	}

	return g.Permute(dir)
}

func (g *Group) String() string {
	return fmt.Sprintf("TopLeft(%s), TopRight(%s), BottomLeft(%s), BottomRight(%s) at Index%v",
		g.TopLeft.Name(), g.TopRight.Name(), g.BottomLeft.Name(), g.BottomRight.Name(), g.TopLeftIndex)
}
