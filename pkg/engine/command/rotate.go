package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fours/pkg/engine/board"
	"fours/pkg/engine/i18n"
)

// ErrStaleGroup is returned when the grid no longer holds the group's cells
// where the group expects them.
var ErrStaleGroup = errors.New("group is stale")

// RotateGroup turns one group a quarter turn and commits the result to the
// grid. Undo turns it back the other way, animation included.
type RotateGroup struct {
	once

	group     *board.Group
	grid      *board.Grid
	direction board.Direction
	animator  board.Animator
	guard     sync.Locker
}

// NewRotateGroup creates a rotation of group on grid. animator may be nil.
func NewRotateGroup(group *board.Group, grid *board.Grid, dir board.Direction, animator board.Animator) (*RotateGroup, error) {
	if group == nil || grid == nil {
		return nil, errors.New("rotate group: nil group or grid")
	}
	if !dir.IsValid() {
		return nil, fmt.Errorf("rotate group: %w", board.ErrInvalidDirection)
	}
	return &RotateGroup{group: group, grid: grid, direction: dir, animator: animator}, nil
}

// Group returns the rotated group.
func (c *RotateGroup) Group() *board.Group {
	return c.group
}

// Direction returns the direction of the forward rotation.
func (c *RotateGroup) Direction() board.Direction {
	return c.direction
}

// SetGuard makes the grid commit run while holding l, so readers that take
// the same lock never see a half-written block.
func (c *RotateGroup) SetGuard(l sync.Locker) {
	c.guard = l
}

// Execute implements Command.
func (c *RotateGroup) Execute(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	if err := c.turn(ctx, c.direction); err != nil {
		return err
	}
	c.executed = true
	return nil
}

// Undo implements Command.
func (c *RotateGroup) Undo(ctx context.Context) error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	if err := c.turn(ctx, c.direction.Opposite()); err != nil {
		return err
	}
	c.executed = false
	return nil
}

func (c *RotateGroup) turn(ctx context.Context, dir board.Direction) error {
	if !c.group.Current(c.grid) {
		return fmt.Errorf("%w: %v", ErrStaleGroup, c.group.TopLeftIndex)
	}
	if err := c.group.Rotate(ctx, dir, c.animator); err != nil {
		return err
	}
	if c.guard != nil {
		c.guard.Lock()
		defer c.guard.Unlock()
	}
	c.grid.UpdateWithGroup(c.group)
	return nil
}

// Description implements Command.
func (c *RotateGroup) Description() string {
	return i18n.Tf("ROTATE_GROUP", c.group.TopLeftIndex.String(), directionName(c.direction))
}

func directionName(d board.Direction) string {
	if d == board.Clockwise {
		return i18n.T("DIRECTION_CLOCKWISE")
	}
	return i18n.T("DIRECTION_COUNTERCLOCKWISE")
}
