package command

import (
	"context"
	"errors"

	"fours/pkg/engine/board"
	"fours/pkg/engine/i18n"
)

// Selector owns the current group selection.
type Selector interface {
	Selected() *board.Group
	SetSelected(g *board.Group)
}

// Select changes the selection and remembers the one it replaced.
type Select struct {
	once

	selector Selector
	target   *board.Group
	previous *board.Group
}

// NewSelect creates a command selecting target (nil clears the selection).
func NewSelect(selector Selector, target *board.Group) (*Select, error) {
	if selector == nil {
		return nil, errors.New("select: nil selector")
	}
	return &Select{selector: selector, target: target}, nil
}

// Execute implements Command.
func (c *Select) Execute(context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.previous = c.selector.Selected()
	c.selector.SetSelected(c.target)
	c.executed = true
	return nil
}

// Undo implements Command.
func (c *Select) Undo(context.Context) error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	c.selector.SetSelected(c.previous)
	c.executed = false
	return nil
}

// Description implements Command.
func (c *Select) Description() string {
	if c.target == nil {
		return i18n.Tf("SELECT_GROUP", i18n.T("NONE"))
	}
	return i18n.Tf("SELECT_GROUP", c.target.TopLeftIndex.String())
}
