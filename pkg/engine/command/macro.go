package command

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Macro runs a sequence of commands as one. Either every step succeeds or
// the steps that did succeed are undone in reverse order.
type Macro struct {
	once

	description string
	steps       []Command
	done        []Command
}

// NewMacro creates a macro with the given description.
func NewMacro(description string, steps ...Command) *Macro {
	return &Macro{description: description, steps: steps}
}

// Execute implements Command.
func (c *Macro) Execute(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}

	c.done = c.done[:0]
	for i, step := range c.steps {
		if err := step.Execute(ctx); err != nil {
			stepErr := fmt.Errorf("macro %q step %d (%s): %w", c.description, i+1, step.Description(), err)
			if rollbackErr := c.rollback(ctx); rollbackErr != nil {
				// Steps left applied are undone by a later Undo.
				c.executed = true
				return multierr.Append(stepErr, rollbackErr)
			}
			return stepErr
		}
		c.done = append(c.done, step)
	}

	c.executed = true
	return nil
}

// Undo implements Command.
func (c *Macro) Undo(ctx context.Context) error {
	if err := c.beginUndo(); err != nil {
		return err
	}
	if err := c.rollback(ctx); err != nil {
		return err
	}
	c.executed = false
	return nil
}

// rollback undoes the executed steps, last first. Steps whose undo failed
// stay recorded so a later Undo can retry them.
func (c *Macro) rollback(ctx context.Context) error {
	var errs error
	var failed []Command
	for i := len(c.done) - 1; i >= 0; i-- {
		step := c.done[i]
		if !step.CanUndo() {
			continue
		}
		if err := step.Undo(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("undo %s: %w", step.Description(), err))
			failed = append([]Command{step}, failed...)
		}
	}
	c.done = failed
	return errs
}

// Description implements Command.
func (c *Macro) Description() string {
	return c.description
}

// Len returns the number of steps.
func (c *Macro) Len() int {
	return len(c.steps)
}
