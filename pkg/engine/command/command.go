// Package command implements reversible gameplay actions and the bounded
// undo/redo history that runs them.
package command

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyExecuted is returned by Execute on a command that has run and
	// not been undone since.
	ErrAlreadyExecuted = errors.New("command already executed")
	// ErrNotExecuted is returned by Undo on a command that has not run.
	ErrNotExecuted = errors.New("command not executed")
)

// Command is a reversible unit of gameplay mutation. Execute and Undo may
// block (a rotation waits for its animation) and should honour ctx.
type Command interface {
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
	CanUndo() bool
	Description() string
}

// once tracks the executed flag shared by every command in this package.
type once struct {
	executed bool
}

func (o *once) begin() error {
	if o.executed {
		return ErrAlreadyExecuted
	}
	return nil
}

func (o *once) beginUndo() error {
	if !o.executed {
		return ErrNotExecuted
	}
	return nil
}

// CanUndo reports whether the command has run and not been undone.
func (o *once) CanUndo() bool {
	return o.executed
}
