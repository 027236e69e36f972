package command

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errFake = errors.New("fake failure")

// fakeCommand appends to a shared log and can be told to fail.
type fakeCommand struct {
	once
	name       string
	log        *[]string
	failExec   bool
	failUndo   bool
	refuseUndo bool
	started    chan struct{}
	block      chan struct{}
}

func (f *fakeCommand) Execute(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}
	if f.block != nil {
		close(f.started)
		<-f.block
	}
	if f.failExec {
		return errFake
	}
	*f.log = append(*f.log, "do "+f.name)
	f.executed = true
	return nil
}

func (f *fakeCommand) Undo(ctx context.Context) error {
	if err := f.beginUndo(); err != nil {
		return err
	}
	if f.failUndo {
		return errFake
	}
	*f.log = append(*f.log, "undo "+f.name)
	f.executed = false
	return nil
}

func (f *fakeCommand) CanUndo() bool {
	return !f.refuseUndo && f.once.CanUndo()
}

func (f *fakeCommand) Description() string { return f.name }

func newManager(t *testing.T, max int) (*Manager, *[]string) {
	t.Helper()
	return NewManager(max, zaptest.NewLogger(t)), &[]string{}
}

func TestExecute_PushesAndClearsRedo(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 0)
	assert.Equal(t, DefaultMaxHistory, m.MaxHistory())

	var executed []string
	m.OnExecuted = func(c Command) { executed = append(executed, c.Description()) }

	require.True(t, m.Execute(ctx, &fakeCommand{name: "a", log: log}))
	require.True(t, m.Execute(ctx, &fakeCommand{name: "b", log: log}))
	require.True(t, m.Undo(ctx))
	assert.Equal(t, 1, m.RedoCount())

	require.True(t, m.Execute(ctx, &fakeCommand{name: "c", log: log}))
	assert.Zero(t, m.RedoCount(), "a new command invalidates redo")
	assert.Equal(t, []string{"c", "a"}, m.UndoHistory(10))
	assert.Equal(t, []string{"a", "b", "c"}, executed)
}

func TestExecute_NilAndFailure(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 5)

	assert.False(t, m.Execute(ctx, nil))
	assert.False(t, m.Execute(ctx, &fakeCommand{name: "bad", log: log, failExec: true}))
	assert.Zero(t, m.UndoCount())
	assert.Empty(t, *log)
}

func TestExecute_EvictsOldest(t *testing.T) {
	const n = 5
	ctx := context.Background()
	m, log := newManager(t, n)

	for k := 1; k <= n; k++ {
		require.True(t, m.Execute(ctx, &fakeCommand{name: fmt.Sprint(k), log: log}))
		assert.Equal(t, k, m.UndoCount())
	}
	require.True(t, m.Execute(ctx, &fakeCommand{name: "6", log: log}))
	assert.Equal(t, n, m.UndoCount())
	assert.Equal(t, []string{"6", "5", "4", "3", "2"}, m.UndoHistory(n+1))
	assert.Equal(t, []string{"6", "5"}, m.UndoHistory(2))
}

func TestUndoRedo_Counts(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 10)
	var undone, redone int
	m.OnUndone = func(Command) { undone++ }
	m.OnRedone = func(Command) { redone++ }

	assert.False(t, m.Undo(ctx))
	assert.False(t, m.Redo(ctx))

	for _, name := range []string{"a", "b", "c"} {
		require.True(t, m.Execute(ctx, &fakeCommand{name: name, log: log}))
	}
	require.True(t, m.Undo(ctx))
	assert.Equal(t, 2, m.UndoCount())
	assert.Equal(t, 1, m.RedoCount())

	require.True(t, m.Undo(ctx))
	require.True(t, m.Redo(ctx))
	assert.Equal(t, 2, m.UndoCount())
	assert.Equal(t, 1, m.RedoCount())
	assert.True(t, m.CanUndo())
	assert.True(t, m.CanRedo())

	assert.Equal(t, []string{"do a", "do b", "do c", "undo c", "undo b", "do b"}, *log)
	assert.Equal(t, 2, undone)
	assert.Equal(t, 1, redone)

	m.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestUndo_CannotUndoStaysOnStack(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 10)
	cmd := &fakeCommand{name: "sticky", log: log, refuseUndo: true}
	require.True(t, m.Execute(ctx, cmd))

	assert.False(t, m.Undo(ctx))
	assert.Equal(t, 1, m.UndoCount())
	assert.Zero(t, m.RedoCount())

	cmd.refuseUndo = false
	assert.True(t, m.Undo(ctx))
}

func TestUndo_FailureRestores(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 10)
	require.True(t, m.Execute(ctx, &fakeCommand{name: "a", log: log}))
	b := &fakeCommand{name: "b", log: log, failUndo: true}
	require.True(t, m.Execute(ctx, b))

	assert.False(t, m.Undo(ctx))
	assert.Equal(t, []string{"b", "a"}, m.UndoHistory(5), "failed undo keeps order")
	assert.Zero(t, m.RedoCount())
}

func TestRedo_FailureRestores(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 10)
	cmd := &fakeCommand{name: "a", log: log}
	require.True(t, m.Execute(ctx, cmd))
	require.True(t, m.Undo(ctx))

	cmd.failExec = true
	assert.False(t, m.Redo(ctx))
	assert.Equal(t, 1, m.RedoCount())
	assert.Zero(t, m.UndoCount())
}

func TestExecute_SingleUse(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 10)
	cmd := &fakeCommand{name: "a", log: log}
	require.True(t, m.Execute(ctx, cmd))
	assert.False(t, m.Execute(ctx, cmd), "second execute without undo must fail")
	assert.Equal(t, 1, m.UndoCount())

	err := cmd.Execute(ctx)
	assert.ErrorIs(t, err, ErrAlreadyExecuted)
}

func TestExecute_RejectsWhileBusy(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t, 10)
	block := make(chan struct{})
	started := make(chan struct{})
	slow := &fakeCommand{name: "slow", log: log, started: started, block: block}

	done := make(chan bool)
	go func() { done <- m.Execute(ctx, slow) }()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("slow command never started")
	}
	assert.False(t, m.Execute(ctx, &fakeCommand{name: "other", log: log}))
	assert.False(t, m.Undo(ctx))

	close(block)
	assert.True(t, <-done)
	assert.Equal(t, []string{"do slow"}, *log)
}
