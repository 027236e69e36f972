package playable

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"fours/pkg/engine/board"
	"fours/pkg/engine/eventbus"
	"fours/pkg/game/events"
	"fours/pkg/game/level"
)

var palette = map[rune]string{
	'R': "#e74c3c",
	'B': "#3498db",
	'G': "#2ecc71",
	'Y': "#f1c40f",
}

// squares turns rows of palette letters into squares; '.' leaves a slot out.
func squares(rows ...string) []level.Square {
	var out []level.Square
	for r, row := range rows {
		for c, ch := range row {
			if ch == '.' {
				continue
			}
			out = append(out, level.Square{Row: r, Col: c, Color: palette[ch]})
		}
	}
	return out
}

func firstTurn(t *testing.T) *level.Level {
	t.Helper()
	l := &level.Level{
		Name: "First Turn", Rows: 3, Columns: 3, MovesAllowed: 3,
		Stars:   level.Stars{Max: 1, Mid: 2, Min: 3},
		Initial: squares("RGB", "RGB", "YYB"),
		Target:  squares("RRB", "GGB", "YYB"),
	}
	require.NoError(t, l.Validate())
	return l
}

func crossroads(t *testing.T) *level.Level {
	t.Helper()
	l := &level.Level{
		Name: "Crossroads", Rows: 4, Columns: 4, MovesAllowed: 6,
		Stars:   level.Stars{Max: 2, Mid: 3, Min: 4},
		Initial: squares("RRB.", "RBYB", "GRYY", "GGGY"),
		Target:  squares("RRB.", "RRBB", "GGYY", "GGYY"),
	}
	require.NoError(t, l.Validate())
	return l
}

// distinct is a 3x3 level with nine different colours and no target.
func distinct(t *testing.T, moves int) *level.Level {
	t.Helper()
	l := &level.Level{Name: "Distinct", Rows: 3, Columns: 3, MovesAllowed: moves, Stars: level.Stars{Max: 1, Mid: 2, Min: 3}}
	for i := 0; i < 9; i++ {
		l.Initial = append(l.Initial, level.Square{Row: i / 3, Col: i % 3, Color: fmt.Sprintf("#0000%02x", i)})
	}
	require.NoError(t, l.Validate())
	return l
}

func newGrid(t *testing.T, lvl *level.Level, opts Options) *Grid {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	g, err := New(lvl, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func idx(row, col int) board.Index {
	return board.Index{Row: row, Col: col}
}

func TestRotate_CompletesLevel(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, firstTurn(t), Options{})

	var completed []events.LevelCompleted
	eventbus.Subscribe(g.Buses().LevelCompleted, func(ev events.LevelCompleted) {
		completed = append(completed, ev)
	})

	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	require.NoError(t, g.Rotate(ctx, board.Clockwise))

	require.Len(t, completed, 1)
	assert.Equal(t, events.LevelCompleted{MovesUsed: 1, Stars: 3}, completed[0])
	assert.True(t, g.Completed())
	assert.Equal(t, 3, g.MovesRemaining(), "the move in progress is not taken from the budget")
	assert.ErrorIs(t, g.Rotate(ctx, board.Clockwise), ErrLevelOver)
}

func TestRotate_NeedsSelection(t *testing.T) {
	g := newGrid(t, firstTurn(t), Options{})
	assert.ErrorIs(t, g.Rotate(context.Background(), board.Clockwise), ErrNoSelection)
	assert.ErrorIs(t, g.Rotate(context.Background(), board.Direction(3)), board.ErrInvalidDirection)
	assert.ErrorIs(t, g.SelectAt(context.Background(), idx(2, 2)), ErrNoGroup)
}

func TestRotate_RaisesGroupRotated(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, distinct(t, 5), Options{})
	var got []events.GroupRotated
	eventbus.Subscribe(g.Buses().GroupRotated, func(ev events.GroupRotated) { got = append(got, ev) })

	require.NoError(t, g.SelectAt(ctx, idx(1, 1)))
	selected := g.Selected()
	require.NoError(t, g.Rotate(ctx, board.CounterClockwise))

	require.Len(t, got, 1)
	assert.Equal(t, selected.ID, got[0].GroupID)
	assert.Equal(t, g.Snapshot(), got[0].GridSnapshot)

	after := g.Selected()
	require.NotNil(t, after)
	assert.Equal(t, idx(1, 1), after.TopLeftIndex, "selection follows the anchor")
	assert.NotEqual(t, selected.ID, after.ID, "groups are rebuilt after a rotation")
}

func TestMoves_ConsumedOnlyWhenLeavingChangedGroup(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, distinct(t, 2), Options{})

	var moved []int
	lost := 0
	eventbus.Subscribe(g.Buses().PlayerMoved, func(ev events.PlayerMoved) { moved = append(moved, ev.MovesRemaining) })
	eventbus.Subscribe(g.Buses().LevelLost, func(events.LevelLost) { lost++ })

	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	require.NoError(t, g.SelectAt(ctx, idx(0, 1)))
	assert.Empty(t, moved, "nothing changed yet")

	require.NoError(t, g.Rotate(ctx, board.Clockwise))
	require.NoError(t, g.SelectAt(ctx, idx(0, 1)))
	assert.Empty(t, moved, "same group")

	require.NoError(t, g.SelectAt(ctx, idx(1, 1)))
	assert.Equal(t, []int{1}, moved)
	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	assert.Equal(t, []int{1}, moved, "grid unchanged since the last move")

	require.NoError(t, g.Rotate(ctx, board.Clockwise))
	require.NoError(t, g.SelectAt(ctx, idx(1, 0)))
	assert.Equal(t, []int{1, 0}, moved)
	assert.Equal(t, 1, lost)
	assert.True(t, g.Lost())
	assert.ErrorIs(t, g.SelectAt(ctx, idx(0, 0)), ErrLevelOver)
}

func TestRotateAt_SelectsAndRotatesAsOneStep(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, crossroads(t), Options{})

	var completed []events.LevelCompleted
	eventbus.Subscribe(g.Buses().LevelCompleted, func(ev events.LevelCompleted) { completed = append(completed, ev) })

	require.NoError(t, g.RotateAt(ctx, idx(2, 2), board.Clockwise))
	assert.Equal(t, idx(2, 2), g.Selected().TopLeftIndex)
	history := g.History(10)
	require.Len(t, history, 1)
	assert.Equal(t, "Select group (2, 2); Rotate group at (2, 2) clockwise", history[0])
	assert.Equal(t, 6, g.MovesRemaining())

	require.NoError(t, g.RotateAt(ctx, idx(1, 1), board.Clockwise))
	assert.Equal(t, 5, g.MovesRemaining())
	require.Len(t, completed, 1)
	assert.Equal(t, events.LevelCompleted{MovesUsed: 2, Stars: 3}, completed[0])
}

func TestRotateAt_InactiveBlock(t *testing.T) {
	g := newGrid(t, crossroads(t), Options{})
	assert.ErrorIs(t, g.RotateAt(context.Background(), idx(0, 2), board.Clockwise), ErrNoGroup)
}

func TestUndoRedo(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, distinct(t, 5), Options{})
	initial := g.Snapshot()

	rotated := 0
	eventbus.Subscribe(g.Buses().GroupRotated, func(events.GroupRotated) { rotated++ })

	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	require.NoError(t, g.Rotate(ctx, board.Clockwise))
	turned := g.Snapshot()
	require.NotEqual(t, initial, turned)

	require.NoError(t, g.Undo(ctx))
	assert.Equal(t, initial, g.Snapshot())
	assert.Equal(t, idx(0, 0), g.Selected().TopLeftIndex)
	assert.Equal(t, 5, g.MovesRemaining())
	assert.True(t, g.CanRedo())

	require.NoError(t, g.Redo(ctx))
	assert.Equal(t, turned, g.Snapshot())
	assert.Equal(t, 3, rotated)

	require.NoError(t, g.Undo(ctx))
	require.NoError(t, g.Undo(ctx))
	assert.Nil(t, g.Selected(), "select was undone too")
	assert.ErrorIs(t, g.Undo(ctx), ErrNothingToUndo)
}

func TestUndo_Disabled(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, firstTurn(t), Options{DisableUndo: true})

	require.NoError(t, g.SelectAt(ctx, idx(1, 1)))
	require.NoError(t, g.Rotate(ctx, board.Clockwise))
	assert.False(t, g.CanUndo())
	assert.Nil(t, g.History(5))
	assert.ErrorIs(t, g.Undo(ctx), ErrNothingToUndo)
	assert.ErrorIs(t, g.Redo(ctx), ErrNothingToRedo)
}

func TestRotate_RejectedWhileRotating(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	ticker := board.NewTicker(time.Second, 1.2)
	g := newGrid(t, distinct(t, 5), Options{Animator: ticker})
	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	before := g.Snapshot()

	done := make(chan error, 1)
	go func() { done <- g.Rotate(ctx, board.Clockwise) }()
	require.Eventually(t, ticker.Active, time.Second, time.Millisecond)

	assert.True(t, g.IsRotating())
	assert.ErrorIs(t, g.Rotate(ctx, board.CounterClockwise), ErrRotating)
	assert.ErrorIs(t, g.SelectAt(ctx, idx(1, 1)), ErrRotating)
	assert.ErrorIs(t, g.Undo(ctx), ErrRotating)
	g.Update()
	assert.Equal(t, PhaseRotating, g.Phase())
	assert.Equal(t, before, g.Snapshot(), "nothing is committed mid-animation")

	ticker.Tick(time.Second)
	require.NoError(t, <-done)
	assert.False(t, g.IsRotating())
	assert.NotEqual(t, before, g.Snapshot())
	g.Update()
	assert.Equal(t, PhaseSelected, g.Phase())
}

func TestRotate_CancelledLeavesGrid(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticker := board.NewTicker(time.Second, 1.2)
	g := newGrid(t, distinct(t, 5), Options{Animator: ticker})
	require.NoError(t, g.SelectAt(context.Background(), idx(1, 0)))
	before := g.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Rotate(ctx, board.Clockwise) }()
	require.Eventually(t, ticker.Active, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, before, g.Snapshot())
	assert.False(t, g.IsRotating())
	assert.Equal(t, []string{"Select group (1, 0)"}, g.History(5))
}

func TestPhase(t *testing.T) {
	g := newGrid(t, firstTurn(t), Options{})
	g.Update()
	assert.Equal(t, PhaseIdle, g.Phase())

	require.NoError(t, g.SelectAt(context.Background(), idx(0, 1)))
	g.Update()
	assert.Equal(t, PhaseSelected, g.Phase())
}

func TestPickAt(t *testing.T) {
	g := newGrid(t, firstTurn(t), Options{})

	// 3x3 centred with unit spacing: slot (0, 0) sits at (-1, -1).
	picked := g.PickAt(board.Point{X: -0.4, Y: -0.6})
	require.NotNil(t, picked)
	assert.Equal(t, idx(0, 0), picked.TopLeftIndex)

	picked = g.PickAt(board.Point{X: 0.6, Y: 0.5})
	require.NotNil(t, picked)
	assert.Equal(t, idx(1, 1), picked.TopLeftIndex)

	assert.Nil(t, g.PickAt(board.Point{X: 5, Y: 5}))
}

func TestSubscriberPanicDoesNotStopPlay(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, firstTurn(t), Options{})
	eventbus.Subscribe(g.Buses().GroupRotated, func(events.GroupRotated) { panic("boom") })

	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	require.NoError(t, g.Rotate(ctx, board.Clockwise))
	assert.True(t, g.Completed())
}

func TestClose_DetachesWinCheck(t *testing.T) {
	buses := events.NewBuses()
	g, err := New(firstTurn(t), Options{Buses: buses})
	require.NoError(t, err)
	assert.Equal(t, 1, buses.GroupRotated.Len())

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	assert.Zero(t, buses.GroupRotated.Len())
}

func TestNew_EmptyTargetNeverCompletes(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t, distinct(t, 5), Options{})
	require.NoError(t, g.SelectAt(ctx, idx(0, 0)))
	for i := 0; i < 4; i++ {
		require.NoError(t, g.Rotate(ctx, board.Clockwise))
	}
	assert.False(t, g.Completed())
}
