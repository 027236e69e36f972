package gameplay

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fours/pkg/engine/board"
	"fours/pkg/engine/input"
	"fours/pkg/game/level"
	"fours/pkg/game/playable"
	"fours/pkg/game/progression"
)

var palette = map[rune]string{
	'R': "#e74c3c",
	'G': "#2ecc71",
	'B': "#3498db",
	'Y': "#f1c40f",
}

func squares(rows ...string) []level.Square {
	var out []level.Square
	for r, row := range rows {
		for c, ch := range row {
			out = append(out, level.Square{Row: r, Col: c, Color: palette[ch]})
		}
	}
	return out
}

// oneTurn is solved by turning the top-left group clockwise once.
func oneTurn(name string) *level.Level {
	return &level.Level{
		Name: name, Rows: 3, Columns: 3, MovesAllowed: 3,
		Stars:   level.Stars{Max: 1, Mid: 2, Min: 3},
		Initial: squares("RGB", "RGB", "YYB"),
		Target:  squares("RRB", "GGB", "YYB"),
	}
}

func newSession(t *testing.T, levels ...*level.Level) *Session {
	t.Helper()
	pack, err := progression.NewPack(levels)
	require.NoError(t, err)
	s, err := BuildGame(pack, playable.Options{Logger: zaptest.NewLogger(t)}, 0)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(s *Session, a input.Action) {
	s.ProcessIntent(context.Background(), input.Intent{Action: a})
}

func lastMessage(s *Session) string {
	msgs := s.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func TestBuildGame_LoadsFirstLevel(t *testing.T) {
	s := newSession(t, oneTurn("First Turn"), oneTurn("Second Turn"))

	assert.Equal(t, 0, s.Level())
	require.NotNil(t, s.Grid())
	assert.Equal(t, "First Turn", s.Grid().Level().Name)
	assert.Contains(t, lastMessage(s), "Level 1: First Turn")
}

func TestBuildGame_BadStartLevel(t *testing.T) {
	pack, err := progression.NewPack([]*level.Level{oneTurn("only")})
	require.NoError(t, err)
	_, err = BuildGame(pack, playable.Options{}, 4)
	assert.Error(t, err)
}

func TestProcessIntent_RotateAtCursorCompletes(t *testing.T) {
	s := newSession(t, oneTurn("First Turn"), oneTurn("Second Turn"))

	do(s, input.ActionRotateClockwise)

	assert.True(t, s.Grid().Completed())
	assert.True(t, s.HasCompleted(0))
	assert.Equal(t, 3, s.BestStars(0))
	assert.Contains(t, lastMessage(s), "Level complete in 1 moves!")
	assert.False(t, s.AllComplete())

	do(s, input.ActionNextLevel)
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, "Second Turn", s.Grid().Level().Name)
}

func TestProcessIntent_NextLevelNeedsCompletion(t *testing.T) {
	s := newSession(t, oneTurn("a"), oneTurn("b"))

	do(s, input.ActionNextLevel)

	assert.Equal(t, 0, s.Level())
	assert.Equal(t, "Finish this level first.", lastMessage(s))
}

func TestProcessIntent_FinalLevelCompletesGame(t *testing.T) {
	s := newSession(t, oneTurn("only"))

	do(s, input.ActionRotateClockwise)

	assert.True(t, s.AllComplete())
	assert.Equal(t, "All levels complete! Total stars: 3", lastMessage(s))

	do(s, input.ActionResetLevel)
	assert.True(t, s.Grid().Completed(), "intents other than quit are ignored once every level is done")

	do(s, input.ActionQuit)
	assert.True(t, s.Quit())
}

func TestProcessIntent_CursorAndSelect(t *testing.T) {
	s := newSession(t, oneTurn("a"))

	do(s, input.ActionCursorDown)
	do(s, input.ActionCursorRight)
	do(s, input.ActionCursorRight)
	assert.Equal(t, board.Index{Row: 1, Col: 1}, s.Cursor(), "cursor stays on a group anchor")

	do(s, input.ActionSelect)
	require.NotNil(t, s.Grid().Selected())
	assert.Equal(t, board.Index{Row: 1, Col: 1}, s.Grid().Selected().TopLeftIndex)
}

func TestProcessIntent_PointerOutsideBoard(t *testing.T) {
	s := newSession(t, oneTurn("a"))
	far := input.Intent{Point: board.Point{X: 100, Y: 100}, HasPoint: true}

	far.Action = input.ActionSelect
	s.ProcessIntent(context.Background(), far)
	assert.Equal(t, "No group there.", lastMessage(s))

	far.Action = input.ActionRotateClockwise
	s.ProcessIntent(context.Background(), far)
	assert.Equal(t, "Select a group first.", lastMessage(s))
}

func TestProcessIntent_PointerPicksGroup(t *testing.T) {
	s := newSession(t, oneTurn("a"))
	grid := s.Grid()
	var anchor board.Index
	var centre board.Point
	grid.View(func(_, _ *board.Grid, groups []*board.Group, _ *board.Group) {
		g := board.FindByTopLeft(groups, board.Index{Row: 1, Col: 0})
		require.NotNil(t, g)
		anchor, centre = g.TopLeftIndex, g.Center
	})

	s.ProcessIntent(context.Background(), input.Intent{Action: input.ActionSelect, Point: centre, HasPoint: true})

	assert.Equal(t, anchor, s.Cursor())
	require.NotNil(t, grid.Selected())
	assert.Equal(t, anchor, grid.Selected().TopLeftIndex)
}

func TestProcessIntent_UndoRedo(t *testing.T) {
	s := newSession(t, oneTurn("a"))
	initial := s.Grid().Snapshot()

	do(s, input.ActionUndo)
	assert.Equal(t, "Nothing to undo.", lastMessage(s))

	do(s, input.ActionCursorDown)
	do(s, input.ActionRotateCounterClockwise)
	turned := s.Grid().Snapshot()
	require.NotEqual(t, initial, turned)

	do(s, input.ActionUndo)
	assert.Equal(t, initial, s.Grid().Snapshot())
	assert.True(t, strings.HasPrefix(lastMessage(s), "Undone: "), lastMessage(s))

	do(s, input.ActionRedo)
	assert.Equal(t, turned, s.Grid().Snapshot())
	assert.True(t, strings.HasPrefix(lastMessage(s), "Redone: "), lastMessage(s))

	do(s, input.ActionRedo)
	assert.Equal(t, "Nothing to redo.", lastMessage(s))
}

func TestProcessIntent_ResetRestoresLayout(t *testing.T) {
	s := newSession(t, oneTurn("a"))
	initial := s.Grid().Snapshot()

	do(s, input.ActionCursorDown)
	do(s, input.ActionRotateClockwise)
	require.NotEqual(t, initial, s.Grid().Snapshot())

	do(s, input.ActionResetLevel)
	assert.Equal(t, initial, s.Grid().Snapshot())
	assert.Equal(t, 3, s.Grid().MovesRemaining())
	assert.Equal(t, "Level reset.", lastMessage(s))
}

func TestProcessIntent_RunningOutOfMoves(t *testing.T) {
	lvl := oneTurn("tight")
	lvl.MovesAllowed = 1
	s := newSession(t, lvl)

	// Turn the bottom-left group, then leave it for another.
	do(s, input.ActionCursorDown)
	do(s, input.ActionRotateClockwise)
	do(s, input.ActionCursorRight)
	do(s, input.ActionRotateClockwise)

	assert.True(t, s.Grid().Lost())
	assert.Contains(t, s.Messages(), "Out of moves. Press r to retry.")
	assert.Equal(t, "This level is over. Press r to retry or n for the next level.", lastMessage(s))
}

func TestProcessIntent_DebugDump(t *testing.T) {
	s := newSession(t, oneTurn("a"))
	s.DumpDir = t.TempDir()

	do(s, input.ActionDebugDump)

	assert.Contains(t, lastMessage(s), "Debug dump saved to ")
	entries, err := os.ReadDir(s.DumpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "dump and screenshot")
}

func TestProcessIntent_Help(t *testing.T) {
	s := newSession(t, oneTurn("a"))
	do(s, input.ActionHelp)
	assert.Contains(t, lastMessage(s), "space selects")
}
