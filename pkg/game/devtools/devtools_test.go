package devtools

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fours/pkg/engine/board"
	"fours/pkg/game/events"
	"fours/pkg/game/level"
	"fours/pkg/game/playable"
	"fours/pkg/game/progression"
	"fours/pkg/game/state"
)

func newGame(t *testing.T) *state.Game {
	t.Helper()
	sq := func(row, col int, c string) level.Square { return level.Square{Row: row, Col: col, Color: c} }
	l := &level.Level{
		Name: "Dump <Test>", Rows: 2, Columns: 3, MovesAllowed: 4,
		Stars: level.Stars{Max: 1, Mid: 2, Min: 3},
		Initial: []level.Square{
			sq(0, 0, "#ff0000"), sq(0, 1, "#00ff00"),
			sq(1, 0, "#ff0000"), sq(1, 1, "#00ff00"),
		},
		Target: []level.Square{
			sq(0, 0, "#ff0000"), sq(0, 1, "#ff0000"),
			sq(1, 0, "#00ff00"), sq(1, 1, "#00ff00"),
		},
	}
	pack, err := progression.NewPack([]*level.Level{l})
	require.NoError(t, err)
	lvl, err := pack.Level(0)
	require.NoError(t, err)

	buses := events.NewBuses()
	grid, err := playable.New(lvl, playable.Options{Buses: buses})
	require.NoError(t, err)
	t.Cleanup(func() { _ = grid.Close() })

	g := state.NewGame(pack, buses)
	g.SetGrid(grid, 0)
	return g
}

func TestWriteDump(t *testing.T) {
	g := newGame(t)
	require.NoError(t, g.Grid().SelectAt(context.Background(), board.Index{Row: 0, Col: 0}))

	var buf bytes.Buffer
	require.NoError(t, WriteDump(&buf, g))
	out := buf.String()

	assert.Contains(t, out, "=== FOURS DEBUG DUMP ===")
	assert.Contains(t, out, `level_name: "Dump <Test>"`)
	assert.Contains(t, out, "moves_remaining: 4")
	assert.Contains(t, out, "A = #ff0000  B = #00ff00  # = inactive")
	assert.Contains(t, out, "--- Board ---\nA*B # \nA B # \n")
	assert.Contains(t, out, "--- Target ---\nA A # \nB B # \n")
	assert.Contains(t, out, "--- Groups (1, row-major) ---")
	assert.True(t, strings.HasSuffix(out, "  1: Select group (0, 0)\n"), out)
}

func TestWriteDump_NoGrid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteDump(&buf, state.NewGame(nil, nil)))
}

func TestDumpToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := DumpToFile(newGame(t), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("=== FOURS DEBUG DUMP ===")))
}

func TestSaveScreenshotHTML(t *testing.T) {
	g := newGame(t)
	g.AddMessage("<b>hello</b>")

	path, err := SaveScreenshotHTML(g, t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Level 1: Dump &lt;Test&gt;")
	assert.Contains(t, out, `style="background-color:#ff0000"`)
	assert.Contains(t, out, `class="cell inactive"`)
	assert.Contains(t, out, "&lt;b&gt;hello&lt;/b&gt;")
}
