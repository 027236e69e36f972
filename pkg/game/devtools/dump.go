// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"fours/pkg/engine/board"
	"fours/pkg/game/state"
)

const dumpFilename = "fours-dump.txt"

// legend assigns a letter to every colour of grid, in order of first
// appearance, so boards can be read as text. Inactive cells are '#'.
func legend(grids ...*board.Grid) map[string]rune {
	letters := make(map[string]rune)
	next := 'A'
	for _, g := range grids {
		g.ForEachCell(func(_, _ int, cell *board.Cell) {
			if !cell.Active() {
				return
			}
			if _, ok := letters[cell.Color]; !ok {
				letters[cell.Color] = next
				next++
			}
		})
	}
	return letters
}

// writeBoard writes grid as rows of letters. The anchor of selected, when
// given, is marked with '*' after its letter.
func writeBoard(w io.Writer, grid *board.Grid, letters map[string]rune, selected *board.Group) {
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			cell := grid.Get(row, col)
			sym := '#'
			if cell.Active() {
				sym = letters[cell.Color]
			}
			mark := ' '
			if selected != nil && selected.TopLeftIndex == (board.Index{Row: row, Col: col}) {
				mark = '*'
			}
			fmt.Fprintf(w, "%c%c", sym, mark)
		}
		fmt.Fprintln(w)
	}
}

// WriteDump writes a full debug dump of the level in play: metadata, colour
// legend, the board and target, every group and the undo history.
// Format is human-readable (sections, key: value, consistent structure).
func WriteDump(w io.Writer, g *state.Game) error {
	grid := g.Grid()
	if grid == nil {
		return fmt.Errorf("no grid")
	}
	lvl := grid.Level()
	cursor := g.Cursor()

	fmt.Fprintln(w, "=== FOURS DEBUG DUMP ===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "--- Metadata ---")
	fmt.Fprintf(w, "level_index: %d\n", g.Level())
	fmt.Fprintf(w, "level_name: %q\n", lvl.Name)
	fmt.Fprintf(w, "grid_rows: %d\n", lvl.Rows)
	fmt.Fprintf(w, "grid_cols: %d\n", lvl.Columns)
	fmt.Fprintf(w, "coordinate_system: row,col (0-based, row=vertical, col=horizontal)\n")
	fmt.Fprintf(w, "moves_allowed: %d\n", lvl.MovesAllowed)
	fmt.Fprintf(w, "moves_remaining: %d\n", grid.MovesRemaining())
	fmt.Fprintf(w, "moves_used: %d\n", grid.MovesUsed())
	fmt.Fprintf(w, "phase: %s\n", grid.Phase())
	fmt.Fprintf(w, "cursor: %d,%d\n", cursor.Row, cursor.Col)
	fmt.Fprintf(w, "completed: %v\n", grid.Completed())
	fmt.Fprintf(w, "lost: %v\n", grid.Lost())
	fmt.Fprintf(w, "can_undo: %v\n", grid.CanUndo())
	fmt.Fprintf(w, "can_redo: %v\n", grid.CanRedo())
	fmt.Fprintf(w, "snapshot: %s\n", grid.Snapshot())
	fmt.Fprintln(w, "")

	var err error
	grid.View(func(live, target *board.Grid, groups []*board.Group, selected *board.Group) {
		letters := legend(live, target)

		fmt.Fprintln(w, "--- Legend (cell symbols) ---")
		colours := make([]string, 0, len(letters))
		for c := range letters {
			colours = append(colours, c)
		}
		sort.Slice(colours, func(i, j int) bool { return letters[colours[i]] < letters[colours[j]] })
		for _, c := range colours {
			fmt.Fprintf(w, "%c = %s  ", letters[c], c)
		}
		fmt.Fprintln(w, "# = inactive  * = selected group anchor")
		fmt.Fprintln(w, "")

		fmt.Fprintln(w, "--- Board ---")
		writeBoard(w, live, letters, selected)
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "--- Target ---")
		writeBoard(w, target, letters, nil)
		fmt.Fprintln(w, "")

		fmt.Fprintf(w, "--- Groups (%d, row-major) ---\n", len(groups))
		for _, group := range groups {
			fmt.Fprintf(w, "  %s id: %s\n", group, group.ID)
		}
		fmt.Fprintln(w, "")

		fmt.Fprintln(w, "--- Cells ---")
		_, err = fmt.Fprint(w, live.String())
		fmt.Fprintln(w, "")
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "--- Undo history (most recent first) ---")
	for i, desc := range grid.History(math.MaxInt) {
		fmt.Fprintf(w, "  %d: %s\n", i+1, desc)
	}
	return nil
}

// DumpToFile writes WriteDump's output to fours-dump.txt in dir (the working
// directory when dir is empty) and returns the absolute path.
func DumpToFile(g *state.Game, dir string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(dir, dumpFilename))
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteDump(f, g); err != nil {
		return "", err
	}
	return absPath, nil
}
