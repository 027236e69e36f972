// Package terminal wraps the few terminal queries the text host needs.
package terminal

import (
	"os"

	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// ClearScreen moves the cursor home and clears the display.
const ClearScreen = "\033[H\033[2J"

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CellWidth picks how many columns each board cell may use so that a board
// cols wide, plus margin columns, fits the terminal. The result is between
// lo and hi.
func CellWidth(cols, margin, lo, hi int) int {
	width, _ := GetSize()
	return fitCellWidth(width, cols, margin, lo, hi)
}

func fitCellWidth(width, cols, margin, lo, hi int) int {
	if cols < 1 {
		return hi
	}
	w := (width - margin) / cols
	if w > hi {
		return hi
	}
	if w < lo {
		return lo
	}
	return w
}
