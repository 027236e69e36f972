// Package tui is the terminal host: it draws the board and the target side
// by side with true-colour backgrounds and reads keys or typed commands.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"fours/pkg/engine/board"
	"fours/pkg/engine/i18n"
	"fours/pkg/engine/input"
	"fours/pkg/engine/terminal"
	"fours/pkg/game/progression"
	"fours/pkg/game/renderer"
	"fours/pkg/game/state"
)

// Board cell widths in terminal columns, and the space kept for the gap
// between the two boards.
const (
	MinCellWidth = 2
	MaxCellWidth = 6
	BoardGap     = 6
)

// Marks drawn inside cells.
const (
	IconCursor   = "+"
	IconSelected = "•"
	IconInactive = "·"
)

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	out    io.Writer
	reader *input.Reader
	clear  bool

	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorItem        color.Style
	colorRoom        color.Style
	colorSubtle      color.Style
	colorSelected    color.Style
	colorCursor      color.Style
	colorSuccess     color.Style
}

// New creates a TUI renderer reading from reader and drawing to out.
func New(reader *input.Reader, out io.Writer) *TUIRenderer {
	return &TUIRenderer{out: out, reader: reader, clear: terminal.IsInteractive()}
}

// Init initializes the TUI renderer (colors, etc.)
func (t *TUIRenderer) Init() {
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
	t.colorItem = color.Style{color.FgMagenta}
	t.colorRoom = color.Style{color.FgBlue}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorSelected = color.Style{color.FgWhite, color.OpBold}
	t.colorCursor = color.Style{color.FgBlack, color.OpBold}
	t.colorSuccess = color.Style{color.FgGreen, color.OpBold}
}

// Clear clears the terminal screen
func (t *TUIRenderer) Clear() {
	if t.clear {
		fmt.Fprint(t.out, terminal.ClearScreen)
	}
}

// GetInput blocks for the next key (or typed command when stdin is not a
// terminal) and returns a high-level Intent.
func (t *TUIRenderer) GetInput() (input.Intent, error) {
	raw, err := t.reader.Next()
	if err != nil {
		return input.Intent{}, err
	}
	return input.Resolve(raw), nil
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleAction:
		return t.colorAction.Sprint(text)
	case renderer.StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case renderer.StyleDenied:
		return t.colorDenied.Sprint(text)
	case renderer.StyleItem:
		return t.colorItem.Sprint(text)
	case renderer.StyleRoom:
		return t.colorRoom.Sprint(text)
	case renderer.StyleSubtle:
		return t.colorSubtle.Sprint(text)
	case renderer.StyleSelected:
		return t.colorSelected.Sprint(text)
	case renderer.StyleCursor:
		return t.colorCursor.Sprint(text)
	case renderer.StyleSuccess:
		return t.colorSuccess.Sprint(text)
	default:
		return text
	}
}

// FormatText formats a message with the markup system
func (t *TUIRenderer) FormatText(msg string, args ...any) string {
	return renderer.Markup(msg, args, t.StyleText)
}

// ShowMessage displays a message to the user
func (t *TUIRenderer) ShowMessage(msg string) {
	fmt.Fprintln(t.out, msg)
}

// RenderFrame renders a complete game frame
func (t *TUIRenderer) RenderFrame(g *state.Game) {
	grid := g.Grid()
	if grid == nil {
		return
	}
	var b strings.Builder

	lvl := grid.Level()
	b.WriteString(t.colorAction.Sprint(i18n.Tf("LEVEL_HEADER", g.Level()+1, lvl.Name)))
	b.WriteString("\n\n")

	t.writeBoards(&b, g)
	t.writeStatusBar(&b, g)
	t.writeMessagesPane(&b, g)
	b.WriteString("\n> ")

	fmt.Fprint(t.out, b.String())
}

// writeBoards draws the live board on the left and the target on the right.
func (t *TUIRenderer) writeBoards(b *strings.Builder, g *state.Game) {
	cursor := g.Cursor()
	g.Grid().View(func(live, target *board.Grid, _ []*board.Group, selected *board.Group) {
		width := terminal.CellWidth(live.Cols()*2, BoardGap, MinCellWidth, MaxCellWidth)
		gap := strings.Repeat(" ", BoardGap)

		b.WriteString(fmt.Sprintf("%-*s", live.Cols()*width, ""))
		b.WriteString(gap)
		b.WriteString(t.colorSubtle.Sprint(i18n.T("TARGET")))
		b.WriteString("\n")

		for row := 0; row < live.Rows(); row++ {
			for col := 0; col < live.Cols(); col++ {
				cell := live.Get(row, col)
				mark := ""
				switch {
				case cursor == (board.Index{Row: row, Col: col}):
					mark = IconCursor
				case selected != nil && selected.Contains(cell):
					mark = IconSelected
				}
				b.WriteString(t.renderCell(cell, mark, width))
			}
			b.WriteString(gap)
			for col := 0; col < target.Cols(); col++ {
				b.WriteString(t.renderCell(target.Get(row, col), "", width))
			}
			b.WriteString("\n")
		}
	})
	b.WriteString("\n")
}

// renderCell draws one cell width columns wide on its own colour, with mark
// centred in it.
func (t *TUIRenderer) renderCell(cell *board.Cell, mark string, width int) string {
	if cell == nil || !cell.Active() {
		return t.colorSubtle.Sprint(centre(IconInactive, width))
	}
	text := centre(mark, width)
	fg := color.HEX("#000000")
	if mark == IconSelected {
		fg = color.HEX("#ffffff")
	}
	return color.NewRGBStyle(fg, color.HEX(cell.Color, true)).Sprint(text)
}

func centre(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// writeStatusBar renders moves remaining and the best rating for the level.
func (t *TUIRenderer) writeStatusBar(b *strings.Builder, g *state.Game) {
	grid := g.Grid()
	status := i18n.Tf("MOVES_REMAINING", grid.MovesRemaining())
	switch {
	case grid.Completed():
		b.WriteString(t.colorSuccess.Sprint(status))
	case grid.Lost():
		b.WriteString(t.colorDenied.Sprint(status))
	default:
		b.WriteString(t.colorAction.Sprint(status))
	}

	if stars := g.BestStars(g.Level()); g.HasCompleted(g.Level()) {
		b.WriteString(t.colorSubtle.Sprint("   " + i18n.Tf("BEST_STARS", progression.StarString(stars))))
	}
	b.WriteString("\n")
}

// writeMessagesPane renders the messages log pane
func (t *TUIRenderer) writeMessagesPane(b *strings.Builder, g *state.Game) {
	width, _ := terminal.GetSize()

	label := " Messages "
	sideLen := (width - len(label)) / 2
	if sideLen < 1 {
		sideLen = 1
	}
	rightLen := width - sideLen - len(label)
	if rightLen < 1 {
		rightLen = 1
	}

	b.WriteString("\n")
	b.WriteString(t.colorSubtle.Sprint(strings.Repeat("─", sideLen) + label + strings.Repeat("─", rightLen)))
	b.WriteString("\n")

	msgs := g.Messages()
	if len(msgs) == 0 {
		b.WriteString(t.colorSubtle.Sprint("  (no messages)"))
		b.WriteString("\n")
	}
	for _, msg := range msgs {
		b.WriteString("  " + msg + "\n")
	}

	b.WriteString(t.colorSubtle.Sprint(strings.Repeat("─", width)))
	b.WriteString("\n")
}
