package renderer

import (
	"fours/pkg/engine/input"
	"fours/pkg/game/state"
)

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleAction
	StyleActionShort
	StyleDenied
	StyleItem
	StyleRoom
	StyleSubtle
	StyleSelected
	StyleCursor
	StyleSuccess
)

// Renderer defines the interface for game rendering backends.
type Renderer interface {
	// Init initializes the renderer (colors, window, etc.)
	Init()

	// Clear clears the display
	Clear()

	// RenderFrame renders a complete game frame: header, board, target,
	// status line and messages.
	RenderFrame(g *state.Game)

	// GetInput gets user input (blocking for TUI, event-based for GUI)
	GetInput() (input.Intent, error)

	// StyleText applies a style to text and returns the styled string
	// For TUI this applies ANSI colors, for GUI it may return plain text
	StyleText(text string, style TextStyle) string

	// FormatText formats a message with the renderer's markup system
	FormatText(msg string, args ...any) string

	// ShowMessage displays a message to the user
	ShowMessage(msg string)
}

// Current holds the active renderer instance
var Current Renderer

// SetRenderer sets the active renderer
func SetRenderer(r Renderer) {
	Current = r
}

// Init initializes the current renderer
func Init() {
	if Current != nil {
		Current.Init()
	}
}

// Clear clears the display using the current renderer
func Clear() {
	if Current != nil {
		Current.Clear()
	}
}

// RenderFrame renders a complete game frame
func RenderFrame(g *state.Game) {
	if Current != nil {
		Current.RenderFrame(g)
	}
}

// StyleText applies a style to text
func StyleText(text string, style TextStyle) string {
	if Current != nil {
		return Current.StyleText(text, style)
	}
	return text
}

// ApplyMarkup formats a message with the current renderer's markup, or as
// plain text when no renderer is set.
func ApplyMarkup(msg string, args ...any) string {
	if Current != nil {
		return Current.FormatText(msg, args...)
	}
	return Markup(msg, args, Plain)
}
