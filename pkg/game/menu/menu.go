// Package menu lists things the player can look up outside a level, such as
// the key bindings.
package menu

import (
	"fmt"
	"io"
	"strings"

	"fours/pkg/game/renderer"
)

// MenuItem represents a single item in a menu.
type MenuItem interface {
	// GetLabel returns the display label for this menu item.
	GetLabel() string
	// IsSelectable returns whether this item can be selected.
	IsSelectable() bool
	// GetHelpText returns optional help text for this item.
	GetHelpText() string
}

// MenuHandler supplies a menu's title, instructions and items.
type MenuHandler interface {
	GetTitle() string
	GetInstructions() string
	GetMenuItems() []MenuItem
}

// Write prints the handler's menu to w. Labels may carry markup; it is
// expanded by the current renderer.
func Write(w io.Writer, h MenuHandler) error {
	var b strings.Builder
	title := h.GetTitle()
	b.WriteString(renderer.ApplyMarkup("ACTION{%s}", title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", len([]rune(title))))
	b.WriteString("\n")

	for _, item := range h.GetMenuItems() {
		prefix := "  "
		if !item.IsSelectable() {
			prefix = "    "
		}
		b.WriteString(prefix + renderer.ApplyMarkup(item.GetLabel()) + "\n")
		if help := item.GetHelpText(); help != "" {
			b.WriteString("      " + renderer.ApplyMarkup("SUBTLE{%s}", help) + "\n")
		}
	}

	if inst := h.GetInstructions(); inst != "" {
		b.WriteString("\n" + inst + "\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}
