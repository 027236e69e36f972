package menu

import (
	"fmt"
	"strings"

	engineinput "fours/pkg/engine/input"
)

// BindingMenuItem represents a menu item for a key binding.
type BindingMenuItem struct {
	Action engineinput.Action
	Codes  []string
}

// GetLabel returns "Name: codes", marking codes that cannot be rebound.
func (b *BindingMenuItem) GetLabel() string {
	name := engineinput.ActionName(b.Action)
	if len(b.Codes) == 0 {
		return fmt.Sprintf("%-26s SUBTLE{(unbound)}", name+":")
	}

	codes := make([]string, len(b.Codes))
	for i, c := range b.Codes {
		if engineinput.IsReserved(c) {
			codes[i] = c + " SUBTLE{(fixed)}"
		} else {
			codes[i] = c
		}
	}
	return fmt.Sprintf("%-26s %s", name+":", strings.Join(codes, ", "))
}

// IsSelectable returns whether this binding can be selected.
func (b *BindingMenuItem) IsSelectable() bool {
	return true
}

// GetHelpText returns help text for this binding.
func (b *BindingMenuItem) GetHelpText() string {
	return ""
}

// BindingsMenuHandler lists the current binding of every action.
type BindingsMenuHandler struct {
	actions []engineinput.Action
}

// NewBindingsMenuHandler creates a new bindings menu handler.
func NewBindingsMenuHandler() *BindingsMenuHandler {
	return &BindingsMenuHandler{actions: engineinput.Actions()}
}

// GetTitle returns the menu title.
func (h *BindingsMenuHandler) GetTitle() string {
	return "Key Bindings"
}

// GetInstructions returns the menu instructions.
func (h *BindingsMenuHandler) GetInstructions() string {
	return `Rebind actions under "keys:" in the config file, e.g. rotate clockwise: x`
}

// GetMenuItems returns one item per action, bound codes sorted.
func (h *BindingsMenuHandler) GetMenuItems() []MenuItem {
	byAction := engineinput.GetBindingsByAction()
	items := make([]MenuItem, len(h.actions))
	for i, action := range h.actions {
		items[i] = &BindingMenuItem{Action: action, Codes: byAction[action]}
	}
	return items
}
