package input

import (
	"sort"
	"strings"
	"time"

	"fours/pkg/engine/board"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceMouse
	DeviceTerminal
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Cursor over the group anchors (terminal play)
	ActionCursorUp
	ActionCursorDown
	ActionCursorLeft
	ActionCursorRight

	// Board
	ActionSelect
	ActionRotateClockwise
	ActionRotateCounterClockwise

	// History
	ActionUndo
	ActionRedo

	// Meta / UI
	ActionResetLevel
	ActionNextLevel
	ActionHelp
	ActionDebugDump
	ActionQuit
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
// Point is set for pointer input (a click or tap in layout space).
type Intent struct {
	Action   Action
	Point    board.Point
	HasPoint bool
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "arrow_up", "left_click", "u").
type RawInput struct {
	Device    Device
	Code      string
	Point     board.Point
	HasPoint  bool
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// Both hosts already deliver edge-triggered events (inpututil, raw terminal
// reads), so this layer only drops the timestamp.
type DebouncedInput struct {
	Device   Device
	Code     string
	Point    board.Point
	HasPoint bool
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device:   raw.Device,
		Code:     strings.ToLower(strings.TrimSpace(raw.Code)),
		Point:    raw.Point,
		HasPoint: raw.HasPoint,
	}
}

// defaultBindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
func defaultBindings() map[string]Action {
	return map[string]Action{
		// Cursor (arrows, Vim)
		"arrow_up":    ActionCursorUp,
		"k":           ActionCursorUp,
		"arrow_down":  ActionCursorDown,
		"j":           ActionCursorDown,
		"arrow_left":  ActionCursorLeft,
		"h":           ActionCursorLeft,
		"arrow_right": ActionCursorRight,
		"l":           ActionCursorRight,

		// Select
		"space":      ActionSelect,
		"enter":      ActionSelect,
		"select":     ActionSelect,
		"left_click": ActionSelect,

		// Rotate
		"d":           ActionRotateClockwise,
		".":           ActionRotateClockwise,
		"cw":          ActionRotateClockwise,
		"right_click": ActionRotateClockwise,
		"swipe_right": ActionRotateClockwise,
		"a":           ActionRotateCounterClockwise,
		",":           ActionRotateCounterClockwise,
		"ccw":         ActionRotateCounterClockwise,
		"swipe_left":  ActionRotateCounterClockwise,

		// History
		"u":      ActionUndo,
		"undo":   ActionUndo,
		"ctrl_z": ActionUndo,
		"y":      ActionRedo,
		"redo":   ActionRedo,
		"ctrl_y": ActionRedo,

		// Level
		"r":     ActionResetLevel,
		"reset": ActionResetLevel,
		"f5":    ActionResetLevel,
		"n":     ActionNextLevel,
		"next":  ActionNextLevel,

		// Help / debug
		"?":    ActionHelp,
		"help": ActionHelp,
		"f9":   ActionDebugDump,
		"dump": ActionDebugDump,

		// Quit
		"quit":   ActionQuit,
		"q":      ActionQuit,
		"escape": ActionQuit,
		"ctrl_c": ActionQuit,
	}
}

var bindings = defaultBindings()

// reserved codes cannot be rebound or unbound.
var reserved = map[string]bool{
	"arrow_up": true, "arrow_down": true, "arrow_left": true, "arrow_right": true,
	"left_click": true, "ctrl_c": true,
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act, Point: ev.Point, HasPoint: ev.HasPoint}
	}
	return Intent{Action: ActionNone}
}

// Resolve runs a raw event through every layer.
func Resolve(raw RawInput) Intent {
	return MapToIntent(NewDebouncedInput(raw))
}

var actionNames = map[Action]string{
	ActionCursorUp:               "Cursor Up",
	ActionCursorDown:             "Cursor Down",
	ActionCursorLeft:             "Cursor Left",
	ActionCursorRight:            "Cursor Right",
	ActionSelect:                 "Select",
	ActionRotateClockwise:        "Rotate Clockwise",
	ActionRotateCounterClockwise: "Rotate Counter-Clockwise",
	ActionUndo:                   "Undo",
	ActionRedo:                   "Redo",
	ActionResetLevel:             "Reset Level",
	ActionNextLevel:              "Next Level",
	ActionHelp:                   "Help",
	ActionDebugDump:              "Debug Dump",
	ActionQuit:                   "Quit",
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "None"
}

// ParseAction looks an action up by its name, ignoring case, spaces and
// dashes ("rotate clockwise", "RotateClockwise" and "rotate-clockwise" all
// match). It returns ActionNone for unknown names.
func ParseAction(name string) Action {
	key := normalizeName(name)
	for act, n := range actionNames {
		if normalizeName(n) == key {
			return act
		}
	}
	return ActionNone
}

func normalizeName(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Ensure stable ordering of codes within each action so UI doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// SetSingleBinding replaces all bindings for the given action with a single
// code. Reserved codes keep their bindings.
func SetSingleBinding(action Action, code string) {
	for c, a := range bindings {
		if reserved[c] {
			continue
		}
		if a == action {
			delete(bindings, c)
		}
	}
	code = strings.ToLower(code)
	if code != "" && !reserved[code] {
		bindings[code] = action
	}
}

// ResetBindings restores the default bindings.
func ResetBindings() {
	bindings = defaultBindings()
}

// IsReserved reports whether code keeps its binding regardless of
// SetSingleBinding.
func IsReserved(code string) bool {
	return reserved[strings.ToLower(code)]
}

// Actions returns every bindable action in declaration order.
func Actions() []Action {
	acts := make([]Action, 0, ActionQuit)
	for a := ActionCursorUp; a <= ActionQuit; a++ {
		acts = append(acts, a)
	}
	return acts
}
