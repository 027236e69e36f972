package ebiten

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	engineinput "fours/pkg/engine/input"
)

// namedKeys maps the non-letter keys the bindings know about to raw codes.
var namedKeys = map[ebiten.Key]string{
	ebiten.KeyArrowUp:    "arrow_up",
	ebiten.KeyArrowDown:  "arrow_down",
	ebiten.KeyArrowLeft:  "arrow_left",
	ebiten.KeyArrowRight: "arrow_right",
	ebiten.KeySpace:      "space",
	ebiten.KeyEnter:      "enter",
	ebiten.KeyEscape:     "escape",
	ebiten.KeyPeriod:     ".",
	ebiten.KeyComma:      ",",
	ebiten.KeyF5:         "f5",
	ebiten.KeyF9:         "f9",
}

// repeatKeys fire again while held.
var repeatKeys = []ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
}

// Update handles input and game logic (Ebiten interface)
func (e *EbitenRenderer) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		e.log.Info("main window opened", zap.Int("width", w), zap.Int("height", h))
	}

	g := e.currentGame()
	if g != nil && g.Quit() {
		return ebiten.Termination
	}

	e.ticker.Tick(time.Second / time.Duration(ebiten.TPS()))
	if g != nil {
		if grid := g.Grid(); grid != nil {
			grid.Update()
		}
	}

	if intent := e.checkInput(); intent.Action != engineinput.ActionNone {
		// Non-blocking send to input channel
		select {
		case e.inputChan <- intent:
		default:
			e.log.Debug("input dropped", zap.String("action", engineinput.ActionName(intent.Action)))
		}
	}
	return nil
}

// checkInput polls the mouse, then the keyboard, and returns the first
// event that resolves to an action.
func (e *EbitenRenderer) checkInput() engineinput.Intent {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return e.pointerIntent("left_click")
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		return e.pointerIntent("right_click")
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
	for _, k := range e.keys {
		if intent := keyIntent(keyCode(k, ctrl, shift)); intent.Action != engineinput.ActionNone {
			return intent
		}
	}

	for _, k := range repeatKeys {
		d := inpututil.KeyPressDuration(k)
		if d > keyRepeatInitialDelay && (d-keyRepeatInitialDelay)%keyRepeatInterval == 0 {
			return keyIntent(namedKeys[k])
		}
	}
	return engineinput.Intent{}
}

func keyIntent(code string) engineinput.Intent {
	if code == "" {
		return engineinput.Intent{}
	}
	return engineinput.Resolve(engineinput.RawInput{
		Device:    engineinput.DeviceKeyboard,
		Code:      code,
		Timestamp: time.Now(),
	})
}

// pointerIntent resolves a click at the cursor position, carrying the
// position in layout space of the live board.
func (e *EbitenRenderer) pointerIntent(code string) engineinput.Intent {
	x, y := ebiten.CursorPosition()
	return engineinput.Resolve(engineinput.RawInput{
		Device:    engineinput.DeviceMouse,
		Code:      code,
		Point:     e.geo.toLayout(float64(x), float64(y)),
		HasPoint:  e.geo.valid,
		Timestamp: time.Now(),
	})
}

// keyCode names a key press the way the bindings do: "u", "ctrl_z", "?".
func keyCode(k ebiten.Key, ctrl, shift bool) string {
	if k == ebiten.KeySlash && shift {
		return "?"
	}
	if code, ok := namedKeys[k]; ok {
		return code
	}
	name := k.String()
	if len(name) != 1 {
		return ""
	}
	code := strings.ToLower(name)
	if ctrl {
		return "ctrl_" + code
	}
	return code
}
