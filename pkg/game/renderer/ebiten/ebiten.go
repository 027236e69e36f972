// Package ebiten is the graphical host. Ebiten owns the main goroutine and
// the frame loop; gameplay runs on its own goroutine and receives intents
// over a channel, so rotations animate while the player's command waits for
// them to finish.
package ebiten

import (
	"image/color"
	"sync"

	gcolor "github.com/gookit/color"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"fours/pkg/engine/board"
	"fours/pkg/engine/i18n"
	engineinput "fours/pkg/engine/input"
	"fours/pkg/game/renderer"
	"fours/pkg/game/state"
)

// Options configures the host.
type Options struct {
	// Ticker animates rotations; it is advanced once per frame.
	Ticker *board.Ticker
	// TileSize is the on-screen size of one cell in pixels.
	TileSize int
	// Spacing is the layout distance between neighbouring slots.
	Spacing float64
	Logger  *zap.Logger
}

// EbitenRenderer is the Ebiten-based graphical renderer
type EbitenRenderer struct {
	ticker   *board.Ticker
	tileSize int
	spacing  float64
	log      *zap.Logger

	// tile is a white square tinted and transformed for every cell.
	tile *ebiten.Image

	// geo is the board placement from the last Draw, used to map the
	// pointer back into layout space.
	geo  geometry
	keys []ebiten.Key

	gameMutex sync.RWMutex
	game      *state.Game

	// Input channel for communication between Ebiten and game loop
	inputChan chan engineinput.Intent
	done      chan struct{}
	closeOnce sync.Once

	windowOpenedLogged bool
}

// New creates an Ebiten renderer.
func New(opts Options) *EbitenRenderer {
	if opts.Ticker == nil {
		opts.Ticker = board.NewTicker(0, 0)
	}
	if opts.TileSize <= 0 {
		opts.TileSize = 64
	}
	if opts.Spacing <= 0 {
		opts.Spacing = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &EbitenRenderer{
		ticker:    opts.Ticker,
		tileSize:  opts.TileSize,
		spacing:   opts.Spacing,
		log:       opts.Logger,
		inputChan: make(chan engineinput.Intent, inputBuffer),
		done:      make(chan struct{}),
	}
}

// Init initializes the Ebiten renderer
func (e *EbitenRenderer) Init() {
	ebiten.SetWindowTitle(i18n.T("TITLE"))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(windowMinWidth, windowMinHeight)

	e.tile = ebiten.NewImage(e.tileSize, e.tileSize)
	e.tile.Fill(color.White)
}

// SizeWindow fits the window to two boards of rows x cols.
func (e *EbitenRenderer) SizeWindow(rows, cols int) {
	w := 2*cols*e.tileSize + 3*boardMargin
	h := rows*e.tileSize + headerHeight + messagesHeight + 2*boardMargin
	ebiten.SetWindowSize(max(w, windowMinWidth), max(h, windowMinHeight))
}

// Clear is a no-op: every frame is drawn from scratch.
func (e *EbitenRenderer) Clear() {}

// RenderFrame hands the game to the draw loop.
func (e *EbitenRenderer) RenderFrame(g *state.Game) {
	e.gameMutex.Lock()
	defer e.gameMutex.Unlock()
	e.game = g
}

func (e *EbitenRenderer) currentGame() *state.Game {
	e.gameMutex.RLock()
	defer e.gameMutex.RUnlock()
	return e.game
}

// GetInput blocks until the window produces an intent. It returns
// input.ErrClosed once the window has closed.
func (e *EbitenRenderer) GetInput() (engineinput.Intent, error) {
	select {
	case intent := <-e.inputChan:
		return intent, nil
	case <-e.done:
		return engineinput.Intent{}, engineinput.ErrClosed
	}
}

// StyleText returns text unchanged: the debug font has a single colour.
func (e *EbitenRenderer) StyleText(text string, _ renderer.TextStyle) string {
	return text
}

// FormatText expands markup to plain text.
func (e *EbitenRenderer) FormatText(msg string, args ...any) string {
	return renderer.Markup(msg, args, renderer.Plain)
}

// ShowMessage adds msg to the game's message log.
func (e *EbitenRenderer) ShowMessage(msg string) {
	if g := e.currentGame(); g != nil {
		g.AddMessage(msg)
	}
}

// Run starts the Ebiten game loop on the calling goroutine, which must be
// the main one. It returns when the window closes or the game quits.
func (e *EbitenRenderer) Run() error {
	defer e.Close()
	err := ebiten.RunGame(e)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// Close releases any goroutine blocked in GetInput.
func (e *EbitenRenderer) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

// Layout returns the game's logical screen size (Ebiten interface)
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// hexColor converts a #rrggbb level colour for drawing.
func hexColor(hex string) color.RGBA {
	rgb := gcolor.Hex2rgb(hex)
	if len(rgb) != 3 {
		return colorInactive
	}
	return color.RGBA{uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2]), 255}
}
