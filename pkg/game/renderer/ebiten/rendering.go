package ebiten

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"fours/pkg/engine/board"
	"fours/pkg/engine/i18n"
	"fours/pkg/game/progression"
	"fours/pkg/game/state"
)

// geometry places the two boards on screen. Board centres are in pixels;
// unit is pixels per layout unit.
type geometry struct {
	valid  bool
	live   board.Point
	target board.Point
	tile   float64
	unit   float64
}

// toLayout maps a screen position to layout space of the live board.
func (g geometry) toLayout(x, y float64) board.Point {
	if !g.valid || g.unit == 0 {
		return board.Point{}
	}
	return board.Point{X: (x - g.live.X) / g.unit, Y: (y - g.live.Y) / g.unit}
}

// toScreen maps a layout position on the board centred at origin to pixels.
func (g geometry) toScreen(origin, p board.Point) (float64, float64) {
	return origin.X + p.X*g.unit, origin.Y + p.Y*g.unit
}

// place lays two rows x cols boards side by side in a width x height
// window, shrinking tiles that would not fit.
func (e *EbitenRenderer) place(width, height, rows, cols int) geometry {
	top := float64(headerHeight + boardMargin)
	bottom := float64(height - messagesHeight - boardMargin)
	half := float64(width) / 2

	tile := float64(e.tileSize)
	if fit := (half - 1.5*boardMargin) / float64(cols); fit < tile {
		tile = fit
	}
	if fit := (bottom - top) / float64(rows); fit < tile {
		tile = fit
	}
	if tile < 1 {
		return geometry{}
	}

	cy := (top + bottom) / 2
	return geometry{
		valid:  true,
		live:   board.Point{X: half / 2, Y: cy},
		target: board.Point{X: half + half/2, Y: cy},
		tile:   tile,
		unit:   tile / e.spacing,
	}
}

// Draw renders the game to the screen (Ebiten interface)
func (e *EbitenRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g := e.currentGame()
	if g == nil || g.Grid() == nil || e.tile == nil {
		return
	}
	grid := g.Grid()
	screenWidth, screenHeight := screen.Bounds().Dx(), screen.Bounds().Dy()
	cursor := g.Cursor()

	grid.View(func(live, target *board.Grid, groups []*board.Group, selected *board.Group) {
		e.geo = e.place(screenWidth, screenHeight, live.Rows(), live.Cols())
		if !e.geo.valid {
			return
		}
		e.drawBoardBackground(screen, e.geo.live, live)
		e.drawBoardBackground(screen, e.geo.target, target)
		e.drawCells(screen, e.geo.target, target)
		e.drawCells(screen, e.geo.live, live)

		if group := board.FindByTopLeft(groups, cursor); group != nil {
			e.drawOutline(screen, group.Center, colorCursor)
		}
		if selected != nil && !grid.IsRotating() {
			e.drawOutline(screen, selected.Center, colorSelected)
		}
	})

	e.drawHeader(screen, g)
	e.drawMessages(screen, g, screenWidth, screenHeight)
}

func (e *EbitenRenderer) drawBoardBackground(screen *ebiten.Image, origin board.Point, grid *board.Grid) {
	w := float64(grid.Cols())*e.geo.tile + boardMargin/2
	h := float64(grid.Rows())*e.geo.tile + boardMargin/2
	vector.DrawFilledRect(screen, float32(origin.X-w/2), float32(origin.Y-h/2), float32(w), float32(h), colorMapBackground, true)
}

// drawCells draws every cell at its transform. Cells scaled up by a rotation
// in flight are drawn last so they pass over their neighbours.
func (e *EbitenRenderer) drawCells(screen *ebiten.Image, origin board.Point, grid *board.Grid) {
	var lifted []*board.Cell
	grid.ForEachCell(func(_, _ int, cell *board.Cell) {
		if cell.Transform.Scale > 1 {
			lifted = append(lifted, cell)
			return
		}
		e.drawCell(screen, origin, cell)
	})
	for _, cell := range lifted {
		e.drawCell(screen, origin, cell)
	}
}

func (e *EbitenRenderer) drawCell(screen *ebiten.Image, origin board.Point, cell *board.Cell) {
	t := cell.Transform
	x, y := e.geo.toScreen(origin, t.Position())
	size := e.geo.tile * (1 - cellInset) * t.Scale
	half := float64(e.tileSize) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-half, -half)
	op.GeoM.Scale(size/float64(e.tileSize), size/float64(e.tileSize))
	op.GeoM.Rotate(t.Angle * math.Pi / 180)
	op.GeoM.Translate(x, y)
	if cell.Active() {
		op.ColorScale.ScaleWithColor(hexColor(cell.Color))
	} else {
		op.ColorScale.ScaleWithColor(colorInactive)
	}
	screen.DrawImage(e.tile, op)
}

// drawOutline frames the 2x2 block around a group centre.
func (e *EbitenRenderer) drawOutline(screen *ebiten.Image, centre board.Point, clr color.Color) {
	x, y := e.geo.toScreen(e.geo.live, centre)
	size := 2 * e.geo.tile
	vector.StrokeRect(screen, float32(x-size/2), float32(y-size/2), float32(size), float32(size), outlineWidth, clr, true)
}

func (e *EbitenRenderer) drawHeader(screen *ebiten.Image, g *state.Game) {
	grid := g.Grid()
	ebitenutil.DebugPrintAt(screen, i18n.Tf("LEVEL_HEADER", g.Level()+1, grid.Level().Name), boardMargin, 8)

	status := i18n.Tf("MOVES_REMAINING", grid.MovesRemaining())
	if g.HasCompleted(g.Level()) {
		status += "   " + i18n.Tf("BEST_STARS", progression.StarString(g.BestStars(g.Level())))
	}
	ebitenutil.DebugPrintAt(screen, status, boardMargin, 8+lineHeight)

	if e.geo.valid {
		label := i18n.T("TARGET")
		ebitenutil.DebugPrintAt(screen, label, int(e.geo.target.X)-len(label)*3, headerHeight)
	}
}

func (e *EbitenRenderer) drawMessages(screen *ebiten.Image, g *state.Game, screenWidth, screenHeight int) {
	top := screenHeight - messagesHeight
	vector.DrawFilledRect(screen, 0, float32(top), float32(screenWidth), messagesHeight, colorPanelBackground, true)

	msgs := g.Messages()
	for i, msg := range msgs {
		ebitenutil.DebugPrintAt(screen, msg, boardMargin, top+8+i*lineHeight)
	}
}
