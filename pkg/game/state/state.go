// Package state holds the session: which level is in play, the cursor, the
// message log and the results earned so far.
package state

import (
	"sync"

	"github.com/zyedidia/generic/mapset"

	"fours/pkg/engine/board"
	"fours/pkg/game/events"
	"fours/pkg/game/playable"
	"fours/pkg/game/progression"
)

// MaxMessages is the length of the message log.
const MaxMessages = 5

// Game is the session state. Hosts render it from their own goroutine, so
// every mutable field sits behind mu.
type Game struct {
	Pack  *progression.Pack
	Buses *events.Buses

	mu          sync.RWMutex
	grid        *playable.Grid
	level       int
	cursor      board.Index
	messages    []string
	completed   mapset.Set[int]
	bestStars   map[int]int
	allComplete bool
	quit        bool
}

// NewGame creates a session over pack, starting at the first level.
func NewGame(pack *progression.Pack, buses *events.Buses) *Game {
	return &Game{
		Pack:      pack,
		Buses:     buses,
		messages:  make([]string, 0, MaxMessages),
		completed: mapset.New[int](),
		bestStars: make(map[int]int),
	}
}

// Grid returns the level in play, or nil before the first load.
func (g *Game) Grid() *playable.Grid {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.grid
}

// Level returns the 0-based index of the level in play.
func (g *Game) Level() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.level
}

// SetGrid installs grid as level id and homes the cursor.
func (g *Game) SetGrid(grid *playable.Grid, id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grid = grid
	g.level = id
	g.cursor = board.Index{}
}

// Cursor returns the anchor of the group under the cursor.
func (g *Game) Cursor() board.Index {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cursor
}

// SetCursor moves the cursor to idx, clamped to the group anchors.
func (g *Game) SetCursor(idx board.Index) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor = g.clamp(idx)
}

// MoveCursor shifts the cursor by (dRow, dCol), staying on the board.
func (g *Game) MoveCursor(dRow, dCol int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor = g.clamp(board.Index{Row: g.cursor.Row + dRow, Col: g.cursor.Col + dCol})
}

// clamp keeps idx within the anchors of the current level. g.mu must be held.
func (g *Game) clamp(idx board.Index) board.Index {
	if g.grid == nil {
		return board.Index{}
	}
	lvl := g.grid.Level()
	idx.Row = max(0, min(idx.Row, lvl.Rows-2))
	idx.Col = max(0, min(idx.Col, lvl.Columns-2))
	return idx
}

// AddMessage adds a message to the game's message log
func (g *Game) AddMessage(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = append(g.messages, msg)

	// Keep only the last MaxMessages
	if len(g.messages) > MaxMessages {
		g.messages = g.messages[len(g.messages)-MaxMessages:]
	}
}

// Messages returns a copy of the message log, oldest first.
func (g *Game) Messages() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.messages...)
}

// ClearMessages clears all messages
func (g *Game) ClearMessages() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = g.messages[:0]
}

// RecordResult marks level id as finished with stars, keeping the best.
func (g *Game) RecordResult(id, stars int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed.Put(id)
	if stars > g.bestStars[id] {
		g.bestStars[id] = stars
	}
}

// HasCompleted reports whether level id was ever finished.
func (g *Game) HasCompleted(id int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.completed.Has(id)
}

// BestStars returns the best rating earned on level id.
func (g *Game) BestStars(id int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.bestStars[id]
}

// TotalStars sums the best ratings over every level.
func (g *Game) TotalStars() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, s := range g.bestStars {
		total += s
	}
	return total
}

// AllComplete reports whether the final level has been finished.
func (g *Game) AllComplete() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.allComplete
}

// SetAllComplete records that the pack is done.
func (g *Game) SetAllComplete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.allComplete = true
}

// Quit reports whether the player asked to leave.
func (g *Game) Quit() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.quit
}

// RequestQuit asks the host loop to stop.
func (g *Game) RequestQuit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quit = true
}
