package playable

import (
	"go.uber.org/zap"

	"fours/pkg/game/events"
)

// onGroupRotated completes the level once the grid matches the target.
func (g *Grid) onGroupRotated(ev events.GroupRotated) {
	if !g.checkWin || ev.GridSnapshot != g.targetSnap {
		return
	}

	g.mu.Lock()
	if g.completed || g.lost || !g.grid.Matches(g.targetSnap) {
		g.mu.Unlock()
		return
	}
	g.completed = true
	used := g.movesUsed()
	g.mu.Unlock()

	stars := g.level.StarsFor(used)
	g.log.Info("level completed", zap.Int("moves_used", used), zap.Int("stars", stars))
	g.raise(g.buses.LevelCompleted.Raise(events.LevelCompleted{MovesUsed: used, Stars: stars}))
}
