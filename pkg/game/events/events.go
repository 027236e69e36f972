// Package events defines the gameplay events raised by a playable grid and
// the set of buses that carry them.
package events

import (
	"github.com/google/uuid"

	"fours/pkg/engine/eventbus"
)

// GroupRotated is raised after a rotation (or its undo/redo) is committed.
type GroupRotated struct {
	GroupID      uuid.UUID
	GridSnapshot string
}

// PlayerMoved is raised each time a move is consumed from the budget.
type PlayerMoved struct {
	GridSnapshot   string
	MovesRemaining int
}

// LevelLost is raised when the move budget runs out.
type LevelLost struct{}

// LevelCompleted is raised when the grid matches the level's target.
type LevelCompleted struct {
	MovesUsed int
	Stars     int
}

// LevelLoaded is raised when a level has been built and is ready to play.
type LevelLoaded struct {
	Name  string
	Index int
}

// Buses holds one bus per event type. Every bus is listed in Registry under
// the event's name so they can be cleared together on teardown.
type Buses struct {
	GroupRotated   *eventbus.Bus[GroupRotated]
	PlayerMoved    *eventbus.Bus[PlayerMoved]
	LevelLost      *eventbus.Bus[LevelLost]
	LevelCompleted *eventbus.Bus[LevelCompleted]
	LevelLoaded    *eventbus.Bus[LevelLoaded]

	Registry *eventbus.Registry
}

// NewBuses creates and registers all buses.
func NewBuses() *Buses {
	b := &Buses{
		GroupRotated:   eventbus.New[GroupRotated](),
		PlayerMoved:    eventbus.New[PlayerMoved](),
		LevelLost:      eventbus.New[LevelLost](),
		LevelCompleted: eventbus.New[LevelCompleted](),
		LevelLoaded:    eventbus.New[LevelLoaded](),
		Registry:       eventbus.NewRegistry(),
	}
	b.Registry.Add("GroupRotated", b.GroupRotated)
	b.Registry.Add("PlayerMoved", b.PlayerMoved)
	b.Registry.Add("LevelLost", b.LevelLost)
	b.Registry.Add("LevelCompleted", b.LevelCompleted)
	b.Registry.Add("LevelLoaded", b.LevelLoaded)
	return b
}

// ClearAll drops every binding on every bus.
func (b *Buses) ClearAll() {
	b.Registry.ClearAll()
}
