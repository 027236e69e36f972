// Package playable is the interactive board: it owns a level's grid, the
// current group selection, the move budget and the undo history, and raises
// gameplay events as the player works the puzzle.
package playable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fours/pkg/engine/board"
	"fours/pkg/engine/command"
	"fours/pkg/engine/eventbus"
	"fours/pkg/engine/fsm"
	"fours/pkg/game/events"
	"fours/pkg/game/level"
)

var (
	ErrNoSelection   = errors.New("no group selected")
	ErrNoGroup       = errors.New("no group there")
	ErrRotating      = errors.New("rotation in progress")
	ErrLevelOver     = errors.New("level is over")
	ErrCommandFailed = errors.New("command failed")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Options configures a Grid. The zero value is usable: instant rotations,
// undo enabled with the default depth, no logging, private buses.
type Options struct {
	Animator    board.Animator
	MaxUndo     int
	DisableUndo bool
	Logger      *zap.Logger
	Buses       *events.Buses
	Layout      board.Layout
}

// Grid is a level in play.
//
// Only one rotation (forward, undo or redo) runs at a time; a second request
// made while one is in flight fails with ErrRotating rather than queueing.
// The rotation itself runs on the caller's goroutine, so a host with an
// animated Animator calls Rotate from a worker and keeps ticking the
// animator from its frame loop.
type Grid struct {
	log      *zap.Logger
	level    *level.Level
	animator board.Animator
	history  *command.Manager // nil when undo is disabled
	buses    *events.Buses
	layout   board.Layout

	rotating atomic.Bool

	mu         sync.RWMutex
	grid       *board.Grid
	target     *board.Grid
	targetSnap string
	checkWin   bool
	groups     []*board.Group
	selected   *board.Group
	remaining  int
	lastMove   string
	completed  bool
	lost       bool

	machineMu sync.Mutex
	machine   *fsm.Machine

	winSub *eventbus.Subscription[events.GroupRotated]
}

// New builds a playable grid for lvl.
func New(lvl *level.Level, opts Options) (*Grid, error) {
	if lvl == nil {
		return nil, errors.New("playable: nil level")
	}
	initial, err := lvl.Grid(false)
	if err != nil {
		return nil, err
	}
	target, err := lvl.Grid(true)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Animator == nil {
		opts.Animator = board.Instant{}
	}
	if opts.Buses == nil {
		opts.Buses = events.NewBuses()
	}
	if opts.Layout.Spacing <= 0 {
		opts.Layout = board.NewLayout(1)
	}

	g := &Grid{
		log:        opts.Logger.With(zap.String("level", lvl.Name)),
		level:      lvl,
		animator:   opts.Animator,
		buses:      opts.Buses,
		layout:     opts.Layout,
		grid:       initial,
		target:     target,
		targetSnap: target.Snapshot(),
		remaining:  lvl.MovesAllowed,
	}
	g.checkWin = hasActive(target)
	g.layout.Arrange(g.grid)
	g.layout.Arrange(g.target)
	g.groups = board.FindGroups(g.grid)
	g.lastMove = g.grid.Snapshot()

	if !opts.DisableUndo {
		g.history = command.NewManager(opts.MaxUndo, g.log)
		g.history.OnExecuted = func(c command.Command) { g.log.Debug("command executed", zap.String("command", c.Description())) }
		g.history.OnUndone = func(c command.Command) { g.log.Debug("command undone", zap.String("command", c.Description())) }
		g.history.OnRedone = func(c command.Command) { g.log.Debug("command redone", zap.String("command", c.Description())) }
	}

	g.machine = newMachine(g)
	g.winSub = eventbus.Subscribe(g.buses.GroupRotated, g.onGroupRotated)

	g.log.Info("level ready",
		zap.Int("rows", initial.Rows()),
		zap.Int("cols", initial.Cols()),
		zap.Int("groups", len(g.groups)),
		zap.Int("moves", g.remaining))
	return g, nil
}

// Close detaches the grid from its buses.
func (g *Grid) Close() error {
	return g.winSub.Close()
}

// Level returns the level being played.
func (g *Grid) Level() *level.Level {
	return g.level
}

// Buses returns the buses the grid raises events on.
func (g *Grid) Buses() *events.Buses {
	return g.buses
}

// Layout returns the layout the cells are arranged with.
func (g *Grid) Layout() board.Layout {
	return g.layout
}

// Selected implements command.Selector.
func (g *Grid) Selected() *board.Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selected
}

// SetSelected implements command.Selector.
func (g *Grid) SetSelected(group *board.Group) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = group
}

// IsRotating reports whether a rotation is in flight.
func (g *Grid) IsRotating() bool {
	return g.rotating.Load()
}

// MovesRemaining returns what is left of the move budget.
func (g *Grid) MovesRemaining() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.remaining
}

// MovesUsed counts consumed moves plus the one in progress, if the grid has
// changed since the last consumed move.
func (g *Grid) MovesUsed() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.movesUsed()
}

func (g *Grid) movesUsed() int {
	used := g.level.MovesAllowed - g.remaining
	if g.grid.Snapshot() != g.lastMove {
		used++
	}
	return used
}

// Completed reports whether the grid has matched the target.
func (g *Grid) Completed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.completed
}

// Lost reports whether the move budget ran out.
func (g *Grid) Lost() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lost
}

// Snapshot returns the grid's colour snapshot.
func (g *Grid) Snapshot() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.grid.Snapshot()
}

// CanUndo reports whether Undo has anything to do.
func (g *Grid) CanUndo() bool {
	return g.history != nil && g.history.CanUndo()
}

// CanRedo reports whether Redo has anything to do.
func (g *Grid) CanRedo() bool {
	return g.history != nil && g.history.CanRedo()
}

// History returns up to n undo descriptions, most recent first.
func (g *Grid) History(n int) []string {
	if g.history == nil {
		return nil
	}
	return g.history.UndoHistory(n)
}

// View calls fn with the live grid, the target grid, the current groups and
// the selection while holding the read lock. fn must not call back into g.
func (g *Grid) View(fn func(grid, target *board.Grid, groups []*board.Group, selected *board.Group)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(g.grid, g.target, g.groups, g.selected)
}

// Groups returns a copy of the current group list.
func (g *Grid) Groups() []*board.Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*board.Group(nil), g.groups...)
}

// GroupAt returns the current group anchored at idx, or nil.
func (g *Grid) GroupAt(idx board.Index) *board.Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return board.FindByTopLeft(g.groups, idx)
}

// PickAt returns the group whose centre is nearest p in layout space, within
// one cell spacing.
func (g *Grid) PickAt(p board.Point) *board.Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return board.PickGroup(g.groups, p, g.layout.Spacing)
}

// SelectAt selects the group anchored at idx.
func (g *Grid) SelectAt(ctx context.Context, idx board.Index) error {
	target := g.GroupAt(idx)
	if target == nil {
		return fmt.Errorf("%w: %v", ErrNoGroup, idx)
	}
	return g.Select(ctx, target)
}

// Select makes target the current group. Moving to a different group after
// the grid has changed since the last move consumes a move.
func (g *Grid) Select(ctx context.Context, target *board.Group) error {
	if err := g.ready(); err != nil {
		return err
	}
	prev := g.Selected()
	before := g.Snapshot()

	cmd, err := command.NewSelect(g, target)
	if err != nil {
		return err
	}
	if err := g.run(ctx, cmd); err != nil {
		return err
	}
	g.account(prev, target, before)
	return nil
}

// Rotate turns the selected group a quarter turn in dir.
func (g *Grid) Rotate(ctx context.Context, dir board.Direction) error {
	if !dir.IsValid() {
		return fmt.Errorf("rotate: %w", board.ErrInvalidDirection)
	}
	if err := g.ready(); err != nil {
		return err
	}
	selected := g.Selected()
	if selected == nil {
		return ErrNoSelection
	}
	return g.rotate(ctx, func() (command.Command, error) {
		return g.newRotation(selected, dir)
	}, selected.ID)
}

// RotateAt rotates the group anchored at idx, selecting it first when it is
// not already selected. Selection and rotation are recorded as one undo step.
func (g *Grid) RotateAt(ctx context.Context, idx board.Index, dir board.Direction) error {
	if !dir.IsValid() {
		return fmt.Errorf("rotate: %w", board.ErrInvalidDirection)
	}
	target := g.GroupAt(idx)
	if target == nil {
		return fmt.Errorf("%w: %v", ErrNoGroup, idx)
	}
	prev := g.Selected()
	if prev != nil && prev.TopLeftIndex == idx {
		return g.Rotate(ctx, dir)
	}
	if err := g.ready(); err != nil {
		return err
	}

	// Leaving prev is paid for before the new group turns.
	g.account(prev, target, g.Snapshot())
	if err := g.over(); err != nil {
		return err
	}
	return g.rotate(ctx, func() (command.Command, error) {
		sel, err := command.NewSelect(g, target)
		if err != nil {
			return nil, err
		}
		rot, err := g.newRotation(target, dir)
		if err != nil {
			return nil, err
		}
		return command.NewMacro(fmt.Sprintf("%s; %s", sel.Description(), rot.Description()), sel, rot), nil
	}, target.ID)
}

// Undo reverts the most recent command. Undoing never refunds moves.
func (g *Grid) Undo(ctx context.Context) error {
	if !g.CanUndo() {
		return ErrNothingToUndo
	}
	return g.replay(ctx, g.history.Undo)
}

// Redo re-applies the most recently undone command.
func (g *Grid) Redo(ctx context.Context) error {
	if !g.CanRedo() {
		return ErrNothingToRedo
	}
	return g.replay(ctx, g.history.Redo)
}

func (g *Grid) replay(ctx context.Context, step func(context.Context) bool) error {
	if err := g.over(); err != nil {
		return err
	}
	if !g.rotating.CompareAndSwap(false, true) {
		return ErrRotating
	}
	defer g.rotating.Store(false)

	if !step(ctx) {
		return ErrCommandFailed
	}
	g.refresh()

	id := uuid.Nil
	if sel := g.Selected(); sel != nil {
		id = sel.ID
	}
	g.raiseRotated(id)
	return nil
}

func (g *Grid) newRotation(group *board.Group, dir board.Direction) (*command.RotateGroup, error) {
	cmd, err := command.NewRotateGroup(group, g.grid, dir, g.animator)
	if err != nil {
		return nil, err
	}
	cmd.SetGuard(&g.mu)
	return cmd, nil
}

// rotate runs the command built by build behind the rotation gate, then
// rescans and reports the change.
func (g *Grid) rotate(ctx context.Context, build func() (command.Command, error), id uuid.UUID) error {
	if !g.rotating.CompareAndSwap(false, true) {
		return ErrRotating
	}
	defer g.rotating.Store(false)

	cmd, err := build()
	if err != nil {
		return err
	}
	if err := g.run(ctx, cmd); err != nil {
		return err
	}
	g.refresh()
	g.raiseRotated(id)
	return nil
}

// run executes cmd through the history, or directly when undo is off.
func (g *Grid) run(ctx context.Context, cmd command.Command) error {
	if g.history == nil {
		return cmd.Execute(ctx)
	}
	if !g.history.Execute(ctx, cmd) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrCommandFailed, cmd.Description())
	}
	return nil
}

// ready rejects player actions once the level is over or while a rotation
// is running.
func (g *Grid) ready() error {
	if err := g.over(); err != nil {
		return err
	}
	if g.rotating.Load() {
		return ErrRotating
	}
	return nil
}

func (g *Grid) over() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.completed || g.lost {
		return ErrLevelOver
	}
	return nil
}

// refresh rebuilds the group list after the grid changed, re-resolves the
// selection by its anchor and snaps every cell back onto its slot.
func (g *Grid) refresh() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.groups = board.FindGroups(g.grid)
	if g.selected != nil {
		g.selected = board.FindByTopLeft(g.groups, g.selected.TopLeftIndex)
	}
	g.layout.Arrange(g.grid)
	g.log.Debug("groups rescanned", zap.Int("groups", len(g.groups)))
}

// account consumes a move when the player moved to a different group and
// the grid differs from the snapshot taken at the last consumed move.
// before is the grid as it was when the player left prev.
func (g *Grid) account(prev, next *board.Group, before string) {
	if prev == nil || next == nil || prev.TopLeftIndex == next.TopLeftIndex {
		return
	}

	g.mu.Lock()
	if before == g.lastMove || g.remaining <= 0 || g.completed || g.lost {
		g.mu.Unlock()
		return
	}
	g.lastMove = before
	g.remaining--
	remaining := g.remaining
	lost := remaining == 0
	g.lost = lost
	g.mu.Unlock()

	g.log.Info("move used", zap.Int("remaining", remaining))
	g.raise(g.buses.PlayerMoved.Raise(events.PlayerMoved{GridSnapshot: before, MovesRemaining: remaining}))
	if lost {
		g.log.Info("no moves remaining")
		g.raise(g.buses.LevelLost.Raise(events.LevelLost{}))
	}
}

func (g *Grid) raiseRotated(id uuid.UUID) {
	g.raise(g.buses.GroupRotated.Raise(events.GroupRotated{GroupID: id, GridSnapshot: g.Snapshot()}))
}

func (g *Grid) raise(err error) {
	if err != nil {
		g.log.Error("event subscriber failed", zap.Error(err))
	}
}

func hasActive(grid *board.Grid) bool {
	active := false
	grid.ForEachCell(func(_, _ int, c *board.Cell) {
		if c.Active() {
			active = true
		}
	})
	return active
}
