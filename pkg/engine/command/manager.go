package command

import (
	"context"
	"sync"

	"github.com/zyedidia/generic/list"
	"github.com/zyedidia/generic/stack"
	"go.uber.org/zap"
)

// DefaultMaxHistory is the undo depth used when none is given.
const DefaultMaxHistory = 50

// Manager runs commands and keeps a bounded undo history and a redo stack.
// Only one Execute, Undo or Redo may be in flight at a time; a call made
// while another is running is rejected.
type Manager struct {
	log *zap.Logger
	max int

	busy sync.Mutex

	mu      sync.Mutex
	undo    *list.List[Command] // Back is the most recent
	undoLen int
	redo    *stack.Stack[Command]

	OnExecuted func(Command)
	OnUndone   func(Command)
	OnRedone   func(Command)
}

// NewManager creates a manager keeping at most maxHistory undo entries.
// A non-positive maxHistory selects DefaultMaxHistory; a nil logger logs
// nothing.
func NewManager(maxHistory int, logger *zap.Logger) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		log:  logger,
		max:  maxHistory,
		undo: list.New[Command](),
		redo: stack.New[Command](),
	}
}

// MaxHistory returns the undo capacity.
func (m *Manager) MaxHistory() int {
	return m.max
}

// Execute runs cmd and, on success, records it for undo and clears the redo
// stack. It returns false if cmd is nil, fails, or another call is in flight.
func (m *Manager) Execute(ctx context.Context, cmd Command) bool {
	if cmd == nil {
		return false
	}
	if !m.busy.TryLock() {
		m.log.Warn("command rejected, manager busy", zap.String("command", cmd.Description()))
		return false
	}
	defer m.busy.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		m.log.Error("failed to execute command", zap.String("command", cmd.Description()), zap.Error(err))
		return false
	}

	m.mu.Lock()
	m.pushUndo(cmd)
	m.redo = stack.New[Command]()
	m.mu.Unlock()

	m.log.Info("executed command", zap.String("command", cmd.Description()))
	if m.OnExecuted != nil {
		m.OnExecuted(cmd)
	}
	return true
}

// Undo reverses the most recent command. A command that reports
// CanUndo() == false stays at the top of the history and Undo returns false.
// If the command's Undo fails it is put back where it was.
func (m *Manager) Undo(ctx context.Context) bool {
	if !m.busy.TryLock() {
		return false
	}
	defer m.busy.Unlock()

	m.mu.Lock()
	if m.undo.Back == nil {
		m.mu.Unlock()
		return false
	}
	cmd := m.undo.Back.Value
	if !cmd.CanUndo() {
		m.mu.Unlock()
		m.log.Warn("command cannot be undone", zap.String("command", cmd.Description()))
		return false
	}
	m.popUndo()
	m.mu.Unlock()

	if err := cmd.Undo(ctx); err != nil {
		m.mu.Lock()
		m.pushUndo(cmd)
		m.mu.Unlock()
		m.log.Error("failed to undo command", zap.String("command", cmd.Description()), zap.Error(err))
		return false
	}

	m.mu.Lock()
	m.redo.Push(cmd)
	m.mu.Unlock()

	m.log.Info("undone command", zap.String("command", cmd.Description()))
	if m.OnUndone != nil {
		m.OnUndone(cmd)
	}
	return true
}

// Redo re-executes the most recently undone command. On failure the command
// stays on the redo stack.
func (m *Manager) Redo(ctx context.Context) bool {
	if !m.busy.TryLock() {
		return false
	}
	defer m.busy.Unlock()

	m.mu.Lock()
	if m.redo.Size() == 0 {
		m.mu.Unlock()
		return false
	}
	cmd := m.redo.Pop()
	m.mu.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		m.mu.Lock()
		m.redo.Push(cmd)
		m.mu.Unlock()
		m.log.Error("failed to redo command", zap.String("command", cmd.Description()), zap.Error(err))
		return false
	}

	m.mu.Lock()
	m.pushUndo(cmd)
	m.mu.Unlock()

	m.log.Info("redone command", zap.String("command", cmd.Description()))
	if m.OnRedone != nil {
		m.OnRedone(cmd)
	}
	return true
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = list.New[Command]()
	m.undoLen = 0
	m.redo = stack.New[Command]()
	m.log.Debug("command history cleared")
}

// CanUndo reports whether there is anything on the undo stack.
func (m *Manager) CanUndo() bool {
	return m.UndoCount() > 0
}

// CanRedo reports whether there is anything on the redo stack.
func (m *Manager) CanRedo() bool {
	return m.RedoCount() > 0
}

// UndoCount returns the number of undoable entries.
func (m *Manager) UndoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.undoLen
}

// RedoCount returns the number of redoable entries.
func (m *Manager) RedoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redo.Size()
}

// UndoHistory returns up to n descriptions, most recent first.
func (m *Manager) UndoHistory(n int) []string {
	if n <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	history := make([]string, 0, min(n, m.undoLen))
	for node := m.undo.Back; node != nil && len(history) < n; node = node.Prev {
		history = append(history, node.Value.Description())
	}
	return history
}

// pushUndo appends cmd and evicts the oldest entries over capacity.
// m.mu must be held.
func (m *Manager) pushUndo(cmd Command) {
	m.undo.PushBack(cmd)
	m.undoLen++
	for m.undoLen > m.max {
		m.undo.Remove(m.undo.Front)
		m.undoLen--
	}
}

// popUndo removes the most recent entry. m.mu must be held.
func (m *Manager) popUndo() {
	m.undo.Remove(m.undo.Back)
	m.undoLen--
}
