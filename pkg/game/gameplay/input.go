package gameplay

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fours/pkg/engine/board"
	"fours/pkg/engine/command"
	"fours/pkg/engine/i18n"
	engineinput "fours/pkg/engine/input"
	"fours/pkg/game/devtools"
	"fours/pkg/game/playable"
)

// ProcessIntent handles a high-level input intent from the tiered input
// system. Rotations block until their animation has played, so hosts with an
// animated board call it off their frame loop.
func (s *Session) ProcessIntent(ctx context.Context, intent engineinput.Intent) {
	// Completion screen: only quit and dump still act
	if s.AllComplete() && intent.Action != engineinput.ActionQuit && intent.Action != engineinput.ActionDebugDump {
		return
	}

	switch intent.Action {
	case engineinput.ActionNone:
		return

	case engineinput.ActionQuit:
		logMessage(s.Game, i18n.T("GOODBYE"))
		s.RequestQuit()
		return

	case engineinput.ActionHelp:
		logMessage(s.Game, i18n.T("HELP"))
		return

	case engineinput.ActionCursorUp:
		s.MoveCursor(-1, 0)
		return

	case engineinput.ActionCursorDown:
		s.MoveCursor(1, 0)
		return

	case engineinput.ActionCursorLeft:
		s.MoveCursor(0, -1)
		return

	case engineinput.ActionCursorRight:
		s.MoveCursor(0, 1)
		return

	case engineinput.ActionSelect:
		s.selectGroup(ctx, intent)
		return

	case engineinput.ActionRotateClockwise:
		s.rotateGroup(ctx, intent, board.Clockwise)
		return

	case engineinput.ActionRotateCounterClockwise:
		s.rotateGroup(ctx, intent, board.CounterClockwise)
		return

	case engineinput.ActionUndo:
		s.undo(ctx)
		return

	case engineinput.ActionRedo:
		s.redo(ctx)
		return

	case engineinput.ActionResetLevel:
		if err := s.ResetLevel(); err != nil {
			s.report(err)
		}
		return

	case engineinput.ActionNextLevel:
		if !s.Grid().Completed() {
			logMessage(s.Game, i18n.T("LEVEL_NOT_FINISHED"))
			return
		}
		if _, err := s.AdvanceLevel(); err != nil {
			s.report(err)
		}
		return

	case engineinput.ActionDebugDump:
		path, err := devtools.DumpToFile(s.Game, s.DumpDir)
		if err != nil {
			logMessage(s.Game, i18n.Tf("DUMP_FAILED", err))
			return
		}
		if shot, err := devtools.SaveScreenshotHTML(s.Game, s.DumpDir); err != nil {
			s.log.Warn("screenshot failed", zap.Error(err))
		} else {
			s.log.Info("screenshot saved", zap.String("path", shot))
		}
		logMessage(s.Game, i18n.Tf("DUMP_SAVED", path))
		return
	}

	logMessage(s.Game, i18n.T("UNKNOWN_COMMAND"))
}

// target resolves the group an intent points at: the group under the
// pointer for pointer input, otherwise the one under the cursor.
func (s *Session) target(intent engineinput.Intent) (board.Index, bool) {
	if intent.HasPoint {
		group := s.Grid().PickAt(intent.Point)
		if group == nil {
			return board.Index{}, false
		}
		s.SetCursor(group.TopLeftIndex)
		return group.TopLeftIndex, true
	}
	return s.Cursor(), true
}

func (s *Session) selectGroup(ctx context.Context, intent engineinput.Intent) {
	idx, ok := s.target(intent)
	if !ok {
		logMessage(s.Game, i18n.T("NO_GROUP_HERE"))
		return
	}
	if err := s.Grid().SelectAt(ctx, idx); err != nil {
		s.report(err)
	}
}

func (s *Session) rotateGroup(ctx context.Context, intent engineinput.Intent, dir board.Direction) {
	grid := s.Grid()
	idx, ok := s.target(intent)
	if !ok {
		// A click outside the board turns the selection.
		if err := grid.Rotate(ctx, dir); err != nil {
			s.report(err)
		}
		return
	}
	if err := grid.RotateAt(ctx, idx, dir); err != nil {
		s.report(err)
	}
}

func (s *Session) undo(ctx context.Context) {
	grid := s.Grid()
	last := grid.History(1)
	if err := grid.Undo(ctx); err != nil {
		s.report(err)
		return
	}
	if len(last) > 0 {
		logMessage(s.Game, i18n.Tf("UNDONE", last[0]))
	}
}

func (s *Session) redo(ctx context.Context) {
	grid := s.Grid()
	if err := grid.Redo(ctx); err != nil {
		s.report(err)
		return
	}
	if last := grid.History(1); len(last) > 0 {
		logMessage(s.Game, i18n.Tf("REDONE", last[0]))
	}
}

// report turns a failed action into a message for the player.
func (s *Session) report(err error) {
	s.log.Debug("action failed", zap.Error(err))

	switch {
	case errors.Is(err, playable.ErrNoSelection):
		logMessage(s.Game, i18n.T("NO_GROUP_SELECTED"))
	case errors.Is(err, playable.ErrNoGroup):
		logMessage(s.Game, i18n.T("NO_GROUP_HERE"))
	case errors.Is(err, playable.ErrRotating):
		logMessage(s.Game, i18n.T("ROTATION_IN_PROGRESS"))
	case errors.Is(err, playable.ErrLevelOver):
		logMessage(s.Game, i18n.T("LEVEL_OVER"))
	case errors.Is(err, playable.ErrNothingToUndo):
		logMessage(s.Game, i18n.T("NOTHING_TO_UNDO"))
	case errors.Is(err, playable.ErrNothingToRedo):
		logMessage(s.Game, i18n.T("NOTHING_TO_REDO"))
	case errors.Is(err, command.ErrStaleGroup), errors.Is(err, playable.ErrCommandFailed):
		logMessage(s.Game, i18n.T("COMMAND_FAILED"))
	case errors.Is(err, context.Canceled):
	default:
		s.log.Error("action failed", zap.Error(err))
		logMessage(s.Game, i18n.T("COMMAND_FAILED"))
	}
}
