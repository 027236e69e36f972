// Package gameplay provides core game logic: loading levels, moving between
// them and turning player intents into moves on the board.
package gameplay

import (
	"fmt"

	"go.uber.org/zap"

	"fours/pkg/engine/eventbus"
	"fours/pkg/engine/i18n"
	"fours/pkg/game/events"
	"fours/pkg/game/playable"
	"fours/pkg/game/progression"
	"fours/pkg/game/renderer"
	"fours/pkg/game/state"
)

// Session is a game in progress together with the options every level is
// built with.
type Session struct {
	*state.Game

	// DumpDir is where debug dumps are written; empty means the working
	// directory.
	DumpDir string

	opts playable.Options
	log  *zap.Logger
	subs []interface{ Close() error }
}

// BuildGame creates a session over pack and loads startLevel (0-based).
func BuildGame(pack *progression.Pack, opts playable.Options, startLevel int) (*Session, error) {
	if opts.Buses == nil {
		opts.Buses = events.NewBuses()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		Game: state.NewGame(pack, opts.Buses),
		opts: opts,
		log:  opts.Logger,
	}
	s.subscribe()

	if err := s.LoadLevel(startLevel); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// subscribe turns gameplay events into messages and results.
func (s *Session) subscribe() {
	b := s.Buses
	s.subs = append(s.subs,
		eventbus.Subscribe(b.LevelLoaded, func(ev events.LevelLoaded) {
			logMessage(s.Game, i18n.Tf("LEVEL_LOADED", ev.Index+1, ev.Name))
		}),
		eventbus.Subscribe(b.PlayerMoved, func(ev events.PlayerMoved) {
			logMessage(s.Game, i18n.Tf("MOVE_USED", ev.MovesRemaining))
		}),
		eventbus.Subscribe(b.LevelLost, func(events.LevelLost) {
			logMessage(s.Game, i18n.T("LEVEL_LOST"))
		}),
		eventbus.Subscribe(b.LevelCompleted, s.onLevelCompleted),
	)
}

func (s *Session) onLevelCompleted(ev events.LevelCompleted) {
	id := s.Level()
	s.RecordResult(id, ev.Stars)
	logMessage(s.Game, i18n.Tf("LEVEL_COMPLETED", ev.MovesUsed, progression.StarString(ev.Stars)+" "+progression.RatingText(ev.Stars)))

	if s.Pack.IsFinal(id) {
		s.SetAllComplete()
		logMessage(s.Game, i18n.Tf("ALL_LEVELS_COMPLETE", s.TotalStars()))
	}
}

// LoadLevel builds level id and makes it current. The previous level, if
// any, is detached from the buses.
func (s *Session) LoadLevel(id int) error {
	lvl, err := s.Pack.Level(id)
	if err != nil {
		return err
	}
	grid, err := playable.New(lvl, s.opts)
	if err != nil {
		return fmt.Errorf("load level %d: %w", id, err)
	}

	if old := s.Grid(); old != nil {
		_ = old.Close()
	}
	s.SetGrid(grid, id)
	s.ClearMessages()

	s.log.Info("level loaded", zap.Int("index", id), zap.String("name", lvl.Name))
	if err := s.Buses.LevelLoaded.Raise(events.LevelLoaded{Name: lvl.Name, Index: id}); err != nil {
		s.log.Error("event subscriber failed", zap.Error(err))
	}
	return nil
}

// ResetLevel restarts the current level from its initial layout.
func (s *Session) ResetLevel() error {
	if err := s.LoadLevel(s.Level()); err != nil {
		return err
	}
	logMessage(s.Game, i18n.T("LEVEL_RESET"))
	return nil
}

// AdvanceLevel moves to the next level. It reports false when the current
// level is the last one.
func (s *Session) AdvanceLevel() (bool, error) {
	next, ok := s.Pack.NextID(s.Level())
	if !ok {
		s.SetAllComplete()
		return false, nil
	}
	return true, s.LoadLevel(next)
}

// Close detaches the session from its buses.
func (s *Session) Close() {
	for _, sub := range s.subs {
		_ = sub.Close()
	}
	s.subs = nil
	if grid := s.Grid(); grid != nil {
		_ = grid.Close()
	}
}

// logMessage formats msg through the renderer's markup and adds it to the
// message log.
func logMessage(g *state.Game, msg string, a ...any) {
	formatted := renderer.ApplyMarkup(msg, a...)
	g.AddMessage(formatted)
}
