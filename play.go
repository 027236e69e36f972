package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fours/pkg/engine/board"
	"fours/pkg/engine/input"
	"fours/pkg/game/config"
	"fours/pkg/game/gameplay"
	"fours/pkg/game/level"
	"fours/pkg/game/playable"
	"fours/pkg/game/progression"
	"fours/pkg/game/renderer"
	ebitenhost "fours/pkg/game/renderer/ebiten"
	"fours/pkg/game/renderer/tui"
)

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var pack *progression.Pack
	var err error
	if randomLevels > 0 {
		pack, err = randomPack(randomLevels, genSeed)
	} else {
		pack, err = loadPack(cfg.LevelFile)
	}
	if err != nil {
		return err
	}
	if startLevel < 1 || startLevel > pack.Len() {
		return fmt.Errorf("level %d out of range 1-%d", startLevel, pack.Len())
	}

	opts := gameOptions(cfg, logger)
	switch cfg.Renderer {
	case config.RendererEbiten:
		ticker := board.NewTicker(cfg.RotationDuration, cfg.RotationScale)
		opts.Animator = ticker
		return playEbiten(ctx, pack, opts, ticker)
	default:
		return playTUI(ctx, pack, opts)
	}
}

// loadPack returns the built-in pack, or a one-level pack for file.
func loadPack(file string) (*progression.Pack, error) {
	if file == "" {
		return progression.Builtin()
	}
	l, err := level.Load(file)
	if err != nil {
		return nil, err
	}
	return progression.NewPack([]*level.Level{l})
}

// gameOptions maps the settings onto the options every level is built with.
func gameOptions(c *config.Config, log *zap.Logger) playable.Options {
	return playable.Options{
		MaxUndo:     c.MaxUndoHistory,
		DisableUndo: !c.EnableUndo,
		Logger:      log,
		Layout:      board.NewLayout(c.Spacing),
	}
}

func playTUI(ctx context.Context, pack *progression.Pack, opts playable.Options) error {
	r := tui.New(input.NewReader(os.Stdin), os.Stdout)
	renderer.SetRenderer(r)
	renderer.Init()

	session, err := gameplay.BuildGame(pack, opts, startLevel-1)
	if err != nil {
		return err
	}
	defer session.Close()

	return runLoop(ctx, session, r)
}

// playEbiten runs gameplay on its own goroutine while Ebiten owns the
// calling one.
func playEbiten(ctx context.Context, pack *progression.Pack, opts playable.Options, ticker *board.Ticker) error {
	r := ebitenhost.New(ebitenhost.Options{
		Ticker:   ticker,
		TileSize: cfg.TileSize,
		Spacing:  cfg.Spacing,
		Logger:   logger,
	})
	renderer.SetRenderer(r)
	renderer.Init()

	session, err := gameplay.BuildGame(pack, opts, startLevel-1)
	if err != nil {
		return err
	}
	defer session.Close()

	lvl := session.Grid().Level()
	r.SizeWindow(lvl.Rows, lvl.Columns)
	r.RenderFrame(session.Game)

	ctx, cancel := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- runLoop(ctx, session, r)
	}()

	runErr := r.Run()
	cancel()
	if err := <-loopDone; err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// runLoop draws a frame, waits for an intent and applies it until the
// player quits or the input closes.
func runLoop(ctx context.Context, s *gameplay.Session, r renderer.Renderer) error {
	for !s.Quit() {
		r.Clear()
		r.RenderFrame(s.Game)

		intent, err := r.GetInput()
		if errors.Is(err, input.ErrClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		s.ProcessIntent(ctx, intent)
		if ctx.Err() != nil {
			return nil
		}
	}

	r.Clear()
	r.RenderFrame(s.Game)
	return nil
}
