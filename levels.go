package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fours/pkg/game/level"
	"fours/pkg/game/menu"
	"fours/pkg/game/progression"
)

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var errs error
	for _, file := range args {
		l, err := level.Load(file)
		if err != nil {
			fmt.Fprintf(out, "ERROR in %s: %v\n", file, err)
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(out, "OK: %s (%q, %dx%d, %d moves)\n", file, l.Name, l.Rows, l.Columns, l.MovesAllowed)
	}
	if errs != nil {
		if logger != nil {
			logger.Debug("validation failed", zap.Int("files", len(multierr.Errors(errs))))
		}
		return fmt.Errorf("%d of %d level files invalid", len(multierr.Errors(errs)), len(args))
	}
	return nil
}

func runLevels(cmd *cobra.Command, args []string) error {
	pack, err := progression.Builtin()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, d := range pack.Descriptors() {
		l, err := pack.Level(d.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%2d. %-20s %dx%d  %2d moves  stars at %d/%d/%d\n",
			d.ID+1, l.Name, l.Rows, l.Columns, l.MovesAllowed, l.Stars.Max, l.Stars.Mid, l.Stars.Min)
	}
	return nil
}

func runKeys(cmd *cobra.Command, args []string) error {
	return menu.Write(cmd.OutOrStdout(), menu.NewBindingsMenuHandler())
}
