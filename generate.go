package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fours/pkg/game/generator"
	"fours/pkg/game/level"
	"fours/pkg/game/progression"
)

// Generate flags
var (
	genParams  = generator.DefaultParams
	genPattern string
	genSeed    int64
	genOut     string

	// randomLevels replaces the built-in pack with generated levels.
	randomLevels int
)

// newRand seeds from seed, or from the clock when seed is zero.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gen, ok := generator.ByName(genPattern)
	if !ok {
		return fmt.Errorf("unknown pattern %q (want blocks or stripes)", genPattern)
	}

	l, steps, err := generator.Generate(newRand(genSeed), gen, genParams)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Debug("level generated",
			zap.String("pattern", gen.Name()),
			zap.Int("turns", len(steps)),
			zap.Int64("seed", genSeed))
	}

	data, err := level.Marshal(l)
	if err != nil {
		return err
	}
	if genOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(genOut, data, 0o644); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, solvable in %d moves)\n", genOut, l.Rows, l.Columns, len(steps))
	return nil
}

// randomPack generates n levels with the generate flags' defaults.
func randomPack(n int, seed int64) (*progression.Pack, error) {
	levels, err := generator.Pack(newRand(seed), generator.DefaultGenerator, generator.DefaultParams, n)
	if err != nil {
		return nil, err
	}
	return progression.NewPack(levels)
}
