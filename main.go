package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fours/pkg/engine/i18n"
	"fours/pkg/game/config"
	"fours/pkg/game/generator"
	"fours/pkg/game/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Play flags
	startLevel   int
	levelFile    string
	rendererName string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fours",
	Short: "Fours - rotate 2x2 groups of tiles until the board matches the target",
	Long: `Fours is a tile-rotation puzzle. Every level is a grid of coloured
tiles; any 2x2 block of active tiles can be turned a quarter turn.
Match the target layout within the move budget to earn up to three stars.

Run without arguments to play the built-in levels in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("renderer") {
			cfg.Renderer = rendererName
		}
		if cmd.Flags().Changed("file") {
			cfg.LevelFile = levelFile
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.LogLevel, cfg.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := i18n.Load(cfg.Locale); err != nil {
			return err
		}
		cfg.ApplyKeys()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPlay,
}

// playCmd starts a game
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the built-in levels or a single level file",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

// validateCmd checks level files
var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check that level files are well formed and solvable in shape",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

// generateCmd writes a random level
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random solvable level as YAML",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

// keysCmd lists the key bindings
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the key bindings, including overrides from the config file",
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

// levelsCmd lists the built-in levels
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the built-in levels",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fours.yaml", "Config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{rootCmd, playCmd} {
		cmd.Flags().IntVarP(&startLevel, "level", "l", 1, "Starting level number")
		cmd.Flags().StringVarP(&levelFile, "file", "f", "", "Play a single level file instead of the built-in pack")
		cmd.Flags().StringVarP(&rendererName, "renderer", "r", config.RendererTUI, "Renderer: tui or ebiten")
		cmd.Flags().IntVar(&randomLevels, "random", 0, "Play this many generated levels instead of the built-in pack")
		cmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (0 uses the clock)")
	}

	generateCmd.Flags().IntVar(&genParams.Rows, "rows", generator.DefaultParams.Rows, "Grid rows")
	generateCmd.Flags().IntVar(&genParams.Columns, "cols", generator.DefaultParams.Columns, "Grid columns")
	generateCmd.Flags().IntVar(&genParams.Colors, "colors", generator.DefaultParams.Colors, "Number of colours")
	generateCmd.Flags().IntVar(&genParams.Scramble, "scramble", generator.DefaultParams.Scramble, "Random quarter turns applied to the target")
	generateCmd.Flags().IntVar(&genParams.Holes, "holes", 0, "Inactive slots")
	generateCmd.Flags().StringVar(&genParams.Name, "name", generator.DefaultParams.Name, "Level name")
	generateCmd.Flags().StringVarP(&genPattern, "pattern", "p", generator.DefaultGenerator.Name(), "Target pattern: blocks or stripes")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (0 uses the clock)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(keysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
