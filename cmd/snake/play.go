package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagWidth   int
	flagHeight  int
	flagSpeed   int
	flagPreset  string
	flagNoWalls bool
	flagSeed    int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake",
	Long: `Start a game of snake.

Controls:
  Arrows/WASD  - Steer
  Space        - Start, pause, resume
  R            - New run after game over
  T            - Toggle walls / wrap-around (when not running)
  Tab          - Edit board size and speed (when not running)
  H            - Run history for this session
  Q/Ctrl+C     - Quit

Speed presets:
  slow    - speed 10
  normal  - speed 20
  fast    - speed 50
  insane  - speed 100

Examples:
  snake play
  snake play --preset fast
  snake play --width 30 --height 15 --no-walls
  snake play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
}

// addGameFlags registers the flags that override configuration values.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagWidth, "width", 0, "Board width (15-100)")
	cmd.Flags().IntVar(&flagHeight, "height", 0, "Board height (15-100)")
	cmd.Flags().IntVar(&flagSpeed, "speed", 0, "Speed (10-100, higher is faster)")
	cmd.Flags().StringVar(&flagPreset, "preset", "", "Speed preset: slow, normal, fast, insane")
	cmd.Flags().BoolVar(&flagNoWalls, "no-walls", false, "Wrap around the board edges")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
}

// resolveConfig loads the configuration file and applies explicit flags.
func resolveConfig(cmd *cobra.Command) (config.SnakeConfig, error) {
	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := config.ApplyPreset(&cfg, config.SpeedPreset(flagPreset)); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("width") {
		cfg.Board.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Board.Height = flagHeight
	}
	if flags.Changed("speed") {
		cfg.Speed = flagSpeed
	}
	if flags.Changed("no-walls") {
		cfg.Board.Walls = !flagNoWalls
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Get terminal size
	rt := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}

	rt.Seed = flagSeed
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	// Open the run log
	store, err := storage.OpenMemory()
	if err != nil {
		logger.Warn("run history disabled", "error", err)
		// Continue without storage - game still works
		store = nil
	}

	opts := []snake.Option{snake.WithLogger(logger)}
	var runs tui.RunLog
	if store != nil {
		opts = append(opts, snake.WithRecorder(store))
		runs = store
	}
	game := snake.New(snake.SettingsFrom(cfg), rt.Seed, opts...)

	logger.Info("session started",
		"width", cfg.Board.Width,
		"height", cfg.Board.Height,
		"speed", cfg.Speed,
		"walls", cfg.Board.Walls,
		"seed", rt.Seed,
	)

	runErr := tui.Run(game, runs, logger, rt)

	if store != nil {
		printSummary(store)
		store.Close()
	}
	logger.Info("session ended", "runs", game.Run())

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		closeLog()
		os.Exit(1)
	}
}

// printSummary writes a one-line recap of the session's finished runs.
func printSummary(store *storage.Store) {
	count, err := store.RunCount()
	if err != nil || count == 0 {
		return
	}
	best, err := store.BestApples()
	if err != nil {
		return
	}
	fmt.Printf("Runs this session: %d, best: %d apples\n", count, best)
}
