// snake is the classic snake game for the terminal.
//
// Usage:
//
//	snake                  - Play with the effective configuration
//	snake play             - Same as above
//	snake config           - Print the effective configuration as YAML
//
// Global flags:
//
//	--config <path>  - Custom config YAML (default search: ~/.snake/config.yaml, ./configs/snake.yaml)
//	--log <path>     - Write logs to a file (the game owns the terminal)
//	--debug          - Log at debug level
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig  string
	flagLogPath string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic grid game in your terminal",
	Long: `Snake is a terminal version of the classic game. Steer the snake to the
apple, grow with every bite and avoid running into yourself or the walls.

Available commands:
  play     - Play the game (default)
  config   - Print the effective configuration

Examples:
  snake
  snake --preset fast --no-walls
  snake play --width 60 --height 30
  snake config --config ./my-snake.yaml`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	addGameFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a logger writing to the --log file, or one that discards
// everything when no file is given. The returned close func is never nil.
func newLogger() (*log.Logger, func() error, error) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}

	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
		Level:           level,
	})
	return logger, f.Close, nil
}
