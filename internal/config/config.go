// Package config provides YAML-based configuration loading for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Board and speed limits shared by the configuration layer and the engine.
const (
	MinBoardSize = 15
	MaxBoardSize = 100
	MinSpeed     = 10
	MaxSpeed     = 100
)

// baseTickInterval is the delay between ticks at speed 100.
const baseTickInterval = 50 * time.Millisecond

// SnakeConfig contains all configuration for the snake game.
type SnakeConfig struct {
	Board  BoardConfig `yaml:"board"`
	Speed  int         `yaml:"speed"`
	Preset SpeedPreset `yaml:"preset,omitempty"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Walls  bool `yaml:"walls"`
}

// SpeedPreset represents a named speed.
type SpeedPreset string

const (
	PresetSlow   SpeedPreset = "slow"
	PresetNormal SpeedPreset = "normal"
	PresetFast   SpeedPreset = "fast"
	PresetInsane SpeedPreset = "insane"
)

// Presets lists the known presets from slowest to fastest.
func Presets() []SpeedPreset {
	return []SpeedPreset{PresetSlow, PresetNormal, PresetFast, PresetInsane}
}

// SpeedForPreset returns the speed for a preset and whether it is known.
func SpeedForPreset(preset SpeedPreset) (int, bool) {
	switch preset {
	case PresetSlow:
		return 10, true
	case PresetNormal:
		return 20, true
	case PresetFast:
		return 50, true
	case PresetInsane:
		return 100, true
	default:
		return 0, false
	}
}

// ApplyPreset sets the speed from a preset. An empty preset leaves the
// config unchanged.
func ApplyPreset(cfg *SnakeConfig, preset SpeedPreset) error {
	if preset == "" {
		return nil
	}
	speed, ok := SpeedForPreset(preset)
	if !ok {
		return fmt.Errorf("config: unknown preset %q, want one of %v", preset, Presets())
	}
	cfg.Preset = preset
	cfg.Speed = speed
	return nil
}

// Validate reports every field that lies outside its allowed range.
func (c SnakeConfig) Validate() error {
	var errs []error
	if c.Board.Width < MinBoardSize || c.Board.Width > MaxBoardSize {
		errs = append(errs, fmt.Errorf("board.width %d outside [%d, %d]", c.Board.Width, MinBoardSize, MaxBoardSize))
	}
	if c.Board.Height < MinBoardSize || c.Board.Height > MaxBoardSize {
		errs = append(errs, fmt.Errorf("board.height %d outside [%d, %d]", c.Board.Height, MinBoardSize, MaxBoardSize))
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		errs = append(errs, fmt.Errorf("speed %d outside [%d, %d]", c.Speed, MinSpeed, MaxSpeed))
	}
	if c.Preset != "" {
		if _, ok := SpeedForPreset(c.Preset); !ok {
			errs = append(errs, fmt.Errorf("unknown preset %q", c.Preset))
		}
	}
	return errors.Join(errs...)
}

// Clamped returns a copy with every numeric field moved into range.
func (c SnakeConfig) Clamped() SnakeConfig {
	c.Board.Width = clamp(c.Board.Width, MinBoardSize, MaxBoardSize)
	c.Board.Height = clamp(c.Board.Height, MinBoardSize, MaxBoardSize)
	c.Speed = clamp(c.Speed, MinSpeed, MaxSpeed)
	return c
}

// TickInterval converts a speed into the delay between ticks.
// Speed 100 ticks every 50ms, speed 10 every 500ms.
func TickInterval(speed int) time.Duration {
	speed = clamp(speed, MinSpeed, MaxSpeed)
	return baseTickInterval * 100 / time.Duration(speed)
}

func clamp(val, lo, hi int) int {
	return max(lo, min(hi, val))
}
