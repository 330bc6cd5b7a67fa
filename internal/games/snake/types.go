package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// Board and speed limits. Values outside these ranges are clamped.
const (
	MinSize  = config.MinBoardSize
	MaxSize  = config.MaxBoardSize
	MinSpeed = config.MinSpeed
	MaxSpeed = config.MaxSpeed

	DefaultWidth  = 40
	DefaultHeight = 20
	DefaultSpeed  = 20

	// SeedLength is the snake length at the start of every run.
	SeedLength = 4
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirRight:
		return DirLeft
	case DirLeft:
		return DirRight
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	default:
		return d
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == DirRight || d == DirLeft
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of the current run.
type Status int

const (
	// StatusInitial is a freshly configured run that has not started.
	StatusInitial Status = iota
	// StatusActive is a ticking run.
	StatusActive
	// StatusPause is a suspended run that can be resumed.
	StatusPause
	// StatusEnd is a run that ended in a collision. Leaving it resets the run.
	StatusEnd
)

func (s Status) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusActive:
		return "active"
	case StatusPause:
		return "pause"
	case StatusEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Point is a 1-indexed cell on the board.
type Point struct {
	X, Y int
}

// NoApple marks the apple as absent. Only used when the snake fills the board.
var NoApple = Point{}

// Move returns the neighbouring point one cell away in direction d.
func (p Point) Move(d Direction) Point {
	switch d {
	case DirUp:
		return Point{X: p.X, Y: p.Y - 1}
	case DirDown:
		return Point{X: p.X, Y: p.Y + 1}
	case DirLeft:
		return Point{X: p.X - 1, Y: p.Y}
	case DirRight:
		return Point{X: p.X + 1, Y: p.Y}
	}
	return p
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Snake is the ordered body from tail (index 0) to head (last index).
type Snake struct {
	Points []Point
	// CurrentDirection is the direction applied on the last tick.
	CurrentDirection Direction
	// NextDirection is queued and applied on the next tick.
	NextDirection Direction
}

// Head returns the head point. The snake must not be empty.
func (s Snake) Head() Point {
	return s.Points[len(s.Points)-1]
}

// Len returns the number of body points.
func (s Snake) Len() int {
	return len(s.Points)
}

// Occupies reports whether any body point equals p.
func (s Snake) Occupies(p Point) bool {
	for _, seg := range s.Points {
		if seg == p {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no memory with s.
func (s Snake) clone() Snake {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	s.Points = pts
	return s
}

// State is the full game aggregate. It is a value: transitions return a new
// State and never modify the one they were given.
type State struct {
	Width    int
	Height   int
	Speed    int
	HasWalls bool
	Status   Status

	Apple      Point
	AppleCount int
	Snake      Snake
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Snake = s.Snake.clone()
	return s
}

// InBounds reports whether p lies on the board.
func (s State) InBounds(p Point) bool {
	return p.X >= 1 && p.X <= s.Width && p.Y >= 1 && p.Y <= s.Height
}

// HasApple reports whether an apple is currently placed.
func (s State) HasApple() bool {
	return s.Apple != NoApple
}

// Settings are the user-tunable parts of a State.
type Settings struct {
	Width    int
	Height   int
	Speed    int
	HasWalls bool
}

// SettingsFrom converts a loaded configuration into game settings.
// Out-of-range values are clamped.
func SettingsFrom(cfg config.SnakeConfig) Settings {
	cfg = cfg.Clamped()
	return Settings{
		Width:    cfg.Board.Width,
		Height:   cfg.Board.Height,
		Speed:    cfg.Speed,
		HasWalls: cfg.Board.Walls,
	}
}

// DefaultSettings returns the startup configuration.
func DefaultSettings() Settings {
	return Settings{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Speed:    DefaultSpeed,
		HasWalls: true,
	}
}
