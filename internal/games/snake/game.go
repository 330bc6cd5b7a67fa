// Package snake implements the grid snake game: a pure transition engine over
// State values and a Game that owns the single live State.
package snake

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// RunResult describes a finished run.
type RunResult struct {
	Run      int // 1-based run number within this game
	Apples   int
	Length   int
	Ticks    int
	Width    int
	Height   int
	Speed    int
	HasWalls bool
}

// RunRecorder receives every run that ends in a collision.
type RunRecorder interface {
	SaveRunResult(RunResult) error
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets where finished runs are reported.
func WithRecorder(r RunRecorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// Game owns the one State of a running game. It is the only place the state
// changes; every method applies one engine transition and keeps the result.
// A Game is not safe for concurrent use.
type Game struct {
	engine   *Engine
	state    State
	logger   *log.Logger
	recorder RunRecorder

	run   int    // Current run number, starting at 1
	ticks int    // Ticks applied in the current run
	total uint64 // Ticks applied over the game's lifetime
}

// New creates a game in StatusInitial with the given settings.
func New(cfg Settings, seed int64, opts ...Option) *Game {
	g := &Game{
		engine: NewEngine(seed),
		logger: log.New(io.Discard),
		run:    1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.state = g.engine.NewState(cfg)
	g.logger.Debug("game created",
		"width", g.state.Width,
		"height", g.state.Height,
		"speed", g.state.Speed,
		"walls", g.state.HasWalls,
	)
	return g
}

// State returns a copy of the current state.
func (g *Game) State() State {
	return g.state.Clone()
}

// Settings returns the current user-tunable settings.
func (g *Game) Settings() Settings {
	return Settings{
		Width:    g.state.Width,
		Height:   g.state.Height,
		Speed:    g.state.Speed,
		HasWalls: g.state.HasWalls,
	}
}

// Run returns the current run number.
func (g *Game) Run() int {
	return g.run
}

// TickInterval is the delay between ticks at the current speed.
func (g *Game) TickInterval() time.Duration {
	return config.TickInterval(g.state.Speed)
}

// Resize changes the board size and re-seeds the snake and apple.
func (g *Game) Resize(width, height int) {
	g.state = g.engine.Resize(g.state, width, height)
	g.logger.Debug("board resized", "width", g.state.Width, "height", g.state.Height)
}

// ChangeSpeed changes the tick speed.
func (g *Game) ChangeSpeed(speed int) {
	g.state = ChangeSpeed(g.state, speed)
	g.logger.Debug("speed changed", "speed", g.state.Speed)
}

// ToggleWalls flips between solid walls and wrap-around edges.
func (g *Game) ToggleWalls() {
	g.state = ToggleWalls(g.state)
	g.logger.Debug("walls toggled", "walls", g.state.HasWalls)
}

// ChangeStatus moves the run to status. Leaving StatusEnd starts a new run.
func (g *Game) ChangeStatus(status Status) {
	from := g.state.Status
	g.state = g.engine.ChangeStatus(g.state, status)
	if from == StatusEnd {
		g.run++
		g.ticks = 0
		g.logger.Info("new run", "run", g.run, "status", status)
		return
	}
	if from != status {
		g.logger.Debug("status changed", "from", from, "to", status)
	}
}

// ChangeDirection queues a turn for the next tick.
func (g *Game) ChangeDirection(d Direction) {
	g.state = ChangeDirection(g.state, d)
}

// Tick advances the game by one step. It does nothing unless the run is active.
func (g *Game) Tick() State {
	if g.state.Status != StatusActive {
		return g.State()
	}

	g.state = g.engine.Tick(g.state)
	g.ticks++
	g.total++

	if g.state.Status == StatusEnd {
		g.finishRun()
	}
	return g.State()
}

// finishRun logs and records a run that just ended.
func (g *Game) finishRun() {
	result := RunResult{
		Run:      g.run,
		Apples:   g.state.AppleCount,
		Length:   g.state.Snake.Len(),
		Ticks:    g.ticks,
		Width:    g.state.Width,
		Height:   g.state.Height,
		Speed:    g.state.Speed,
		HasWalls: g.state.HasWalls,
	}
	g.logger.Info("run ended",
		"run", result.Run,
		"apples", result.Apples,
		"ticks", result.Ticks,
		"head", g.state.Snake.Head(),
	)

	if g.recorder == nil {
		return
	}
	if err := g.recorder.SaveRunResult(result); err != nil {
		g.logger.Warn("could not record run", "run", result.Run, "error", err)
	}
}

// HandleInput applies one input event the way the keyboard controls do:
// turns only while active and only perpendicular to the current heading,
// Toggle cycles the status, Restart leaves a finished run, and Walls flips
// wall mode while the snake is not moving.
func (g *Game) HandleInput(in core.InputFrame) {
	if in.Empty() {
		return
	}
	status := g.state.Status

	if status == StatusActive {
		if d, ok := directionFor(in); ok && d.Horizontal() != g.state.Snake.CurrentDirection.Horizontal() {
			g.ChangeDirection(d)
		}
	}

	switch {
	case in.Has(core.ActionToggle):
		switch status {
		case StatusInitial, StatusPause:
			g.ChangeStatus(StatusActive)
		case StatusActive:
			g.ChangeStatus(StatusPause)
		case StatusEnd:
			g.ChangeStatus(StatusInitial)
		}
	case in.Has(core.ActionRestart) && status == StatusEnd:
		g.ChangeStatus(StatusInitial)
	}

	if in.Has(core.ActionWalls) && status != StatusActive {
		g.ToggleWalls()
	}
}

// directionFor returns the direction requested by the frame, if any.
func directionFor(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return DirRight, false
}
