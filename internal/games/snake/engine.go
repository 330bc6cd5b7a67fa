package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Engine performs the state transitions. It owns the random source used for
// apple placement; everything else about a transition is determined by the
// input State.
//
// Transitions never modify their argument. Callers keep the returned State.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine whose apple placement is driven by seed.
func NewEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// NewState builds the first state of a game from settings.
func (e *Engine) NewState(cfg Settings) State {
	s := State{
		Width:    core.Clamp(cfg.Width, MinSize, MaxSize),
		Height:   core.Clamp(cfg.Height, MinSize, MaxSize),
		Speed:    core.Clamp(cfg.Speed, MinSpeed, MaxSpeed),
		HasWalls: cfg.HasWalls,
		Status:   StatusInitial,
	}
	s.Snake = seedSnake(s.Width, s.Height)
	s.Apple = e.placeApple(s.Width, s.Height, s.Snake)
	return s
}

// Resize replaces the board dimensions, clamped to [MinSize, MaxSize].
// The snake is re-seeded in the center facing right and a new apple is
// placed. Status and apple count are kept.
func (e *Engine) Resize(s State, width, height int) State {
	s.Width = core.Clamp(width, MinSize, MaxSize)
	s.Height = core.Clamp(height, MinSize, MaxSize)
	s.Snake = seedSnake(s.Width, s.Height)
	s.Apple = e.placeApple(s.Width, s.Height, s.Snake)
	return s
}

// ChangeSpeed replaces the speed, clamped to [MinSpeed, MaxSpeed].
func ChangeSpeed(s State, speed int) State {
	s.Speed = core.Clamp(speed, MinSpeed, MaxSpeed)
	return s.Clone()
}

// ToggleWalls flips wall mode. The current position is not re-checked; the
// new mode applies from the next tick.
func ToggleWalls(s State) State {
	s.HasWalls = !s.HasWalls
	return s.Clone()
}

// ChangeStatus sets the run status. Leaving StatusEnd starts a new run:
// the apple count is cleared, the snake is re-seeded facing right and a new
// apple is placed.
func (e *Engine) ChangeStatus(s State, status Status) State {
	if s.Status == StatusEnd {
		s.AppleCount = 0
		s.Snake = seedSnake(s.Width, s.Height)
		s.Apple = e.placeApple(s.Width, s.Height, s.Snake)
		s.Status = status
		return s
	}
	s.Status = status
	return s.Clone()
}

// ChangeDirection queues d for the next tick. A reversal onto the current
// direction of travel is ignored, as is an unknown direction.
func ChangeDirection(s State, d Direction) State {
	if !d.Valid() || d == s.Snake.CurrentDirection.Opposite() {
		return s.Clone()
	}
	s = s.Clone()
	s.Snake.NextDirection = d
	return s
}

// Tick advances an active run by one cell. Non-active states are returned
// unchanged.
//
// Order of checks: wall collision (walls on), self collision, wrap (walls
// off), food, plain move. A collision ends the run and freezes the snake,
// apple and count as they were before the tick.
func (e *Engine) Tick(s State) State {
	if s.Status != StatusActive || s.Snake.Len() == 0 {
		return s.Clone()
	}

	dir := s.Snake.NextDirection
	next := s.Snake.Head().Move(dir)

	if s.HasWalls && !s.InBounds(next) {
		return endRun(s)
	}
	if s.Snake.Occupies(next) {
		return endRun(s)
	}
	if !s.HasWalls {
		next = wrap(next, s.Width, s.Height)
		// The wrapped cell may be part of the body.
		if s.Snake.Occupies(next) {
			return endRun(s)
		}
	}

	points := make([]Point, 0, s.Snake.Len()+1)
	if next == s.Apple {
		points = append(points, s.Snake.Points...)
		points = append(points, next)
		s.AppleCount++
		s.Snake = Snake{Points: points, CurrentDirection: dir, NextDirection: s.Snake.NextDirection}
		s.Apple = e.placeApple(s.Width, s.Height, s.Snake)
		return s
	}

	points = append(points, s.Snake.Points[1:]...)
	points = append(points, next)
	s.Snake = Snake{Points: points, CurrentDirection: dir, NextDirection: s.Snake.NextDirection}
	return s
}

func endRun(s State) State {
	s = s.Clone()
	s.Status = StatusEnd
	return s
}

// wrap moves an out-of-range coordinate to the opposite edge. Each tick moves
// one cell along one axis, so at most one axis is ever out of range.
func wrap(p Point, width, height int) Point {
	switch {
	case p.X < 1:
		p.X = width
	case p.X > width:
		p.X = 1
	}
	switch {
	case p.Y < 1:
		p.Y = height
	case p.Y > height:
		p.Y = 1
	}
	return p
}

// seedSnake returns a horizontal snake of SeedLength centered on the board,
// tail on the left, moving right.
func seedSnake(width, height int) Snake {
	points := make([]Point, SeedLength)
	for i := range points {
		points[i] = Point{
			X: width/2 - SeedLength/2 + i,
			Y: height / 2,
		}
	}
	return Snake{
		Points:           points,
		CurrentDirection: DirRight,
		NextDirection:    DirRight,
	}
}

// placeApple picks a uniformly random free cell. Returns NoApple when the
// snake covers the whole board.
func (e *Engine) placeApple(width, height int, sn Snake) Point {
	occupied := make(map[Point]bool, sn.Len())
	for _, p := range sn.Points {
		occupied[p] = true
	}

	free := make([]Point, 0, core.Max(width*height-len(occupied), 0))
	for y := 1; y <= height; y++ {
		for x := 1; x <= width; x++ {
			p := Point{X: x, Y: y}
			if !occupied[p] {
				free = append(free, p)
			}
		}
	}

	if len(free) == 0 {
		return NoApple
	}
	return free[e.rng.Intn(len(free))]
}
