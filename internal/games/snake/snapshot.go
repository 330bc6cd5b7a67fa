package snake

// Snapshot captures the observable game state for determinism tests and
// debugging.
type Snapshot struct {
	Tick       uint64
	Run        int
	Status     Status
	AppleCount int
	SnakeLen   int
	HeadX      int
	HeadY      int
	Dir        Direction
	AppleX     int
	AppleY     int
	Width      int
	Height     int
	Speed      int
	HasWalls   bool
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := g.state

	headX, headY := 0, 0
	if s.Snake.Len() > 0 {
		head := s.Snake.Head()
		headX, headY = head.X, head.Y
	}

	return Snapshot{
		Tick:       g.total,
		Run:        g.run,
		Status:     s.Status,
		AppleCount: s.AppleCount,
		SnakeLen:   s.Snake.Len(),
		HeadX:      headX,
		HeadY:      headY,
		Dir:        s.Snake.CurrentDirection,
		AppleX:     s.Apple.X,
		AppleY:     s.Apple.Y,
		Width:      s.Width,
		Height:     s.Height,
		Speed:      s.Speed,
		HasWalls:   s.HasWalls,
	}
}
