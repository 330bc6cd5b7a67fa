package snake

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

type fakeRecorder struct {
	results []RunResult
	err     error
}

func (f *fakeRecorder) SaveRunResult(r RunResult) error {
	f.results = append(f.results, r)
	return f.err
}

func press(actions ...core.Action) core.InputFrame {
	return core.FrameOf(actions...)
}

func TestDeterminism(t *testing.T) {
	// Two games with the same seed and inputs should produce identical snapshots
	g1 := New(DefaultSettings(), 12345)
	g2 := New(DefaultSettings(), 12345)

	g1.HandleInput(press(core.ActionToggle))
	g2.HandleInput(press(core.ActionToggle))

	for i := range 200 {
		var in core.InputFrame
		switch i % 40 {
		case 10:
			in = press(core.ActionDown)
		case 20:
			in = press(core.ActionLeft)
		case 30:
			in = press(core.ActionUp)
		case 39:
			in = press(core.ActionRight)
		}
		if i%40 == 0 && g1.State().Status == StatusEnd {
			in = press(core.ActionRestart)
		}
		g1.HandleInput(in)
		g2.HandleInput(in)

		g1.Tick()
		g2.Tick()
	}

	if s1, s2 := g1.Snapshot(), g2.Snapshot(); s1 != s2 {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestNewGameStartsInitial(t *testing.T) {
	g := New(DefaultSettings(), 1)
	s := g.State()

	if s.Status != StatusInitial {
		t.Errorf("status = %v, want initial", s.Status)
	}
	if s.Width != DefaultWidth || s.Height != DefaultHeight || s.Speed != DefaultSpeed || !s.HasWalls {
		t.Errorf("unexpected defaults: %+v", g.Settings())
	}
	if s.Snake.Len() != SeedLength {
		t.Errorf("snake length = %d, want %d", s.Snake.Len(), SeedLength)
	}
	if g.Run() != 1 {
		t.Errorf("run = %d, want 1", g.Run())
	}
}

func TestStateReturnsCopy(t *testing.T) {
	g := New(DefaultSettings(), 1)
	s := g.State()
	s.Snake.Points[0] = Point{X: 99, Y: 99}

	if g.State().Snake.Points[0] == (Point{X: 99, Y: 99}) {
		t.Error("modifying returned state changed the game")
	}
}

func TestTickOnlyWhileActive(t *testing.T) {
	g := New(DefaultSettings(), 1)
	before := g.Snapshot()

	g.Tick()
	if g.Snapshot() != before {
		t.Error("tick in initial status changed the game")
	}

	g.ChangeStatus(StatusActive)
	g.Tick()
	if g.Snapshot().HeadX != before.HeadX+1 {
		t.Errorf("head x = %d, want %d", g.Snapshot().HeadX, before.HeadX+1)
	}

	g.ChangeStatus(StatusPause)
	paused := g.Snapshot()
	g.Tick()
	if g.Snapshot() != paused {
		t.Error("tick while paused changed the game")
	}
}

func TestRunEndsAndIsRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	g := New(Settings{Width: 15, Height: 15, Speed: 50, HasWalls: true}, 3, WithRecorder(rec))
	g.ChangeStatus(StatusActive)

	// Head starts at (8,7) heading right; the wall is eight cells away.
	for range 20 {
		g.Tick()
	}

	if g.State().Status != StatusEnd {
		t.Fatalf("status = %v, want end", g.State().Status)
	}
	if len(rec.results) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.results))
	}
	r := rec.results[0]
	if r.Run != 1 || r.Width != 15 || r.Speed != 50 || !r.HasWalls {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.Length != SeedLength+r.Apples {
		t.Errorf("length %d does not match apples %d", r.Length, r.Apples)
	}
	if r.Ticks < 1 {
		t.Errorf("ticks = %d", r.Ticks)
	}
}

func TestRecorderErrorDoesNotStopGame(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	g := New(Settings{Width: 15, Height: 15, Speed: 50, HasWalls: true}, 3, WithRecorder(rec))
	g.ChangeStatus(StatusActive)
	for range 20 {
		g.Tick()
	}
	if g.State().Status != StatusEnd {
		t.Fatalf("status = %v, want end", g.State().Status)
	}

	g.HandleInput(press(core.ActionRestart))
	if g.State().Status != StatusInitial {
		t.Errorf("restart failed after recorder error")
	}
}

func TestLeavingEndStartsNewRun(t *testing.T) {
	g := New(Settings{Width: 15, Height: 15, Speed: 50, HasWalls: true}, 3)
	g.ChangeStatus(StatusActive)
	for range 20 {
		g.Tick()
	}

	g.HandleInput(press(core.ActionToggle))

	s := g.State()
	if s.Status != StatusInitial {
		t.Errorf("status = %v, want initial", s.Status)
	}
	if s.AppleCount != 0 || s.Snake.Len() != SeedLength {
		t.Errorf("run not reset: count %d, length %d", s.AppleCount, s.Snake.Len())
	}
	if g.Run() != 2 {
		t.Errorf("run = %d, want 2", g.Run())
	}
}

func TestHandleInputToggleCycle(t *testing.T) {
	g := New(DefaultSettings(), 1)

	steps := []Status{StatusActive, StatusPause, StatusActive, StatusPause}
	for i, want := range steps {
		g.HandleInput(press(core.ActionToggle))
		if got := g.State().Status; got != want {
			t.Fatalf("step %d: status = %v, want %v", i, got, want)
		}
	}
}

func TestHandleInputTurns(t *testing.T) {
	g := New(DefaultSettings(), 1)

	// Turns are ignored before the run starts.
	g.HandleInput(press(core.ActionUp))
	if g.State().Snake.NextDirection != DirRight {
		t.Error("turn accepted in initial status")
	}

	g.HandleInput(press(core.ActionToggle))

	// Same axis as current heading is ignored.
	g.HandleInput(press(core.ActionLeft))
	if g.State().Snake.NextDirection != DirRight {
		t.Error("reversal accepted")
	}

	g.HandleInput(press(core.ActionUp))
	if g.State().Snake.NextDirection != DirUp {
		t.Errorf("next direction = %v, want up", g.State().Snake.NextDirection)
	}

	g.Tick()
	if g.State().Snake.CurrentDirection != DirUp {
		t.Errorf("current direction = %v, want up", g.State().Snake.CurrentDirection)
	}
}

func TestHandleInputWalls(t *testing.T) {
	g := New(DefaultSettings(), 1)

	g.HandleInput(press(core.ActionWalls))
	if g.State().HasWalls {
		t.Error("walls not toggled in initial status")
	}

	g.HandleInput(press(core.ActionToggle))
	g.HandleInput(press(core.ActionWalls))
	if g.State().HasWalls {
		t.Error("walls toggled while active")
	}
}

func TestHandleInputRestartOnlyFromEnd(t *testing.T) {
	g := New(DefaultSettings(), 1)
	g.HandleInput(press(core.ActionToggle))
	g.HandleInput(press(core.ActionRestart))
	if g.State().Status != StatusActive {
		t.Errorf("restart applied while active: %v", g.State().Status)
	}
}

func TestTickInterval(t *testing.T) {
	g := New(DefaultSettings(), 1)
	if got := g.TickInterval().Milliseconds(); got != 250 {
		t.Errorf("interval at speed 20 = %dms, want 250", got)
	}
	g.ChangeSpeed(100)
	if got := g.TickInterval().Milliseconds(); got != 50 {
		t.Errorf("interval at speed 100 = %dms, want 50", got)
	}
}

func TestGameResize(t *testing.T) {
	g := New(DefaultSettings(), 1)
	g.Resize(30, 25)

	s := g.State()
	if s.Width != 30 || s.Height != 25 {
		t.Errorf("size = %dx%d, want 30x25", s.Width, s.Height)
	}
	if head := s.Snake.Head(); head != (Point{X: 16, Y: 12}) {
		t.Errorf("head = %v, want (16,12)", head)
	}
}

func TestRender(t *testing.T) {
	g := New(DefaultSettings(), 444)
	w, h := g.State().RequiredSize()
	screen := core.NewScreen(w+10, h+2)

	g.Render(screen)
	content := screen.String()

	if !strings.Contains(content, "Snake") {
		t.Error("HUD should contain 'Snake'")
	}
	if !strings.Contains(content, "Press Space to start") {
		t.Error("initial overlay missing")
	}

	g.HandleInput(press(core.ActionToggle))
	g.Render(screen)
	content = screen.String()
	if strings.Contains(content, "Press Space") {
		t.Error("overlay shown while active")
	}
	if !strings.ContainsRune(content, glyphApple) {
		t.Error("apple not drawn")
	}
	if !strings.ContainsRune(content, '>') {
		t.Error("head not drawn")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New(DefaultSettings(), 1)
	screen := core.NewScreen(30, 10)

	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected too-small message")
	}
}
