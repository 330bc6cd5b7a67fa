package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// hudHeight is the number of screen rows above the board.
const hudHeight = 1

// Glyphs used on the board.
const (
	glyphBody  = 'o'
	glyphApple = '@'
	glyphWrap  = '·'
)

// RequiredSize returns the smallest screen that fits the board and HUD.
func (s State) RequiredSize() (w, h int) {
	return s.Width + 2, s.Height + 2 + hudHeight
}

// Render draws the HUD, board, snake, apple and any status overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	s := g.state

	g.renderHUD(dst)

	reqW, reqH := s.RequiredSize()
	if dst.Width() < reqW || dst.Height() < reqH {
		renderOverlay(dst,
			"Window too small",
			fmt.Sprintf("Need %dx%d, have %dx%d", reqW, reqH, dst.Width(), dst.Height()),
		)
		return
	}

	board := core.NewRect((dst.Width()-reqW)/2, hudHeight, reqW, s.Height+2)
	renderBorder(dst, board, s.HasWalls)

	// Cell (1,1) sits just inside the top-left corner of the border.
	cell := func(p Point) (int, int) {
		return board.X + p.X, board.Y + p.Y
	}

	if s.HasApple() {
		x, y := cell(s.Apple)
		dst.SetColored(x, y, glyphApple, core.ColorRed)
	}

	for i, p := range s.Snake.Points {
		x, y := cell(p)
		if i == s.Snake.Len()-1 {
			dst.SetColored(x, y, headGlyph(s.Snake.CurrentDirection), core.ColorBrightGreen)
			continue
		}
		dst.SetColored(x, y, glyphBody, core.ColorGreen)
	}

	switch s.Status {
	case StatusInitial:
		renderOverlay(dst, "S N A K E", "Press Space to start")
	case StatusPause:
		renderOverlay(dst, "Paused", "Press Space to continue")
	case StatusEnd:
		renderOverlay(dst, "Game over", fmt.Sprintf("Apples eaten: %d", s.AppleCount))
	}
}

// renderHUD draws the status line above the board.
func (g *Game) renderHUD(dst *core.Screen) {
	s := g.state
	walls := "walls"
	if !s.HasWalls {
		walls = "wrap"
	}
	hud := fmt.Sprintf(" Snake | Apples: %d  Length: %d  Speed: %d  %dx%d %s  Run %d",
		s.AppleCount, s.Snake.Len(), s.Speed, s.Width, s.Height, walls, g.run)
	dst.DrawTextColored(0, 0, hud, core.ColorYellow)
}

// renderBorder draws solid walls, or a dotted edge when the board wraps.
func renderBorder(dst *core.Screen, r core.Rect, walls bool) {
	if walls {
		dst.DrawBox(r, core.ColorWhite)
		return
	}
	dst.DrawHLine(r.X, r.Y, r.W, glyphWrap, core.ColorGray)
	dst.DrawHLine(r.X, r.Bottom()-1, r.W, glyphWrap, core.ColorGray)
	for y := r.Y; y < r.Bottom(); y++ {
		dst.SetColored(r.X, y, glyphWrap, core.ColorGray)
		dst.SetColored(r.Right()-1, y, glyphWrap, core.ColorGray)
	}
}

func headGlyph(d Direction) rune {
	switch d {
	case DirUp:
		return '^'
	case DirDown:
		return 'v'
	case DirLeft:
		return '<'
	default:
		return '>'
	}
}

// renderOverlay draws a centered two-line message box.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	maxLen := core.Max(len([]rune(line1)), len([]rune(line2)))
	boxW := maxLen + 4
	boxH := 5
	cx, cy := dst.Bounds().Center()
	box := core.NewRect(cx-boxW/2, cy-boxH/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorYellow)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
