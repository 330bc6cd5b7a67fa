package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// commitDelay is how long a field must stay unchanged before its value is
// applied to the game.
const commitDelay = 300 * time.Millisecond

type settingsField int

const (
	fieldWidth settingsField = iota
	fieldHeight
	fieldSpeed
	fieldCount
)

func (f settingsField) label() string {
	switch f {
	case fieldWidth:
		return "Width"
	case fieldHeight:
		return "Height"
	default:
		return "Speed"
	}
}

func (f settingsField) limits() (lo, hi int) {
	if f == fieldSpeed {
		return snake.MinSpeed, snake.MaxSpeed
	}
	return snake.MinSize, snake.MaxSize
}

var errEmpty = errors.New("value required")

// validateField parses text as a value for f and checks its range.
func validateField(f settingsField, text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("%s: %w", strings.ToLower(f.label()), errEmpty)
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number", strings.ToLower(f.label()))
	}
	lo, hi := f.limits()
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", strings.ToLower(f.label()), lo, hi)
	}
	return v, nil
}

// commitMsg is delivered commitDelay after an edit. It is applied only if no
// later edit to the same field happened in the meantime.
type commitMsg struct {
	field settingsField
	seq   int
}

type settingsKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Done key.Binding
}

func defaultSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Next: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "prev field")),
		Done: key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "done")),
	}
}

// settingsPanel holds the numeric inputs for board size and speed.
// Edits are debounced; only valid values are ever committed.
type settingsPanel struct {
	inputs  [fieldCount]textinput.Model
	seq     [fieldCount]int
	errs    [fieldCount]error
	cursor  settingsField
	focused bool
	keys    settingsKeyMap
}

func newSettingsPanel(s snake.Settings) settingsPanel {
	p := settingsPanel{keys: defaultSettingsKeyMap()}
	for f := range fieldCount {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 3
		ti.Width = 3
		p.inputs[f] = ti
	}
	p.Sync(s)
	return p
}

// Sync replaces the field contents with the game's current settings and
// clears any pending edits.
func (p *settingsPanel) Sync(s snake.Settings) {
	values := [fieldCount]int{s.Width, s.Height, s.Speed}
	for f := range fieldCount {
		p.inputs[f].SetValue(strconv.Itoa(values[f]))
		p.inputs[f].TextStyle = inputStyle
		p.errs[f] = nil
		p.seq[f]++
	}
}

// Focused reports whether the panel is taking key input.
func (p settingsPanel) Focused() bool {
	return p.focused
}

// Focus starts editing at the first field.
func (p *settingsPanel) Focus() tea.Cmd {
	p.focused = true
	p.cursor = fieldWidth
	return p.inputs[p.cursor].Focus()
}

// Blur stops editing.
func (p *settingsPanel) Blur() {
	p.focused = false
	for f := range fieldCount {
		p.inputs[f].Blur()
	}
}

// Value returns the validated value of field f.
func (p settingsPanel) Value(f settingsField) (int, error) {
	return validateField(f, p.inputs[f].Value())
}

// Current reports whether msg is the latest pending commit for its field.
func (p settingsPanel) Current(msg commitMsg) bool {
	return msg.seq == p.seq[msg.field]
}

// Update handles a key while the panel is focused.
func (p settingsPanel) Update(msg tea.KeyMsg) (settingsPanel, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Done):
		p.Blur()
		return p, nil
	case key.Matches(msg, p.keys.Next):
		return p, p.move(1)
	case key.Matches(msg, p.keys.Prev):
		return p, p.move(-1)
	}

	if !editKey(msg) {
		return p, nil
	}

	f := p.cursor
	before := p.inputs[f].Value()
	var cmd tea.Cmd
	p.inputs[f], cmd = p.inputs[f].Update(msg)
	if p.inputs[f].Value() == before {
		return p, cmd
	}

	_, err := p.Value(f)
	p.errs[f] = err
	if err != nil {
		p.inputs[f].TextStyle = errorStyle
	} else {
		p.inputs[f].TextStyle = inputStyle
	}

	p.seq[f]++
	commit := commitMsg{field: f, seq: p.seq[f]}
	debounce := tea.Tick(commitDelay, func(time.Time) tea.Msg { return commit })
	return p, tea.Batch(cmd, debounce)
}

func (p *settingsPanel) move(delta int) tea.Cmd {
	p.inputs[p.cursor].Blur()
	p.cursor = settingsField((int(p.cursor) + delta + int(fieldCount)) % int(fieldCount))
	return p.inputs[p.cursor].Focus()
}

// editKey reports whether msg may change a numeric field: digits and
// cursor editing keys only.
func editKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	}
	return false
}

// View renders the panel on one line, with the first error after it.
func (p settingsPanel) View(walls bool) string {
	var b strings.Builder
	for f := range fieldCount {
		label := f.label()
		if p.focused && f == p.cursor {
			label = labelStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(p.inputs[f].View())
		b.WriteString("  ")
	}

	mode := "walls"
	if !walls {
		mode = "wrap"
	}
	b.WriteString(dimStyle.Render("Edges "))
	b.WriteString(mode)

	for _, err := range p.errs {
		if err != nil {
			b.WriteString("  ")
			b.WriteString(errorStyle.Render(err.Error()))
			break
		}
	}
	return b.String()
}
