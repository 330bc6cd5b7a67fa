package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// footerHeight is the number of rows below the board. The row shows the
// settings panel, or the key help while it is toggled on.
const footerHeight = 1

// Model is the Bubble Tea model for a snake session.
type Model struct {
	game     *snake.Game
	runs     RunLog
	logger   *log.Logger
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	settings settingsPanel
	history  historyView

	showHistory bool
	showHelp    bool
	ticking     bool // A tick chain is live
	tickGen     int  // Generation of the live tick chain
	quitting    bool
}

// NewModel creates a model driving game. runs may be nil when no run log is
// kept. rt carries the initial terminal size.
func NewModel(game *snake.Game, runs RunLog, logger *log.Logger, rt core.RuntimeConfig) Model {
	width, height := rt.ScreenW, rt.ScreenH
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false
	h.Width = width

	return Model{
		game:     game,
		runs:     runs,
		logger:   logger,
		screen:   core.NewScreen(width, max(height-footerHeight, 0)),
		keys:     DefaultKeyMap(),
		help:     h,
		settings: newSettingsPanel(game.Settings()),
		history:  newHistoryView(width, height),
	}
}

// Init initializes the model. Nothing ticks until the run is started.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(msg)

	case commitMsg:
		return m.handleCommit(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHistory {
		var cmd tea.Cmd
		var back bool
		m.history, cmd, back = m.history.Update(msg)
		if back {
			m.showHistory = false
		}
		return m, cmd
	}

	if m.settings.Focused() {
		if key.Matches(msg, m.keys.Walls) {
			m.game.ToggleWalls()
			return m, nil
		}
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		if !m.settings.Focused() {
			// Leaving the panel applies valid edits still waiting on
			// their debounce; invalid ones revert to the live values.
			for f := range fieldCount {
				if v, err := m.settings.Value(f); err == nil {
					m.applyField(f, v)
				}
			}
			m.settings.Sync(m.game.Settings())
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.History):
		if m.game.State().Status == snake.StatusActive {
			m.game.ChangeStatus(snake.StatusPause)
			snap := m.game.Snapshot()
			m.logger.Debug("paused for history", "run", snap.Run, "tick", snap.Tick, "apples", snap.AppleCount)
		}
		m.history.Load(m.runs)
		m.showHistory = true
		return m, m.syncTicks()

	case key.Matches(msg, m.keys.Settings):
		if m.game.State().Status == snake.StatusActive {
			return m, nil
		}
		return m, m.settings.Focus()
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionNone {
		return m, nil
	}

	if action.IsDirection() && m.game.State().Status != snake.StatusActive {
		return m, nil
	}

	before := m.game.Settings()
	m.game.HandleInput(m.keys.Frame(msg))
	if m.game.Settings() != before {
		m.settings.Sync(m.game.Settings())
	}
	return m, m.syncTicks()
}

// syncTicks starts a tick chain when the run became active and retires the
// live one otherwise. A new chain gets a new generation so a pause and resume
// between two ticks never leaves two chains running.
func (m *Model) syncTicks() tea.Cmd {
	active := m.game.State().Status == snake.StatusActive
	switch {
	case active && !m.ticking:
		m.tickGen++
		m.ticking = true
		return tickCmd(m.game.TickInterval(), m.tickGen)
	case !active:
		m.ticking = false
	}
	return nil
}

// handleTick advances the game and schedules the next tick while active.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if !m.ticking || msg.Gen != m.tickGen {
		return m, nil
	}

	s := m.game.Tick()
	if s.Status != snake.StatusActive {
		m.ticking = false
		return m, nil
	}
	return m, tickCmd(m.game.TickInterval(), m.tickGen)
}

// handleCommit applies a debounced settings edit if it is still current and
// valid, and the run is not in progress.
func (m Model) handleCommit(msg commitMsg) (tea.Model, tea.Cmd) {
	if !m.settings.Current(msg) {
		return m, nil
	}
	if m.game.State().Status == snake.StatusActive {
		return m, nil
	}
	v, err := m.settings.Value(msg.field)
	if err != nil {
		m.logger.Debug("settings edit rejected", "error", err)
		return m, nil
	}
	m.applyField(msg.field, v)
	return m, nil
}

// applyField sets one board setting on the game if it differs.
func (m Model) applyField(f settingsField, v int) {
	cur := m.game.Settings()
	switch f {
	case fieldWidth:
		if v != cur.Width {
			m.game.Resize(v, cur.Height)
		}
	case fieldHeight:
		if v != cur.Height {
			m.game.Resize(cur.Width, v)
		}
	case fieldSpeed:
		if v != cur.Speed {
			m.game.ChangeSpeed(v)
		}
	}
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.screen.Resize(msg.Width, max(msg.Height-footerHeight, 0))
	m.help.Width = msg.Width
	m.history.Resize(msg.Width, msg.Height)
	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHistory {
		return m.history.View(m.help)
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	switch {
	case m.settings.Focused() && m.showHelp:
		b.WriteString(dimStyle.Render(m.help.ShortHelpView([]key.Binding{
			m.settings.keys.Next, m.settings.keys.Prev, m.keys.Walls, m.settings.keys.Done,
		})))
	case m.showHelp:
		b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	default:
		b.WriteString(m.settings.View(m.game.State().HasWalls))
		b.WriteString(dimStyle.Render("  ? help"))
	}
	return b.String()
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(game *snake.Game, runs RunLog, logger *log.Logger, rt core.RuntimeConfig) error {
	model := NewModel(game, runs, logger, rt)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
