package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

// maxHistory is the number of runs loaded into the history table.
const maxHistory = 100

// RunLog is the read side of the run log shown in the history view.
type RunLog interface {
	Runs(limit int) ([]storage.RunRecord, error)
	BestApples() (int, error)
}

type historyKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
}

func (k historyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back}
}

func (k historyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Back}}
}

func defaultHistoryKeyMap() historyKeyMap {
	return historyKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h"),
			key.WithHelp("esc/h", "back"),
		),
	}
}

// historyView lists the runs finished this session.
type historyView struct {
	table  table.Model
	keys   historyKeyMap
	runs   []storage.RunRecord
	best   int
	err    error
	width  int
	height int
}

func newHistoryView(width, height int) historyView {
	h := historyView{
		keys:   defaultHistoryKeyMap(),
		width:  width,
		height: height,
	}
	h.table = h.createTable()
	return h
}

func (h historyView) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Apples", Width: 7},
		{Title: "Length", Width: 7},
		{Title: "Ticks", Width: 7},
		{Title: "Board", Width: 8},
		{Title: "Speed", Width: 6},
		{Title: "Edges", Width: 6},
		{Title: "Ended", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(h.height-8, 3)), // Leave room for title, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Load refreshes the table from the run log.
func (h *historyView) Load(src RunLog) {
	h.runs, h.best, h.err = nil, 0, nil
	if src != nil {
		h.runs, h.err = src.Runs(maxHistory)
		if h.err == nil {
			h.best, h.err = src.BestApples()
		}
	}
	h.updateTableRows()
}

func (h *historyView) updateTableRows() {
	rows := make([]table.Row, len(h.runs))
	for i, r := range h.runs {
		edges := "walls"
		if !r.HasWalls {
			edges = "wrap"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.Run),
			fmt.Sprintf("%d", r.Apples),
			fmt.Sprintf("%d", r.Length),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			fmt.Sprintf("%d", r.Speed),
			edges,
			r.EndedAt.Format("15:04:05"),
		}
	}
	h.table.SetRows(rows)
	h.table.GotoTop()
}

// Resize adapts the table to the terminal size.
func (h *historyView) Resize(width, height int) {
	h.width, h.height = width, height
	h.table = h.createTable()
	h.updateTableRows()
}

// Update scrolls the table. It reports whether the user asked to leave.
func (h historyView) Update(msg tea.KeyMsg) (historyView, tea.Cmd, bool) {
	if key.Matches(msg, h.keys.Back) {
		return h, nil, true
	}
	var cmd tea.Cmd
	h.table, cmd = h.table.Update(msg)
	return h, cmd, false
}

// View renders the history screen.
func (h historyView) View(hm help.Model) string {
	var b strings.Builder

	title := fmt.Sprintf("RUN HISTORY - %d runs, best %d apples", len(h.runs), h.best)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case h.err != nil:
		b.WriteString(box.Render(errorStyle.Render("Could not load runs: " + h.err.Error())))
	case len(h.runs) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
		b.WriteString(box.Render(emptyStyle.Render("No runs finished yet.")))
	default:
		b.WriteString(box.Render(h.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(hm.View(h.keys)))
	return b.String()
}
