package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathrush/internal/leaderboard"
	"github.com/vovakirdan/mathrush/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores    = 100 // Max scores to load per board
	loadTimeout  = 5 * time.Second
	tableMinRows = 5
)

// ScoreRow is one displayed leaderboard line.
type ScoreRow struct {
	Player string
	Score  int
	When   time.Time // Zero when the board keeps no dates
}

// ScoreSource is a named board the scoreboard can show.
type ScoreSource struct {
	Title string
	Load  func(ctx context.Context, limit int) ([]ScoreRow, error)
}

// LocalScores shows every recorded session in the SQLite store.
func LocalScores(store *storage.Store) ScoreSource {
	return ScoreSource{
		Title: "Local",
		Load: func(_ context.Context, limit int) ([]ScoreRow, error) {
			entries, err := store.TopScores(limit)
			if err != nil {
				return nil, err
			}
			rows := make([]ScoreRow, len(entries))
			for i, e := range entries {
				rows[i] = ScoreRow{Player: e.Player, Score: e.Score, When: e.CreatedAt}
			}
			return rows, nil
		},
	}
}

// GlobalScores shows each player's best from the Redis leaderboard.
func GlobalScores(board *leaderboard.Redis) ScoreSource {
	return ScoreSource{
		Title: "Global",
		Load: func(ctx context.Context, limit int) ([]ScoreRow, error) {
			entries, err := board.Top(ctx, limit)
			if err != nil {
				return nil, err
			}
			rows := make([]ScoreRow, len(entries))
			for i, e := range entries {
				rows[i] = ScoreRow{Player: e.Player, Score: e.Score}
			}
			return rows, nil
		},
	}
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextBoard, k.PrevBoard, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	sources  []ScoreSource
	cursor   int
	rows     []ScoreRow
	loadErr  error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a scoreboard over sources.
func NewScoreboardModel(sources []ScoreSource, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		sources: sources,
		keys:    DefaultScoreboardKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(tableMinRows, m.height-8)), // Leave room for header and help
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

// load fetches the current board.
func (m *ScoreboardModel) load() {
	m.rows, m.loadErr = nil, nil
	if len(m.sources) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		m.rows, m.loadErr = m.sources[m.cursor].Load(ctx, maxScores)
		cancel()
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		date := "-"
		if !r.When.IsZero() {
			date = r.When.Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Player,
			fmt.Sprintf("%d", r.Score),
			date,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextBoard):
			if len(m.sources) > 1 {
				m.cursor = (m.cursor + 1) % len(m.sources)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard):
			if len(m.sources) > 1 {
				m.cursor = (m.cursor + len(m.sources) - 1) % len(m.sources)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("HIGH SCORES"))
	b.WriteString("\n\n")

	activeTab := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tabs := make([]string, len(m.sources))
	for i, src := range m.sources {
		if i == m.cursor {
			tabs[i] = activeTab.Render(src.Title)
		} else {
			tabs[i] = dimStyle.Render(" " + src.Title + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty/error message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores:\n" + m.loadErr.Error())
	case len(m.rows) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a round to set a high score!")
	}
	return m.table.View()
}

// Rows returns the loaded rows of the current board.
func (m ScoreboardModel) Rows() []ScoreRow {
	return m.rows
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(sources []ScoreSource, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(sources, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
