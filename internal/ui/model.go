package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ernie/giveaway-tracker/internal/domain"
	"github.com/ernie/giveaway-tracker/internal/game"
)

const defaultWidth = 80

// Options configures the UI.
type Options struct {
	// Snapshot reads the current round. Called on every tick.
	Snapshot func() domain.RoundSnapshot
	Tick     time.Duration
	LogDir   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	snapshot func() domain.RoundSnapshot
	tick     time.Duration
	logDir   string

	keys  keyMap
	help  help.Model
	table table.Model

	width  int
	height int

	round        domain.RoundSnapshot
	status       string
	statusAt     time.Time
	participants []participant
	seq          int
	sortBy       sortColumn
	desc         bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	snapshot := opts.Snapshot
	if snapshot == nil {
		snapshot = func() domain.RoundSnapshot { return domain.RoundSnapshot{} }
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}

	t := table.New(
		table.WithColumns(participantColumns(sortByTime, false, defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(colorText).Background(colorBorder)
	t.SetStyles(styles)

	return Model{
		snapshot: snapshot,
		tick:     tick,
		logDir:   opts.LogDir,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		table:    t,
		width:    defaultWidth,
	}
}

type tickMsg time.Time

type roundMsg domain.RoundSnapshot

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return roundMsg(m.snapshot())
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), m.refreshCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(3, m.height-14))
		m.refreshTable()
		return m, nil

	case tickMsg:
		m.round = m.snapshot()
		return m, tickCmd(m.tick)

	case roundMsg:
		m.round = domain.RoundSnapshot(msg)
		return m, nil

	case notificationMsg:
		m.apply(domain.Notification(msg))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortColumnCount
		m.desc = false
		m.refreshTable()
		return m, nil
	case key.Matches(msg, m.keys.Reverse):
		m.desc = !m.desc
		m.refreshTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) apply(n domain.Notification) {
	switch n.Type {
	case domain.NotifyStatus:
		m.status = n.Text
		m.statusAt = n.Timestamp
	case domain.NotifyParticipantAdded:
		m.addParticipant(n)
	case domain.NotifyParticipantsCleared:
		m.participants = nil
		m.seq = 0
	}
	m.refreshTable()
}

func (m *Model) addParticipant(n domain.Notification) {
	for i := range m.participants {
		if m.participants[i].Identity == n.Identity {
			m.participants[i].Guess = n.Guess
			m.participants[i].At = n.Timestamp
			return
		}
	}
	m.seq++
	m.participants = append(m.participants, participant{
		Identity: n.Identity,
		Guess:    n.Guess,
		At:       n.Timestamp,
		seq:      m.seq,
	})
}

func (m *Model) refreshTable() {
	m.table.SetColumns(participantColumns(m.sortBy, m.desc, m.width))
	m.table.SetRows(participantRows(sortParticipants(m.participants, m.sortBy, m.desc)))
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Giveaway Tracker"))
	if m.logDir != "" {
		b.WriteString(helpStyle.Render(m.logDir))
	}
	b.WriteString("\n")

	status := m.status
	if status == "" {
		status = "Waiting for chat commands..."
	} else if !m.statusAt.IsZero() {
		status = m.statusAt.Format("15:04:05") + "  " + status
	}
	b.WriteString(statusStyle.Width(max(20, m.width-2)).Render(status))
	b.WriteString("\n")

	countdown := lipgloss.NewStyle().Bold(true).Foreground(countdownColor(m.round))
	b.WriteString(countdown.Render(countdownText(m.round)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Participants (%d)\n", len(m.participants))
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}

func countdownText(s domain.RoundSnapshot) string {
	switch {
	case !s.Exists || !s.Active:
		return "No active game"
	case s.Remaining <= 0:
		return "Game ended!"
	default:
		return fmt.Sprintf("%s ends in: %s", s.Kind.Title(), game.Clock(s.Remaining))
	}
}
