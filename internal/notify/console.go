package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ernie/giveaway-tracker/internal/domain"
)

// Console writes notifications as plain lines, for headless runs.
type Console struct {
	w      io.Writer
	stamp  lipgloss.Style
	status lipgloss.Style
	result lipgloss.Style
	entry  lipgloss.Style
	muted  lipgloss.Style
}

// NewConsole creates a console sink. Colors are used only when w is a terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:      w,
		stamp:  r.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		status: r.NewStyle().Foreground(lipgloss.Color("#F8F8F2")),
		result: r.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true),
		entry:  r.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6272A4")).Italic(true),
	}
}

// Deliver implements Sink
func (c *Console) Deliver(n domain.Notification) {
	stamp := c.stamp.Render(n.Timestamp.Format("15:04:05"))

	switch n.Type {
	case domain.NotifyStatus:
		style := c.status
		if strings.HasPrefix(n.Text, "Round over!") {
			style = c.result
		}
		for _, line := range strings.Split(n.Text, "\n") {
			fmt.Fprintf(c.w, "%s %s\n", stamp, style.Render(line))
		}
	case domain.NotifyParticipantAdded:
		fmt.Fprintf(c.w, "%s %s\n", stamp, c.entry.Render(fmt.Sprintf("+ %s: %d", n.Identity, n.Guess)))
	case domain.NotifyParticipantsCleared:
		fmt.Fprintf(c.w, "%s %s\n", stamp, c.muted.Render("participants cleared"))
	}
}
