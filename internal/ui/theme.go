package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ernie/giveaway-tracker/internal/domain"
)

const (
	colorText   = lipgloss.Color("#F8F8F2")
	colorMuted  = lipgloss.Color("#9E9E9E")
	colorAccent = lipgloss.Color("#BD93F9")
	colorGreen  = lipgloss.Color("#66BB6A")
	colorOrange = lipgloss.Color("#FFA726")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorBorder = lipgloss.Color("#44475A")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle = lipgloss.NewStyle().Foreground(colorText).Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)

// countdownColor picks the countdown color: green with two or more minutes
// left, orange with one or more, red below that, grey without an open round.
func countdownColor(s domain.RoundSnapshot) lipgloss.Color {
	switch {
	case !s.Exists || !s.Active || s.Remaining <= 0:
		return colorMuted
	case s.Remaining >= 2*time.Minute:
		return colorGreen
	case s.Remaining >= time.Minute:
		return colorOrange
	default:
		return colorRed
	}
}
