package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ernie/giveaway-tracker/internal/domain"
)

// notificationMsg carries an engine notification onto the UI goroutine.
type notificationMsg domain.Notification

// Sink forwards notifications to a running Bubble Tea program.
type Sink struct {
	send func(tea.Msg)
}

// NewSink creates a sink for p. Program.Send is safe from any goroutine.
func NewSink(p *tea.Program) *Sink {
	return &Sink{send: p.Send}
}

// Deliver implements notify.Sink
func (s *Sink) Deliver(n domain.Notification) {
	s.send(notificationMsg(n))
}
