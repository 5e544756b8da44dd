// Package notify fans engine notifications out to presentation sinks.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/ernie/giveaway-tracker/internal/domain"
	"go.uber.org/zap"
)

// Sink displays notifications. Deliver is only ever called from the hub's
// Run goroutine, one notification at a time.
type Sink interface {
	Deliver(n domain.Notification)
}

// Hub queues notifications and delivers them in order from a single goroutine.
type Hub struct {
	sinks  []Sink
	events chan domain.Notification
	mu     sync.RWMutex
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewHub creates a hub delivering to sinks
func NewHub(log *zap.SugaredLogger, sinks ...Sink) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		sinks:  sinks,
		events: make(chan domain.Notification, 256),
		log:    log,
		now:    time.Now,
	}
}

// Register adds a sink. Safe to call while Run is active.
func (h *Hub) Register(s Sink) {
	h.mu.Lock()
	h.sinks = append(h.sinks, s)
	h.mu.Unlock()
}

// Run delivers queued notifications until ctx is done, then flushes
// whatever is still queued.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case n := <-h.events:
			h.deliver(n)
		case <-ctx.Done():
			for {
				select {
				case n := <-h.events:
					h.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) deliver(n domain.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sinks {
		s.Deliver(n)
	}
}

// Publish queues n without blocking. When the queue is full n is dropped.
func (h *Hub) Publish(n domain.Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = h.now()
	}
	select {
	case h.events <- n:
	default:
		h.log.Warnf("Notification queue full, dropping %s event", n.Type)
	}
}

// NotifyStatus publishes a status line
func (h *Hub) NotifyStatus(text string) {
	h.Publish(domain.StatusNotification(text))
}

// NotifyParticipantAdded publishes an accepted entry
func (h *Hub) NotifyParticipantAdded(identity string, guess int) {
	h.Publish(domain.ParticipantAddedNotification(identity, guess))
}

// NotifyParticipantsCleared publishes a participant list reset
func (h *Hub) NotifyParticipantsCleared() {
	h.Publish(domain.ParticipantsClearedNotification())
}
