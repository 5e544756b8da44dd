package game

import (
	"context"
	"time"

	"github.com/ernie/giveaway-tracker/internal/domain"
	"github.com/google/uuid"
)

// countdown ends one round when its deadline passes.
type countdown struct {
	roundID uuid.UUID
	cancel  context.CancelFunc
	done    chan struct{}
}

// startCountdownLocked arms a countdown for r. Caller holds e.mu.
func (e *Engine) startCountdownLocked(r *domain.Round) *countdown {
	ctx, cancel := context.WithCancel(context.Background())
	c := &countdown{
		roundID: r.ID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	wait := r.EndsAt.Sub(e.now())

	go func() {
		defer close(c.done)
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}
		e.expire(c.roundID)
	}()
	return c
}

// detachCountdownLocked cancels the current countdown and hands it back so
// the caller can wait for it once the lock is released.
func (e *Engine) detachCountdownLocked() *countdown {
	c := e.timer
	e.timer = nil
	if c != nil {
		c.stop()
	}
	return c
}

// awaitCountdown waits for a detached countdown goroutine to exit. It must be
// called without e.mu held since the goroutine may be blocked on it.
func (e *Engine) awaitCountdown(c *countdown) {
	if c == nil {
		return
	}
	if !c.wait(countdownExitTimeout) {
		e.log.Warnf("Countdown for round %s did not exit within %s", c.roundID, countdownExitTimeout)
	}
}

func (c *countdown) stop() {
	c.cancel()
}

func (c *countdown) wait(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
