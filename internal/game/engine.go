// Package game runs the guessing rounds opened from chat.
//
// A single mutex guards the current round. Chat commands arrive from the log
// tailer goroutine, expiry arrives from the round's countdown goroutine, and
// snapshots are read by the presentation layer; every read-then-write of round
// state happens with the lock held for the whole operation. Admin lookups read
// a file and are done before the lock is taken.
package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ernie/giveaway-tracker/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDuration is used when Options.Duration is not positive.
const DefaultDuration = 2 * time.Minute

// countdownExitTimeout bounds how long a replaced countdown is waited for.
const countdownExitTimeout = 2 * time.Second

// Authorizer reports whether an identity may run admin commands.
type Authorizer interface {
	IsAdmin(identity string) bool
}

// Presenter receives engine notifications. Implementations must accept calls
// from any goroutine and must not block.
type Presenter interface {
	NotifyStatus(text string)
	NotifyParticipantAdded(identity string, guess int)
	NotifyParticipantsCleared()
}

// Options configures an Engine
type Options struct {
	Duration  time.Duration
	Admins    Authorizer // nil means nobody is an admin
	Presenter Presenter
	Logger    *zap.SugaredLogger
	Now       func() time.Time
	Draw      func(min, max int) int // inclusive; defaults to a uniform draw
}

// Engine owns the current round and its countdown
type Engine struct {
	duration time.Duration
	admins   Authorizer
	out      Presenter
	log      *zap.SugaredLogger
	now      func() time.Time
	draw     func(min, max int) int

	mu    sync.Mutex
	round *domain.Round
	timer *countdown
}

// New creates an idle engine
func New(opts Options) *Engine {
	e := &Engine{
		duration: opts.Duration,
		admins:   opts.Admins,
		out:      opts.Presenter,
		log:      opts.Logger,
		now:      opts.Now,
		draw:     opts.Draw,
	}
	if e.duration <= 0 {
		e.duration = DefaultDuration
	}
	if e.out == nil {
		e.out = nopPresenter{}
	}
	if e.log == nil {
		e.log = zap.NewNop().Sugar()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.draw == nil {
		e.draw = uniformDraw
	}
	return e
}

func uniformDraw(min, max int) int {
	return min + rand.IntN(max-min+1)
}

func (e *Engine) isAdmin(identity string) bool {
	if e.admins == nil {
		return false
	}
	ok := e.admins.IsAdmin(identity)
	if !ok {
		e.log.Debugf("%s is not an admin, command ignored", identity)
	}
	return ok
}

// StartRound opens a new round from a "!pir min-max" or "!gtn min-max"
// command, replacing any existing round.
func (e *Engine) StartRound(admin string, kind domain.RoundKind, command string) {
	if !e.isAdmin(admin) {
		return
	}

	rng, err := ParseRange(command)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			e.out.NotifyStatus(invalidRangeText(command))
		} else {
			e.out.NotifyStatus(usageText(kind))
		}
		e.log.Debugf("Rejected start command %q from %s: %v", command, admin, err)
		return
	}
	target := e.draw(rng.Min, rng.Max)

	e.mu.Lock()
	stale := e.detachCountdownLocked()
	round := domain.NewRound(kind, admin, rng, target, e.now(), e.duration)
	e.round = round
	e.timer = e.startCountdownLocked(round)
	e.out.NotifyParticipantsCleared()
	e.out.NotifyStatus(startedText(round, e.duration))
	e.mu.Unlock()

	e.log.Infof("%s round %s started by %s, range %s", kind, round.ID, admin, rng)
	e.awaitCountdown(stale)
}

// EnterGuess records a "?number" entry for identity. Entries are ignored
// while no round is open.
func (e *Engine) EnterGuess(identity, command string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round == nil || !e.round.Active {
		e.log.Debugf("No active game, ignoring entry %q from %s", command, identity)
		return
	}

	guess, err := ParseGuess(command)
	if err != nil {
		e.out.NotifyStatus(invalidGuessText(identity))
		return
	}

	switch err := e.round.AddEntry(identity, guess, e.now()); {
	case errors.Is(err, domain.ErrGuessOutOfRange):
		e.out.NotifyStatus(outOfRangeText(identity, guess, e.round.Range))
	case errors.Is(err, domain.ErrDuplicateEntry):
		e.out.NotifyStatus(duplicateText(identity, e.round.Entries[identity].Guess))
	case err != nil:
		e.log.Warnf("Entry from %s rejected: %v", identity, err)
	default:
		e.log.Debugf("Added %s with guess %d", identity, guess)
		e.out.NotifyParticipantAdded(identity, guess)
		e.out.NotifyStatus(enteredText(identity, guess))
	}
}

// StopRound closes the open round and announces the result.
func (e *Engine) StopRound(admin string) {
	if !e.isAdmin(admin) {
		return
	}

	e.mu.Lock()
	if e.round == nil || !e.round.Active {
		e.mu.Unlock()
		e.out.NotifyStatus(noRoundToStop)
		return
	}
	stale := e.detachCountdownLocked()
	e.finishLocked(false)
	e.mu.Unlock()

	e.awaitCountdown(stale)
}

// ClearRound discards the current round, open or closed. Clearing an idle
// engine only resets the display.
func (e *Engine) ClearRound(admin string) {
	if !e.isAdmin(admin) {
		return
	}

	e.mu.Lock()
	stale := e.detachCountdownLocked()
	e.round = nil
	e.out.NotifyParticipantsCleared()
	e.out.NotifyStatus(clearedNotice)
	e.mu.Unlock()

	e.log.Infof("Game cleared by %s", admin)
	e.awaitCountdown(stale)
}

// ReportStatus announces the current round state. It never changes state.
func (e *Engine) ReportStatus(admin string) {
	if !e.isAdmin(admin) {
		return
	}
	e.out.NotifyStatus(statusText(e.Snapshot()))
}

// Snapshot returns a copy of the current round's display state.
func (e *Engine) Snapshot() domain.RoundSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.round == nil {
		return domain.RoundSnapshot{}
	}
	return e.round.Snapshot(e.now())
}

// Close cancels any pending countdown. The round itself is left as is.
func (e *Engine) Close() {
	e.mu.Lock()
	stale := e.detachCountdownLocked()
	e.mu.Unlock()
	e.awaitCountdown(stale)
}

// expire is called by a countdown when its deadline passes. It acts only if
// the round it was armed for is still the current, open round.
func (e *Engine) expire(roundID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round == nil || e.round.ID != roundID || !e.round.Active {
		return
	}
	if e.timer != nil && e.timer.roundID == roundID {
		e.timer.stop()
		e.timer = nil
	}
	e.out.NotifyStatus(timeoutNotice)
	e.finishLocked(true)
}

// finishLocked closes the current round and announces its outcome. The
// active flag makes this happen at most once per round.
func (e *Engine) finishLocked(timedOut bool) {
	r := e.round
	r.Active = false

	outcome, err := r.Resolve()
	if err != nil {
		e.log.Errorf("Resolving round %s: %v", r.ID, err)
		return
	}
	e.log.Infof("Round %s ended (timeout=%t): target=%d participants=%d winners=%v",
		r.ID, timedOut, outcome.Target, outcome.Participants, outcome.Winners)
	e.out.NotifyStatus(resultText(outcome))
}

type nopPresenter struct{}

func (nopPresenter) NotifyStatus(string) {}

func (nopPresenter) NotifyParticipantAdded(string, int) {}

func (nopPresenter) NotifyParticipantsCleared() {}
