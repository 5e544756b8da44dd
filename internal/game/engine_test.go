package game_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ernie/giveaway-tracker/internal/collector"
	"github.com/ernie/giveaway-tracker/internal/domain"
	"github.com/ernie/giveaway-tracker/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ collector.Handler = (*game.Engine)(nil)

type admins map[string]bool

func (a admins) IsAdmin(identity string) bool { return a[identity] }

type recorder struct {
	mu           sync.Mutex
	statuses     []string
	participants map[string]int
}

func newRecorder() *recorder {
	return &recorder{participants: make(map[string]int)}
}

func (r *recorder) NotifyStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, text)
}

func (r *recorder) NotifyParticipantAdded(identity string, guess int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[identity] = guess
}

func (r *recorder) NotifyParticipantsCleared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = make(map[string]int)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

func (r *recorder) count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.statuses {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) statusCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses)
}

func (r *recorder) guesses() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.participants))
	for k, v := range r.participants {
		out[k] = v
	}
	return out
}

func newEngine(t *testing.T, out *recorder, d time.Duration, target int) *game.Engine {
	t.Helper()
	e := game.New(game.Options{
		Duration:  d,
		Admins:    admins{"Boss": true},
		Presenter: out,
		Draw:      func(min, max int) int { return target },
	})
	t.Cleanup(e.Close)
	return e
}

func TestEngine_PriceIsRightRound(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 60)

	e.StartRound("Boss", domain.PriceIsRight, "!pir 1-100")
	assert.Contains(t, out.last(), "Price is Right")
	assert.Contains(t, out.last(), "Range: 1-100")
	assert.Contains(t, out.last(), "1 minute")

	e.EnterGuess("A", "?40")
	e.EnterGuess("B", "?55")
	e.EnterGuess("C", "?55")
	e.EnterGuess("D", "?70")
	assert.Equal(t, map[string]int{"A": 40, "B": 55, "C": 55, "D": 70}, out.guesses())

	snap := e.Snapshot()
	assert.True(t, snap.Exists)
	assert.True(t, snap.Active)
	assert.Equal(t, 4, snap.Participants)

	e.StopRound("Boss")
	assert.Equal(t, "Round over! Winners: B, C with guess 55\nTarget was: 60", out.last())
	assert.False(t, e.Snapshot().Active)
	assert.True(t, e.Snapshot().Exists)
}

func TestEngine_GuessTheNumberNoWinner(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 7)

	e.StartRound("Boss", domain.GuessTheNumber, "!gtn 1-10")
	e.EnterGuess("A", "?3")
	e.StopRound("Boss")
	assert.Equal(t, "Round over! No winner.\nTarget was: 7", out.last())
}

func TestEngine_EntryRejections(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	// No game yet: silently ignored.
	e.EnterGuess("A", "?5")
	assert.Zero(t, out.statusCount())

	e.StartRound("Boss", domain.PriceIsRight, "!pir 1-10")

	e.EnterGuess("A", "?5")
	e.EnterGuess("A", "?6")
	assert.Contains(t, out.last(), "already entered with 5")

	e.EnterGuess("B", "?11")
	assert.Contains(t, out.last(), "outside the range 1-10")

	e.EnterGuess("C", "?five")
	assert.Contains(t, out.last(), "Invalid number format from C")

	assert.Equal(t, map[string]int{"A": 5}, out.guesses())
	assert.Equal(t, 1, e.Snapshot().Participants)
}

func TestEngine_EntriesAfterCloseIgnored(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	e.StartRound("Boss", domain.PriceIsRight, "!pir 1-10")
	e.StopRound("Boss")
	n := out.statusCount()

	e.EnterGuess("Late", "?5")
	assert.Equal(t, n, out.statusCount())
	assert.Zero(t, e.Snapshot().Participants)
}

func TestEngine_NonAdminIgnored(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	e.StartRound("Rando", domain.PriceIsRight, "!pir 1-10")
	e.StopRound("Rando")
	e.ReportStatus("Rando")
	e.ClearRound("Rando")

	assert.Zero(t, out.statusCount())
	assert.False(t, e.Snapshot().Exists)
}

func TestEngine_RejectsBadStart(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	e.StartRound("Boss", domain.PriceIsRight, "!pir 100-1")
	assert.Contains(t, out.last(), "Invalid range")
	assert.False(t, e.Snapshot().Exists)

	e.StartRound("Boss", domain.GuessTheNumber, "!gtn")
	assert.Contains(t, out.last(), "Usage: !gtn")
	assert.False(t, e.Snapshot().Exists)
}

func TestEngine_StopWithoutRound(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	e.StopRound("Boss")
	assert.Equal(t, "No active round to stop.", out.last())

	e.StartRound("Boss", domain.PriceIsRight, "!pir 1-10")
	e.StopRound("Boss")
	e.StopRound("Boss")
	assert.Equal(t, 1, out.count("Round over!"))
	assert.Equal(t, "No active round to stop.", out.last())
}

func TestEngine_StatusAndClear(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	e.ReportStatus("Boss")
	assert.Equal(t, "No active game. Use !PIR or !GTN to start one!", out.last())

	e.StartRound("Boss", domain.GuessTheNumber, "!gtn 1-10")
	e.EnterGuess("A", "?2")
	e.ReportStatus("Boss")
	assert.Contains(t, out.last(), "Current game: GTN")
	assert.Contains(t, out.last(), "Participants: 1")
	assert.Contains(t, out.last(), "Active: true")

	e.ClearRound("Boss")
	assert.Equal(t, "Game cleared! Ready for new game.", out.last())
	assert.Empty(t, out.guesses())
	assert.False(t, e.Snapshot().Exists)

	// Clearing again is harmless.
	e.ClearRound("Boss")
	assert.Equal(t, "Game cleared! Ready for new game.", out.last())
}

func TestEngine_RestartReplacesRound(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, time.Minute, 5)

	e.StartRound("Boss", domain.PriceIsRight, "!pir 1-10")
	e.EnterGuess("A", "?5")
	e.StartRound("Boss", domain.GuessTheNumber, "!gtn 20-30")

	snap := e.Snapshot()
	assert.Equal(t, domain.GuessTheNumber, snap.Kind)
	assert.Equal(t, domain.Range{Min: 20, Max: 30}, snap.Range)
	assert.Zero(t, snap.Participants)
	assert.Empty(t, out.guesses())
	assert.Zero(t, out.count("Round over!"))
}

func TestEngine_TimeoutEndsRound(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, 150*time.Millisecond, 5)

	e.StartRound("Boss", domain.GuessTheNumber, "!gtn 1-10")
	e.EnterGuess("A", "?5")

	require.Eventually(t, func() bool {
		return out.count("Round over!") == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "Round over! Winner: A with guess 5\nTarget was: 5", out.last())
	assert.Equal(t, 1, out.count("Time's up!"))
	assert.False(t, e.Snapshot().Active)

	// Stopping after the timeout does not resolve twice.
	e.StopRound("Boss")
	assert.Equal(t, 1, out.count("Round over!"))
}

func TestEngine_ReplacedRoundDoesNotExpire(t *testing.T) {
	out := newRecorder()
	e := newEngine(t, out, 30*time.Millisecond, 5)

	e.StartRound("Boss", domain.PriceIsRight, "!pir 1-10")
	e.ClearRound("Boss")

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, out.count("Time's up!"))
	assert.Zero(t, out.count("Round over!"))
}

func TestEngine_StopRacingTimeout(t *testing.T) {
	for i := 0; i < 20; i++ {
		out := newRecorder()
		e := newEngine(t, out, 10*time.Millisecond, 5)

		e.StartRound("Boss", domain.PriceIsRight, "!pir 1-10")
		time.Sleep(10 * time.Millisecond)
		e.StopRound("Boss")
		e.Close()

		assert.Equal(t, 1, out.count("Round over!"), "iteration %d", i)
	}
}
