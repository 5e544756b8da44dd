package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/ernie/giveaway-tracker/internal/domain"
)

const (
	resultPrefix  = "Round over!"
	timeoutNotice = "Time's up! Game ended automatically."
	noGameNotice  = "No active game. Use !PIR or !GTN to start one!"
	clearedNotice = "Game cleared! Ready for new game."
	noRoundToStop = "No active round to stop."
)

func startedText(r *domain.Round, d time.Duration) string {
	return fmt.Sprintf("%s game started by %s!\nRange: %s\nGame ends in %s!\nPlayers use ?number to enter!",
		r.Kind.Title(), r.Admin, r.Range, humanDuration(d))
}

func usageText(kind domain.RoundKind) string {
	return fmt.Sprintf("Usage: !%s <min>-<max> (e.g. !%s 100-500)",
		strings.ToLower(kind.String()), strings.ToLower(kind.String()))
}

func invalidRangeText(command string) string {
	return fmt.Sprintf("Invalid range in %q. Min must be less than or equal to max.", command)
}

func invalidGuessText(identity string) string {
	return fmt.Sprintf("Invalid number format from %s. Use ?number (e.g. ?500)", identity)
}

func outOfRangeText(identity string, guess int, rng domain.Range) string {
	return fmt.Sprintf("%s's guess %d is outside the range %s", identity, guess, rng)
}

func duplicateText(identity string, prev int) string {
	return fmt.Sprintf("%s already entered with %d", identity, prev)
}

func enteredText(identity string, guess int) string {
	return fmt.Sprintf("%s entered with %d!", identity, guess)
}

func resultText(o domain.Outcome) string {
	var b strings.Builder
	b.WriteString(resultPrefix)
	switch {
	case len(o.Winners) == 1:
		fmt.Fprintf(&b, " Winner: %s with guess %d", o.Winners[0], o.WinningGuess)
	case len(o.Winners) > 1:
		fmt.Fprintf(&b, " Winners: %s with guess %d", strings.Join(o.Winners, ", "), o.WinningGuess)
	case o.Participants == 0:
		b.WriteString(" No participants.")
	default:
		b.WriteString(" No winner.")
	}
	fmt.Fprintf(&b, "\nTarget was: %d", o.Target)
	return b.String()
}

func statusText(s domain.RoundSnapshot) string {
	if !s.Exists {
		return noGameNotice
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Current game: %s\n", s.Kind)
	fmt.Fprintf(&b, "Range: %s\n", s.Range)
	fmt.Fprintf(&b, "Participants: %d\n", s.Participants)
	fmt.Fprintf(&b, "Active: %t\n", s.Active)
	fmt.Fprintf(&b, "Started: %s\n", s.StartedAt.Format("15:04:05"))
	fmt.Fprintf(&b, "Time remaining: %s", Clock(s.Remaining))
	return b.String()
}

// Clock formats d as MM:SS, rounding down.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func humanDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
