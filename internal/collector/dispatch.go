package collector

import (
	"strings"

	"github.com/ernie/giveaway-tracker/internal/domain"
	"go.uber.org/zap"
)

// Command is the classification of a chat message's content
type Command int

const (
	CommandUnknown Command = iota
	CommandStartPIR
	CommandStartGTN
	CommandStop
	CommandStatus
	CommandClear
	CommandEntry
)

func (c Command) String() string {
	switch c {
	case CommandStartPIR:
		return "start-pir"
	case CommandStartGTN:
		return "start-gtn"
	case CommandStop:
		return "stop"
	case CommandStatus:
		return "status"
	case CommandClear:
		return "clear"
	case CommandEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// commandPrefixes is checked in order; the first matching prefix wins.
var commandPrefixes = []struct {
	prefix  string
	command Command
}{
	{"!pir ", CommandStartPIR},
	{"!gtn ", CommandStartGTN},
	{"!stop", CommandStop},
	{"!status", CommandStatus},
	{"!clear", CommandClear},
	{"?", CommandEntry},
}

// Classify maps message content to a command using a case-insensitive prefix match.
func Classify(content string) Command {
	lower := strings.ToLower(content)
	for _, p := range commandPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.command
		}
	}
	return CommandUnknown
}

// Handler receives routed commands. The game engine implements it.
type Handler interface {
	StartRound(admin string, kind domain.RoundKind, command string)
	EnterGuess(identity, command string)
	StopRound(admin string)
	ReportStatus(admin string)
	ClearRound(admin string)
}

// Dispatcher routes parsed chat messages to a Handler. It keeps no state.
type Dispatcher struct {
	handler Handler
	log     *zap.SugaredLogger
}

// NewDispatcher creates a dispatcher for handler
func NewDispatcher(handler Handler, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{handler: handler, log: log}
}

// Dispatch classifies msg and forwards it. Unrecognized content is ignored.
func (d *Dispatcher) Dispatch(msg Message) {
	cmd := Classify(msg.Content)
	d.log.Debugf("Message from %q at %s: %q classified as %s", msg.Speaker, msg.Timestamp, msg.Content, cmd)

	switch cmd {
	case CommandStartPIR:
		d.handler.StartRound(msg.Speaker, domain.PriceIsRight, msg.Content)
	case CommandStartGTN:
		d.handler.StartRound(msg.Speaker, domain.GuessTheNumber, msg.Content)
	case CommandStop:
		d.handler.StopRound(msg.Speaker)
	case CommandStatus:
		d.handler.ReportStatus(msg.Speaker)
	case CommandClear:
		d.handler.ClearRound(msg.Speaker)
	case CommandEntry:
		d.handler.EnterGuess(msg.Speaker, msg.Content)
	case CommandUnknown:
	}
}
