package collector

import (
	"testing"

	"github.com/ernie/giveaway-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		content string
		want    Command
	}{
		{"!pir 1-100", CommandStartPIR},
		{"!PIR 1-100", CommandStartPIR},
		{"!gtn 5-10", CommandStartGTN},
		{"!Gtn 5-10", CommandStartGTN},
		{"!pir", CommandUnknown},
		{"!stop", CommandStop},
		{"!STOP now", CommandStop},
		{"!status", CommandStatus},
		{"!clear", CommandClear},
		{"?500", CommandEntry},
		{"? 500", CommandEntry},
		{"hello ?500", CommandUnknown},
		{"o7", CommandUnknown},
		{"", CommandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.content))
		})
	}
}

type call struct {
	method string
	who    string
	kind   domain.RoundKind
	arg    string
}

type recordingHandler struct {
	calls []call
}

func (h *recordingHandler) StartRound(admin string, kind domain.RoundKind, command string) {
	h.calls = append(h.calls, call{method: "start", who: admin, kind: kind, arg: command})
}

func (h *recordingHandler) EnterGuess(identity, command string) {
	h.calls = append(h.calls, call{method: "enter", who: identity, arg: command})
}

func (h *recordingHandler) StopRound(admin string) {
	h.calls = append(h.calls, call{method: "stop", who: admin})
}

func (h *recordingHandler) ReportStatus(admin string) {
	h.calls = append(h.calls, call{method: "status", who: admin})
}

func (h *recordingHandler) ClearRound(admin string) {
	h.calls = append(h.calls, call{method: "clear", who: admin})
}

func TestDispatcher_Dispatch(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h, zap.NewNop().Sugar())

	for _, content := range []string{"!pir 1-100", "!gtn 1-10", "?50", "!status", "!stop", "!clear", "gf"} {
		d.Dispatch(Message{Timestamp: UnknownTimestamp, Speaker: "Pilot", Content: content})
	}

	assert.Equal(t, []call{
		{method: "start", who: "Pilot", kind: domain.PriceIsRight, arg: "!pir 1-100"},
		{method: "start", who: "Pilot", kind: domain.GuessTheNumber, arg: "!gtn 1-10"},
		{method: "enter", who: "Pilot", arg: "?50"},
		{method: "status", who: "Pilot"},
		{method: "stop", who: "Pilot"},
		{method: "clear", who: "Pilot"},
	}, h.calls)
}
