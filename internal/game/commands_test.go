package game

import (
	"testing"
	"time"

	"github.com/ernie/giveaway-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		command string
		want    domain.Range
		err     error
	}{
		{"!pir 100-500", domain.Range{Min: 100, Max: 500}, nil},
		{"!GTN 1-10", domain.Range{Min: 1, Max: 10}, nil},
		{"!gtn   5-5", domain.Range{Min: 5, Max: 5}, nil},
		{"!pir 1-100 go go go", domain.Range{Min: 1, Max: 100}, nil},
		{"!pir 100-1", domain.Range{Min: 100, Max: 1}, ErrInvalidRange},
		{"!pir 1-99999999999999999999999", domain.Range{}, ErrInvalidRange},
		{"!pir", domain.Range{}, ErrRangeSyntax},
		{"!pir 100", domain.Range{}, ErrRangeSyntax},
		{"!pir a-b", domain.Range{}, ErrRangeSyntax},
		{"!pir 1-100x", domain.Range{}, ErrRangeSyntax},
		{"!pir -5-10", domain.Range{}, ErrRangeSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got, err := ParseRange(tt.command)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGuess(t *testing.T) {
	tests := []struct {
		command string
		want    int
		ok      bool
	}{
		{"?500", 500, true},
		{"? 42", 42, true},
		{"?0", 0, true},
		{"?007", 7, true},
		{"?500isk", 500, true},
		{"?about 30 maybe", 30, true},
		{"?", 0, false},
		{"?abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got, err := ParseGuess(tt.command)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidGuess)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClock(t *testing.T) {
	assert.Equal(t, "02:00", Clock(DefaultDuration))
	assert.Equal(t, "00:59", Clock(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "00:00", Clock(-5))
}
