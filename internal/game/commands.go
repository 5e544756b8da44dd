package game

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ernie/giveaway-tracker/internal/domain"
)

var (
	ErrRangeSyntax  = errors.New("expected <min>-<max>")
	ErrInvalidRange = errors.New("min must not exceed max")
	ErrInvalidGuess = errors.New("no number in guess")
)

var (
	// !pir 100-500 or !gtn 1-10, nothing glued to the range
	startRegex  = regexp.MustCompile(`(?i)^!(?:pir|gtn)\s+(\d+)-(\d+)(?:\s|$)`)
	digitsRegex = regexp.MustCompile(`\d+`)
)

// ParseRange extracts the inclusive range from a start command.
func ParseRange(command string) (domain.Range, error) {
	match := startRegex.FindStringSubmatch(strings.TrimSpace(command))
	if match == nil {
		return domain.Range{}, ErrRangeSyntax
	}
	lo, err := strconv.Atoi(match[1])
	if err != nil {
		return domain.Range{}, ErrInvalidRange
	}
	hi, err := strconv.Atoi(match[2])
	if err != nil || hi == math.MaxInt {
		return domain.Range{}, ErrInvalidRange
	}
	if lo > hi {
		return domain.Range{Min: lo, Max: hi}, ErrInvalidRange
	}
	return domain.Range{Min: lo, Max: hi}, nil
}

// ParseGuess reads the number following '?'. When the remainder is not a
// plain integer the first run of digits in it is used instead.
func ParseGuess(command string) (int, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(command, "?"))
	if n, err := strconv.Atoi(rest); err == nil {
		return n, nil
	}
	digits := digitsRegex.FindString(rest)
	if digits == "" {
		return 0, ErrInvalidGuess
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, ErrInvalidGuess
	}
	return n, nil
}
