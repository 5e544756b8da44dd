package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoundClosed      = errors.New("round is not active")
	ErrDuplicateEntry   = errors.New("participant already entered")
	ErrGuessOutOfRange  = errors.New("guess outside round range")
	ErrUnknownRoundKind = errors.New("unknown round kind")
)

// RoundKind selects the scoring rule of a round.
type RoundKind int

const (
	PriceIsRight RoundKind = iota + 1
	GuessTheNumber
)

// String returns the short code used in chat commands and status output.
func (k RoundKind) String() string {
	switch k {
	case PriceIsRight:
		return "PIR"
	case GuessTheNumber:
		return "GTN"
	default:
		return "unknown"
	}
}

// Title returns the display name of the game.
func (k RoundKind) Title() string {
	switch k {
	case PriceIsRight:
		return "Price is Right"
	case GuessTheNumber:
		return "Guess the Number"
	default:
		return "Unknown game"
	}
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Entry is one participant's accepted guess. Entries are never modified.
type Entry struct {
	Guess      int
	ReceivedAt time.Time
}

// Round is one guessing game from open to close.
type Round struct {
	ID        uuid.UUID
	Kind      RoundKind
	Admin     string
	Range     Range
	Target    int
	StartedAt time.Time
	EndsAt    time.Time
	Entries   map[string]Entry
	Active    bool
}

// NewRound creates an open round. The caller guarantees rng.Min <= target <= rng.Max.
func NewRound(kind RoundKind, admin string, rng Range, target int, startedAt time.Time, duration time.Duration) *Round {
	return &Round{
		ID:        uuid.New(),
		Kind:      kind,
		Admin:     admin,
		Range:     rng,
		Target:    target,
		StartedAt: startedAt,
		EndsAt:    startedAt.Add(duration),
		Entries:   make(map[string]Entry),
		Active:    true,
	}
}

// AddEntry records identity's guess. A second entry from the same identity is
// rejected and the first one kept.
func (r *Round) AddEntry(identity string, guess int, at time.Time) error {
	if !r.Active {
		return ErrRoundClosed
	}
	if !r.Range.Contains(guess) {
		return ErrGuessOutOfRange
	}
	if _, ok := r.Entries[identity]; ok {
		return ErrDuplicateEntry
	}
	r.Entries[identity] = Entry{Guess: guess, ReceivedAt: at}
	return nil
}

// Remaining returns the time left until EndsAt, never negative.
func (r *Round) Remaining(now time.Time) time.Duration {
	if d := r.EndsAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Outcome is the result of resolving a round.
type Outcome struct {
	RoundID      uuid.UUID
	Kind         RoundKind
	Target       int
	Participants int
	Winners      []string
	WinningGuess int
}

func (o Outcome) HasWinner() bool {
	return len(o.Winners) > 0
}

// Resolve computes the winners of the round. It does not change the round.
func (r *Round) Resolve() (Outcome, error) {
	out := Outcome{
		RoundID:      r.ID,
		Kind:         r.Kind,
		Target:       r.Target,
		Participants: len(r.Entries),
	}

	var qualifies func(guess int) bool
	switch r.Kind {
	case PriceIsRight:
		// Closest without going over: the highest guess not above target.
		best, found := 0, false
		for _, e := range r.Entries {
			if e.Guess <= r.Target && (!found || e.Guess > best) {
				best, found = e.Guess, true
			}
		}
		if !found {
			return out, nil
		}
		qualifies = func(guess int) bool { return guess == best }
	case GuessTheNumber:
		qualifies = func(guess int) bool { return guess == r.Target }
	default:
		return out, fmt.Errorf("%w: %d", ErrUnknownRoundKind, r.Kind)
	}

	for identity, e := range r.Entries {
		if qualifies(e.Guess) {
			out.Winners = append(out.Winners, identity)
			out.WinningGuess = e.Guess
		}
	}
	sort.Slice(out.Winners, func(i, j int) bool {
		a, b := r.Entries[out.Winners[i]], r.Entries[out.Winners[j]]
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return out.Winners[i] < out.Winners[j]
	})
	return out, nil
}

// RoundSnapshot is a read-only copy of the current round state for display.
type RoundSnapshot struct {
	Exists       bool
	Active       bool
	Kind         RoundKind
	Admin        string
	Range        Range
	Participants int
	StartedAt    time.Time
	EndsAt       time.Time
	Remaining    time.Duration
}

// Snapshot copies the display fields of r at time now.
func (r *Round) Snapshot(now time.Time) RoundSnapshot {
	return RoundSnapshot{
		Exists:       true,
		Active:       r.Active,
		Kind:         r.Kind,
		Admin:        r.Admin,
		Range:        r.Range,
		Participants: len(r.Entries),
		StartedAt:    r.StartedAt,
		EndsAt:       r.EndsAt,
		Remaining:    r.Remaining(now),
	}
}
