package ui

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
)

type sortColumn int

const (
	sortByTime sortColumn = iota
	sortByName
	sortByGuess
	sortColumnCount
)

func (c sortColumn) String() string {
	switch c {
	case sortByName:
		return "Username"
	case sortByGuess:
		return "Guess"
	default:
		return "Time"
	}
}

type participant struct {
	Identity string
	Guess    int
	At       time.Time
	seq      int
}

func sortParticipants(ps []participant, by sortColumn, desc bool) []participant {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, func(a, b participant) int {
		var c int
		switch by {
		case sortByName:
			c = cmp.Compare(strings.ToLower(a.Identity), strings.ToLower(b.Identity))
		case sortByGuess:
			c = cmp.Compare(a.Guess, b.Guess)
		}
		if c == 0 {
			c = cmp.Compare(a.seq, b.seq)
		}
		if desc {
			return -c
		}
		return c
	})
	return out
}

func participantRows(ps []participant) []table.Row {
	rows := make([]table.Row, len(ps))
	for i, p := range ps {
		rows[i] = table.Row{p.Identity, strconv.Itoa(p.Guess), p.At.Format("15:04:05")}
	}
	return rows
}

func participantColumns(by sortColumn, desc bool, width int) []table.Column {
	titles := []string{sortByName.String(), sortByGuess.String(), sortByTime.String()}
	arrow := " ↑"
	if desc {
		arrow = " ↓"
	}
	for i, col := range []sortColumn{sortByName, sortByGuess, sortByTime} {
		if col == by {
			titles[i] += arrow
		}
	}

	nameWidth := width - 12 - 10 - 6
	if nameWidth < 16 {
		nameWidth = 16
	}
	return []table.Column{
		{Title: titles[0], Width: nameWidth},
		{Title: titles[1], Width: 12},
		{Title: titles[2], Width: 10},
	}
}
