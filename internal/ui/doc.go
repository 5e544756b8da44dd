// Package ui renders the giveaway in the terminal with Bubble Tea: the latest
// status text, the round countdown and the participant table.
package ui
