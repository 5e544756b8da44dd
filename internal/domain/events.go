package domain

import "time"

// Notification types delivered to presentation sinks
const (
	NotifyStatus             = "status"
	NotifyParticipantAdded   = "participant_added"
	NotifyParticipantsCleared = "participants_cleared"
)

// Notification is a single engine-to-presentation message
type Notification struct {
	Type      string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text,omitempty"`
	Identity  string    `json:"identity,omitempty"`
	Guess     int       `json:"guess,omitempty"`
}

// StatusNotification carries a free-form status line
func StatusNotification(text string) Notification {
	return Notification{Type: NotifyStatus, Timestamp: time.Now(), Text: text}
}

// ParticipantAddedNotification is sent when an entry is accepted
func ParticipantAddedNotification(identity string, guess int) Notification {
	return Notification{Type: NotifyParticipantAdded, Timestamp: time.Now(), Identity: identity, Guess: guess}
}

// ParticipantsClearedNotification is sent when the participant list resets
func ParticipantsClearedNotification() Notification {
	return Notification{Type: NotifyParticipantsCleared, Timestamp: time.Now()}
}
