package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sender identifies which side of the conversation authored a message.
// The numeric values mirror the backend identity tags.
type Sender int

const (
	SenderUser      Sender = 1
	SenderAssistant Sender = 2
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAssistant:
		return "assistant"
	}
	return fmt.Sprintf("sender(%d)", int(s))
}

// Valid reports whether s is one of the two known identities.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// MarshalJSON encodes the sender as its numeric identity tag.
func (s Sender) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// UnmarshalJSON accepts either the numeric tag or the role string.
func (s *Sender) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*s = Sender(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("invalid sender: %s", string(b))
	}
	switch str {
	case "user":
		*s = SenderUser
	case "assistant":
		*s = SenderAssistant
	default:
		return fmt.Errorf("unknown sender %q", str)
	}
	return nil
}

// Message is the canonical, normalized chat message. It is the only message
// shape stored in memory and in the local cache; raw server payloads are
// converted to it at the ingestion boundary.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
	// Custom carries an optional structured side channel, e.g. the
	// cancellable repeated-notification references attached to an
	// assistant message.
	Custom *Custom `json:"custom,omitempty"`
}

// Custom is the structured side-channel payload of a message.
type Custom struct {
	RepeatedNotifications []RepeatedNotification `json:"repeated_notifications,omitempty"`
}

// RepeatedNotification references a server-side repeated notification
// setting that the user may cancel from the conversation.
type RepeatedNotification struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
	// Cron optionally carries the schedule expression so the client can
	// plan local reminders for it.
	Cron string `json:"cron,omitempty"`
}
