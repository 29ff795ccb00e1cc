package subscription

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Event kinds sent by the broker. Only EventMessage is dispatched.
const (
	EventOpen        = "open"
	EventKeepalive   = "keepalive"
	EventMessage     = "message"
	EventPollRequest = "poll_request"
)

// ErrNotAMessage is wrapped by every DecodeMessage failure.
var ErrNotAMessage = errors.New("subscription: payload is not a message")

// Message is one broker event in the ntfy JSON format.
type Message struct {
	ID       string   `json:"id"`
	Time     int64    `json:"time"`
	Event    string   `json:"event"`
	Topic    string   `json:"topic"`
	Title    string   `json:"title,omitempty"`
	Body     string   `json:"message,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Priority int      `json:"priority,omitempty"`
	Click    string   `json:"click,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Expires  int64    `json:"expires,omitempty"`
}

// IsMessage reports whether the event should reach the sinks.
func (m *Message) IsMessage() bool {
	return m.Event == EventMessage
}

// wireMessage detects missing required fields, which plain value fields
// cannot tell apart from zero values.
type wireMessage struct {
	ID    *string `json:"id"`
	Time  *int64  `json:"time"`
	Event *string `json:"event"`
	Topic *string `json:"topic"`
}

// DecodeMessage parses one SSE data payload. Empty input, invalid JSON and
// objects lacking id, time, event or topic return an error wrapping
// ErrNotAMessage.
func DecodeMessage(payload string) (*Message, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrNotAMessage)
	}

	var wire wireMessage
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAMessage, err)
	}
	var missing []string
	if wire.ID == nil {
		missing = append(missing, "id")
	}
	if wire.Time == nil {
		missing = append(missing, "time")
	}
	if wire.Event == nil {
		missing = append(missing, "event")
	}
	if wire.Topic == nil {
		missing = append(missing, "topic")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotAMessage, strings.Join(missing, ", "))
	}

	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAMessage, err)
	}
	return &msg, nil
}
