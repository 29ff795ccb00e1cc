package sse

// Infrastructure event types. Application channels such as "new-message"
// are chosen by the emitter's callers.
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive is used for keep-alive comments.
	EventTypeKeepAlive = "keepalive"
)

// Envelope is the JSON body of every event sent to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	Filter   string            `json:"filter"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
