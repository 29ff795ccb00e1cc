package sse

import (
	"encoding/json"
	"fmt"
)

// Broadcaster delivers raw event data to clients. *Hub implements it.
type Broadcaster interface {
	Broadcast(channel string, data []byte) error
}

// Emitter is an event sink that JSON-encodes payloads into an Envelope and
// broadcasts them on the payload's channel.
type Emitter struct {
	b Broadcaster
}

// NewEmitter creates an Emitter over b.
func NewEmitter(b Broadcaster) *Emitter {
	return &Emitter{b: b}
}

// Emit sends payload to every client listening on channel.
func (e *Emitter) Emit(channel string, payload any) error {
	data, err := json.Marshal(Envelope{Type: channel, Data: payload})
	if err != nil {
		return fmt.Errorf("sse: encode %s event: %w", channel, err)
	}
	return e.b.Broadcast(channel, data)
}

var _ Broadcaster = (*Hub)(nil)
