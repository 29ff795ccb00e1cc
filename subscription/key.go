package subscription

import "strings"

// Key identifies one subscription: the normalized server address joined with
// the topic. It is also the topic endpoint on the broker.
type Key string

// NewKey builds the key for (server, topic). Trailing slashes on server are
// ignored, so "https://h/" and "https://h" produce the same key.
func NewKey(server, topic string) Key {
	return Key(NormalizeServer(server) + "/" + topic)
}

// NormalizeServer strips trailing slashes from a server address.
func NormalizeServer(server string) string {
	return strings.TrimRight(server, "/")
}

func (k Key) String() string { return string(k) }

// StreamURL is the SSE endpoint for the key.
func (k Key) StreamURL() string { return string(k) + "/sse" }

// Target is everything a worker needs to know about its subscription.
type Target struct {
	Key    Key
	Server string // normalized
	Topic  string
}

func newTarget(server, topic string) Target {
	return Target{
		Key:    NewKey(server, topic),
		Server: NormalizeServer(server),
		Topic:  topic,
	}
}
