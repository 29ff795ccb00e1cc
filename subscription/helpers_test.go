package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/ntfywatch/httpclient"
)

// shown is one NotificationSink.Show call.
type shown struct {
	title string
	body  string
	id    int32
}

// recordingSinks implements both sinks and remembers every call.
type recordingSinks struct {
	mu            sync.Mutex
	notifications []shown
	events        []NewMessageEvent
	channels      []string
	showErr       error
	emitErr       error
}

func (s *recordingSinks) Show(title, body string, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, shown{title, body, id})
	return s.showErr
}

func (s *recordingSinks) Emit(channel string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = append(s.channels, channel)
	if ev, ok := payload.(NewMessageEvent); ok {
		s.events = append(s.events, ev)
	}
	return s.emitErr
}

func (s *recordingSinks) shownCalls() []shown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shown(nil), s.notifications...)
}

func (s *recordingSinks) emitted() []NewMessageEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]NewMessageEvent(nil), s.events...)
}

// manualBackoff blocks each Wait until release is called or ctx ends.
type manualBackoff struct {
	entered chan struct{}
	release chan struct{}
	exited  chan error
}

func newManualBackoff() *manualBackoff {
	return &manualBackoff{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
		exited:  make(chan error, 16),
	}
}

func (b *manualBackoff) Wait(ctx context.Context) error {
	b.entered <- struct{}{}
	select {
	case <-ctx.Done():
		b.exited <- ctx.Err()
		return ctx.Err()
	case <-b.release:
		b.exited <- nil
		return nil
	}
}

// broker is an httptest ntfy server. Each connection is handed to script.
type broker struct {
	*httptest.Server
	connects atomic.Int32
}

func newBroker(t *testing.T, script func(n int32, w http.ResponseWriter, r *http.Request)) *broker {
	t.Helper()
	b := &broker{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := b.connects.Add(1)
		script(n, w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

// writeFrames writes SSE frames and flushes.
func writeFrames(w http.ResponseWriter, frames ...string) {
	for _, f := range frames {
		fmt.Fprint(w, f)
	}
	w.(http.Flusher).Flush()
}

func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	w.(http.Flusher).Flush()
}

func messageFrame(id, topic, title, body string, ts int64) string {
	if title == "" {
		return fmt.Sprintf("data: {\"id\":%q,\"time\":%d,\"event\":\"message\",\"topic\":%q,\"message\":%q}\n\n", id, ts, topic, body)
	}
	return fmt.Sprintf("data: {\"id\":%q,\"time\":%d,\"event\":\"message\",\"topic\":%q,\"title\":%q,\"message\":%q}\n\n", id, ts, topic, title, body)
}

func newTestClient(t *testing.T) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(httpclient.Config{ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	return c
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func receive[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		var zero T
		return zero
	}
}

func closeRegistry(t *testing.T, r *Registry) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Errorf("Close: %v", err)
	}
}

var errTest = errors.New("sink unavailable")
