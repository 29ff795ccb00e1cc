package sse

import (
	"io"
	"strings"
	"testing"
)

// mockReadCloser wraps a string reader as an io.ReadCloser.
type mockReadCloser struct {
	*strings.Reader
}

func (m *mockReadCloser) Close() error { return nil }

func newMockBody(s string) io.ReadCloser {
	return &mockReadCloser{strings.NewReader(s)}
}

func TestReader_SingleEvent(t *testing.T) {
	body := newMockBody("data: hello world\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "hello world" {
		t.Errorf("got data %q, want %q", ev.Data, "hello world")
	}
}

func TestReader_MultipleEvents(t *testing.T) {
	body := newMockBody("data: first\n\ndata: second\n\n")
	r := NewReader(body)
	defer r.Close()

	ev1, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev1.Data != "first" {
		t.Errorf("first event data = %q, want %q", ev1.Data, "first")
	}

	ev2, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev2.Data != "second" {
		t.Errorf("second event data = %q, want %q", ev2.Data, "second")
	}

	_, err = r.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReader_EventWithType(t *testing.T) {
	body := newMockBody("event: message\ndata: hello\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Event != "message" {
		t.Errorf("event type = %q, want %q", ev.Event, "message")
	}
	if ev.Data != "hello" {
		t.Errorf("data = %q, want %q", ev.Data, "hello")
	}
}

func TestReader_EventWithID(t *testing.T) {
	body := newMockBody("id: 42\ndata: hello\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID != "42" {
		t.Errorf("id = %q, want %q", ev.ID, "42")
	}
}

func TestReader_MultiLineData(t *testing.T) {
	body := newMockBody("data: line1\ndata: line2\ndata: line3\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "line1\nline2\nline3"
	if ev.Data != want {
		t.Errorf("data = %q, want %q", ev.Data, want)
	}
	lines := []string{"line1", "line2", "line3"}
	if len(ev.Lines) != len(lines) {
		t.Fatalf("lines = %q, want %q", ev.Lines, lines)
	}
	for i := range lines {
		if ev.Lines[i] != lines[i] {
			t.Errorf("lines[%d] = %q, want %q", i, ev.Lines[i], lines[i])
		}
	}
}

func TestReader_LinesResetPerFrame(t *testing.T) {
	body := newMockBody("data: a\ndata: b\n\ndata: c\n\n")
	r := NewReader(body)
	defer r.Close()

	first, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Lines) != 2 || len(second.Lines) != 1 || second.Lines[0] != "c" {
		t.Errorf("lines = %q then %q", first.Lines, second.Lines)
	}
}

func TestReader_SkipsComments(t *testing.T) {
	body := newMockBody(": this is a comment\ndata: hello\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "hello" {
		t.Errorf("data = %q, want %q", ev.Data, "hello")
	}
}

func TestReader_EmptyStream(t *testing.T) {
	body := newMockBody("")
	r := NewReader(body)
	defer r.Close()

	_, err := r.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReader_DataWithoutSpace(t *testing.T) {
	body := newMockBody("data:no-space\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "no-space" {
		t.Errorf("data = %q, want %q", ev.Data, "no-space")
	}
}

func TestReader_LastEventWithoutTrailingNewline(t *testing.T) {
	body := newMockBody("data: trailing")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Data != "trailing" {
		t.Errorf("data = %q, want %q", ev.Data, "trailing")
	}
}

func TestParseSSELine(t *testing.T) {
	tests := []struct {
		line  string
		field string
		value string
	}{
		{"data: hello", "data", "hello"},
		{"data:hello", "data", "hello"},
		{"event: msg", "event", "msg"},
		{"id: 1", "id", "1"},
		{"retry: 3000", "retry", "3000"},
		{"fieldonly", "fieldonly", ""},
	}
	for _, tt := range tests {
		f, v := parseSSELine(tt.line)
		if f != tt.field || v != tt.value {
			t.Errorf("parseSSELine(%q) = (%q, %q), want (%q, %q)", tt.line, f, v, tt.field, tt.value)
		}
	}
}

func TestReader_TwoFramesInOneChunk(t *testing.T) {
	body := newMockBody(`data: {"id":"a","event":"message"}` + "\n\n" + `data: {"id":"b","event":"message"}` + "\n\n")
	r := NewReader(body)
	defer r.Close()

	var got []string
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, ev.Data)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(got), got)
	}
}

func TestReader_CommentOnlyFramesSkipped(t *testing.T) {
	body := newMockBody(":keepalive\n\n: another\n\nevent: keepalive\ndata: {}\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Event != "keepalive" || ev.Data != "{}" {
		t.Errorf("got %+v", ev)
	}
}

func TestReader_RetryField(t *testing.T) {
	body := newMockBody("retry: 3000\ndata: x\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Retry != "3000" {
		t.Errorf("retry = %q, want 3000", ev.Retry)
	}
}

func TestReader_LongLine(t *testing.T) {
	payload := strings.Repeat("x", 200<<10)
	body := newMockBody("data: " + payload + "\n\n")
	r := NewReader(body)
	defer r.Close()

	ev, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ev.Data) != len(payload) {
		t.Errorf("data length = %d, want %d", len(ev.Data), len(payload))
	}
}

func TestReader_LineTooLong(t *testing.T) {
	body := newMockBody("data: " + strings.Repeat("x", MaxLineSize+1) + "\n\n")
	r := NewReader(body)
	defer r.Close()

	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("expected scanner error for oversized line, got %v", err)
	}
}
