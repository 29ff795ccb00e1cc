package component

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeComponent records lifecycle calls into a shared journal.
type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	journal  *journal
	onStop   func(ctx context.Context)
}

type journal struct {
	mu    sync.Mutex
	calls []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, s)
}

func (j *journal) get() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.journal != nil {
		f.journal.add("start " + f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	if f.journal != nil {
		f.journal.add("stop " + f.name)
	}
	if f.onStop != nil {
		f.onStop(ctx)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health { return f.health }

// appStack registers components the way the watcher does.
func appStack(j *journal) []*fakeComponent {
	return []*fakeComponent{
		{name: "sse", journal: j},
		{name: "subscriptions", journal: j},
		{name: "http-server", journal: j},
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "sse"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "sse"}); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "subscriptions"})

	if c := r.Get("subscriptions"); c == nil || c.Name() != "subscriptions" {
		t.Errorf("Get(subscriptions) = %v", c)
	}
	if c := r.Get("missing"); c != nil {
		t.Errorf("Get(missing) = %v, want nil", c)
	}
}

func TestLifecycleOrder(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	for _, c := range appStack(j) {
		_ = r.Register(c)
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{
		"start sse", "start subscriptions", "start http-server",
		"stop http-server", "stop subscriptions", "stop sse",
	}
	if got := j.get(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestStartAll_FailureLeavesStartedForStopAll(t *testing.T) {
	j := &journal{}
	stack := appStack(j)
	stack[2].startErr = errors.New("bind: address already in use")

	r := NewRegistry()
	for _, c := range stack {
		_ = r.Register(c)
	}

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "start http-server") {
		t.Fatalf("StartAll error = %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{
		"start sse", "start subscriptions", "start http-server",
		"stop subscriptions", "stop sse",
	}
	if got := j.get(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestStopAll_SkipsUnstarted(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "sse", journal: j})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if got := j.get(); len(got) != 0 {
		t.Errorf("unstarted component was stopped: %v", got)
	}
}

func TestStopAll_JoinsErrorsAndStopsEveryone(t *testing.T) {
	errSSE := errors.New("hub stuck")
	errServer := errors.New("shutdown timed out")
	j := &journal{}
	stack := appStack(j)
	stack[0].stopErr = errSSE
	stack[2].stopErr = errServer

	r := NewRegistry()
	for _, c := range stack {
		_ = r.Register(c)
	}
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, errSSE) || !errors.Is(err, errServer) {
		t.Errorf("StopAll error = %v, want both stop errors", err)
	}
	if n := len(j.get()); n != 6 {
		t.Errorf("expected every component stopped, calls = %v", j.get())
	}
}

func TestStopAll_PerComponentTimeout(t *testing.T) {
	var deadline time.Time
	r := NewRegistry(WithStopTimeout(50 * time.Millisecond))
	_ = r.Register(&fakeComponent{name: "subscriptions", onStop: func(ctx context.Context) {
		deadline, _ = ctx.Deadline()
	}})
	_ = r.StartAll(context.Background())

	began := time.Now()
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if deadline.IsZero() || deadline.Sub(began) > time.Second {
		t.Errorf("stop deadline = %v, want about 50ms after %v", deadline, began)
	}
}

func TestHealthAll_DuringStop(t *testing.T) {
	r := NewRegistry()
	healthSeen := make(chan int, 1)
	// The server answers a health request while it is being stopped.
	_ = r.Register(&fakeComponent{name: "http-server", onStop: func(ctx context.Context) {
		done := make(chan int, 1)
		go func() { done <- len(r.HealthAll(ctx)) }()
		select {
		case n := <-done:
			healthSeen <- n
		case <-time.After(2 * time.Second):
			healthSeen <- -1
		}
	}})
	_ = r.StartAll(context.Background())
	_ = r.StopAll(context.Background())

	if n := <-healthSeen; n != 1 {
		t.Errorf("HealthAll during Stop returned %d results, want 1 (-1 means it blocked)", n)
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "sse", health: Health{Name: "sse", Status: StatusHealthy, Message: "2 clients"}})
	_ = r.Register(&fakeComponent{name: "subscriptions", health: Health{Status: StatusUnhealthy, Message: "registry closed"}})

	got := r.HealthAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Status != StatusHealthy || got[1].Status != StatusUnhealthy {
		t.Errorf("statuses = %s, %s", got[0].Status, got[1].Status)
	}
	if got[1].Name != "subscriptions" {
		t.Errorf("missing name should fall back to component name, got %q", got[1].Name)
	}
}

type describedComponent struct {
	fakeComponent
	desc Description
}

func (d *describedComponent) Describe() Description { return d.desc }

func TestDescriptions(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "plain"})
	_ = r.Register(&describedComponent{
		fakeComponent: fakeComponent{name: "subscriptions"},
		desc:          Description{Type: "subscriptions", Details: "2 configured topics"},
	})

	descs := r.Descriptions()
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	if descs[0].Name != "subscriptions" || descs[0].Details != "2 configured topics" {
		t.Errorf("description = %+v", descs[0])
	}
}
