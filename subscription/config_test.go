package subscription

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/ntfywatch/component"
	"github.com/kbukum/ntfywatch/httpclient"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.BrokerLabel != "ntfy" {
		t.Errorf("BrokerLabel = %q", cfg.BrokerLabel)
	}
	if cfg.Backoff != 5*time.Second {
		t.Errorf("Backoff = %v", cfg.Backoff)
	}
	if cfg.ConnectTimeout <= 0 {
		t.Error("client defaults should be applied")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		subs      []Topic
		wantField string
	}{
		{"valid", []Topic{{Server: "https://ntfy.sh", Topic: "alerts"}}, ""},
		{"no subscriptions", nil, ""},
		{"missing server", []Topic{{Topic: "alerts"}}, "subscriptions[0].server"},
		{"bad server", []Topic{{Server: "not a url", Topic: "alerts"}}, "subscriptions[0].server"},
		{"missing topic", []Topic{{Server: "https://ntfy.sh"}}, "subscriptions[0].topic"},
		{"slash in topic", []Topic{{Server: "https://ntfy.sh", Topic: "a/b"}}, "subscriptions[0].topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Subscriptions: tt.subs}
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention %q", err, tt.wantField)
			}
		})
	}
}

func TestConfig_ValidateClient(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.TLS = &httpclient.TLSConfig{MinVersion: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected TLS validation error")
	}
	if cfg.ClientConfig().TLS == nil {
		t.Error("ClientConfig should carry TLS settings")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	sc := newSpawnCounter()
	r := NewRegistry(nil, nil, WithRunFunc(sc.run))
	c := NewComponent(r, []Topic{
		{Server: "https://ntfy.sh/", Topic: "alerts"},
		{Server: "https://ntfy.sh", Topic: "alerts"},
		{Server: "https://ntfy.sh", Topic: "builds"},
	})
	ctx := context.Background()

	if c.Name() != "subscriptions" {
		t.Errorf("Name() = %q", c.Name())
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	h := c.Health(ctx)
	if h.Status != component.StatusHealthy || h.Message != "2 active" {
		t.Errorf("Health() = %+v", h)
	}
	if d := c.Describe(); d.Details != "3 configured topics" {
		t.Errorf("Describe() = %+v", d)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health() after Stop = %+v", h)
	}
	if c.Registry() != r {
		t.Error("Registry() should return the wrapped registry")
	}
}

func TestComponent_StartAfterClose(t *testing.T) {
	r := NewRegistry(nil, nil, WithRunFunc(newSpawnCounter().run))
	closeRegistry(t, r)

	c := NewComponent(r, []Topic{{Server: "https://ntfy.sh", Topic: "alerts"}})
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected error starting on a closed registry")
	}
}
