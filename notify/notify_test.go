package notify

import (
	"errors"
	"strings"
	"testing"
)

func TestNew_SelectsSink(t *testing.T) {
	if _, ok := New(Config{Enabled: false}).(*LogSink); !ok {
		t.Error("disabled config should give a LogSink")
	}
	if _, ok := New(Config{Enabled: true}).(*DesktopSink); !ok {
		t.Error("enabled config should give a DesktopSink")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.AppName != "ntfywatch" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
}

func TestDesktopSink_Show(t *testing.T) {
	var gotTitle, gotBody string
	var gotIcon any
	s := NewDesktopSink(Config{Enabled: true, AppIcon: "/tmp/icon.png"})
	s.notify = func(title, message string, icon any) error {
		gotTitle, gotBody, gotIcon = title, message, icon
		return nil
	}

	if err := s.Show("ntfy: alerts", "disk full", 42); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if gotTitle != "ntfy: alerts" || gotBody != "disk full" || gotIcon != "/tmp/icon.png" {
		t.Errorf("notify called with (%q, %q, %v)", gotTitle, gotBody, gotIcon)
	}
}

func TestDesktopSink_ShowError(t *testing.T) {
	s := NewDesktopSink(Config{Enabled: true})
	s.notify = func(string, string, any) error { return errors.New("no dbus") }

	err := s.Show("t", "b", 7)
	if err == nil || !strings.Contains(err.Error(), "no dbus") {
		t.Errorf("Show error = %v", err)
	}
}

func TestLogSink_Show(t *testing.T) {
	if err := NewLogSink().Show("t", "b", 1); err != nil {
		t.Errorf("LogSink.Show: %v", err)
	}
}
