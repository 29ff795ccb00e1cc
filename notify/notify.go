// Package notify presents subscription messages as desktop notifications.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/kbukum/ntfywatch/logger"
)

// Config is the "notify" section of the application config.
type Config struct {
	// Enabled shows real desktop notifications. When false, notifications
	// are only logged.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// AppName is the application name shown by the notification daemon.
	AppName string `yaml:"app_name" mapstructure:"app_name"`
	// AppIcon is an optional path to an icon file.
	AppIcon string `yaml:"app_icon" mapstructure:"app_icon"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = "ntfywatch"
	}
}

// Sink is a notification sink: subscription.NotificationSink.
type Sink interface {
	Show(title, body string, id int32) error
}

// New returns the sink selected by cfg.
func New(cfg Config) Sink {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return NewLogSink()
	}
	return NewDesktopSink(cfg)
}

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message string, icon any) error

// beeepMu serializes access to beeep's package-level AppName.
var beeepMu sync.Mutex

// DesktopSink shows notifications through the OS notification service.
type DesktopSink struct {
	appName string
	icon    string
	notify  notifyFunc
	log     *logger.Logger
}

// NewDesktopSink creates a sink backed by beeep.
func NewDesktopSink(cfg Config) *DesktopSink {
	cfg.ApplyDefaults()
	return &DesktopSink{
		appName: cfg.AppName,
		icon:    cfg.AppIcon,
		notify:  beeep.Notify,
		log:     logger.WithComponent("notify"),
	}
}

// Show displays a notification. id is the stable handle derived from the
// message timestamp; it is logged for correlation.
func (s *DesktopSink) Show(title, body string, id int32) error {
	beeepMu.Lock()
	beeep.AppName = s.appName
	err := s.notify(title, body, s.icon)
	beeepMu.Unlock()

	if err != nil {
		return fmt.Errorf("notify: show %d: %w", id, err)
	}
	s.log.Debug("notification shown", logger.Fields("id", id, "title", title))
	return nil
}

// LogSink writes notifications to the log instead of the desktop.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink() *LogSink {
	return &LogSink{log: logger.WithComponent("notify")}
}

func (s *LogSink) Show(title, body string, id int32) error {
	s.log.Info("notification", logger.Fields("id", id, "title", title, "body", body))
	return nil
}
