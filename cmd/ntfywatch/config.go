package main

import (
	"fmt"

	"github.com/kbukum/ntfywatch/config"
	"github.com/kbukum/ntfywatch/notify"
	"github.com/kbukum/ntfywatch/observability"
	"github.com/kbukum/ntfywatch/server"
	"github.com/kbukum/ntfywatch/subscription"
	"github.com/kbukum/ntfywatch/version"
)

const serviceName = "ntfywatch"

// Config is the full application configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Ntfy          subscription.Config  `yaml:"ntfy" mapstructure:"ntfy"`
	Notify        notify.Config        `yaml:"notify" mapstructure:"notify"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// defaultConfig holds values the loader only overwrites when a key is set.
// Booleans that default to true live here since ApplyDefaults cannot tell
// false from unset.
func defaultConfig() *Config {
	return &Config{
		ServiceConfig: config.ServiceConfig{Name: serviceName},
		Notify:        notify.Config{Enabled: true},
		Server:        server.Config{Enabled: true},
	}
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Ntfy.UserAgent == "" {
		c.Ntfy.UserAgent = version.UserAgent(serviceName)
	}
	c.Ntfy.ApplyDefaults()
	c.Notify.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Ntfy.Validate(); err != nil {
		return fmt.Errorf("ntfy: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
