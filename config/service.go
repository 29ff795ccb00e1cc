package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/ntfywatch/logger"
)

// ServiceConfig contains the fields every ntfywatch process needs.
// Application configs embed it and add their own sections.
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Ntfy subscription.Config `yaml:"ntfy" mapstructure:"ntfy"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. When embedded, the method
// is promoted so the embedding struct satisfies bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
