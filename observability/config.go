package observability

import (
	"fmt"
	"time"
)

// Config is the observability section of the application config.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain-HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required when enabled")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	return nil
}

// TracerConfig returns the tracer settings for a service.
func (c *Config) TracerConfig(serviceName, serviceVersion, environment string) TracerConfig {
	return TracerConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig returns the meter settings for a service.
func (c *Config) MeterConfig(serviceName, serviceVersion, environment string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.Interval,
	}
}
