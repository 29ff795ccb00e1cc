package httpclient

import (
	"fmt"
	"time"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultUserAgent      = "ntfywatch"
)

// Config configures the streaming HTTP client.
type Config struct {
	// ConnectTimeout bounds dialing and the TLS handshake. It never applies
	// to an established stream. Defaults to 10s.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// UserAgent is sent on every request unless Headers overrides it.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("httpclient: connect_timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
