package server

import (
	"fmt"

	"github.com/kbukum/ntfywatch/server/middleware"
)

// Config holds HTTP server configuration for the local control API.
type Config struct {
	Enabled      bool                  `yaml:"enabled" mapstructure:"enabled"`
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds, lifted for event streams
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "64KiB"
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets default values for unset fields. The API binds to
// loopback unless told otherwise.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8090
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KiB"
	}
	c.CORS.ApplyDefaults()
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	return nil
}

// Address returns host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
