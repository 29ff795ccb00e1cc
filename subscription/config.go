package subscription

import (
	"time"

	"github.com/kbukum/ntfywatch/httpclient"
	"github.com/kbukum/ntfywatch/resilience"
	"github.com/kbukum/ntfywatch/validation"
)

// Config is the "ntfy" section of the application config.
//
//	ntfy:
//	  broker_label: ntfy
//	  backoff: 5s
//	  headers: {}
//	  subscriptions:
//	    - {server: "https://ntfy.sh", topic: "alerts"}
type Config struct {
	// BrokerLabel prefixes titles of messages that carry none.
	BrokerLabel string `yaml:"broker_label" mapstructure:"broker_label"`
	// Backoff is the fixed delay between reconnect attempts.
	Backoff time.Duration `yaml:"backoff" mapstructure:"backoff"`
	// Subscriptions are started when the component starts.
	Subscriptions []Topic `yaml:"subscriptions" mapstructure:"subscriptions" validate:"dive"`

	// Connection settings shared by every subscription.
	httpclient.Config `yaml:",inline" mapstructure:",squash"`
}

// Topic names one subscription.
type Topic struct {
	Server string `yaml:"server" mapstructure:"server" json:"server" validate:"required,url"`
	Topic  string `yaml:"topic" mapstructure:"topic" json:"topic" validate:"required,excludes=/"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BrokerLabel == "" {
		c.BrokerLabel = DefaultBrokerLabel
	}
	if c.Backoff <= 0 {
		c.Backoff = resilience.DefaultBackoffInterval
	}
	c.Config.ApplyDefaults()
}

// Validate checks field constraints and the connection settings.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Config.Validate()
}

// ClientConfig returns the HTTP client settings.
func (c *Config) ClientConfig() httpclient.Config {
	return c.Config
}
