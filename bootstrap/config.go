package bootstrap

import (
	"github.com/kbukum/ntfywatch/config"
)

// Config is the constraint for application configuration types. Any struct
// that embeds config.ServiceConfig satisfies it through promoted methods, as
// long as it also provides ApplyDefaults and Validate covering its own
// sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
