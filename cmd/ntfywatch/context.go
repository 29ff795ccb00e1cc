package main

import (
	"strings"
	"sync"

	"github.com/kbukum/ntfywatch/config"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once per process. Defaults and
// validation are applied by bootstrap.NewApp, or explicitly by callers that
// do not build an app.
func (c *commandContext) ensureConfig() (*Config, error) {
	c.configOnce.Do(func() {
		var opts []config.LoaderOption
		if c.configFlag != nil {
			if path := strings.TrimSpace(*c.configFlag); path != "" {
				opts = append(opts, config.WithConfigFile(path))
			}
		}
		cfg := defaultConfig()
		if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}
