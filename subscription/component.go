package subscription

import (
	"context"
	"fmt"

	"github.com/kbukum/ntfywatch/component"
	"github.com/kbukum/ntfywatch/logger"
)

// Component runs a Registry under the component lifecycle. Start subscribes
// to the configured topics; Stop closes the registry.
type Component struct {
	registry *Registry
	initial  []Topic
}

// NewComponent wraps registry. initial topics are subscribed on Start.
func NewComponent(registry *Registry, initial []Topic) *Component {
	return &Component{registry: registry, initial: initial}
}

// Registry returns the wrapped registry.
func (c *Component) Registry() *Registry { return c.registry }

// Name returns the component name used in health and summaries.
func (c *Component) Name() string { return "subscriptions" }

// Start subscribes to every configured topic.
func (c *Component) Start(_ context.Context) error {
	for _, t := range c.initial {
		if err := c.registry.Subscribe(t.Server, t.Topic); err != nil {
			return fmt.Errorf("subscribe %s/%s: %w", t.Server, t.Topic, err)
		}
	}
	logger.Info("subscriptions started", logger.Fields("count", c.registry.Len()))
	return nil
}

// Stop closes the registry and waits for workers until ctx ends.
func (c *Component) Stop(ctx context.Context) error {
	return c.registry.Close(ctx)
}

// Health is unhealthy once the registry is closed.
func (c *Component) Health(_ context.Context) component.Health {
	if c.registry.Closed() {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "registry closed"}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d active", c.registry.Len()),
	}
}

// Describe reports how many topics come from configuration.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Subscriptions",
		Type:    "subscriptions",
		Details: fmt.Sprintf("%d configured topics", len(c.initial)),
	}
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)
