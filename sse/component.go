package sse

import (
	"context"
	"fmt"

	"github.com/kbukum/ntfywatch/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the hub that fans ntfywatch events out to UI clients.
// Start it before the subscriptions that emit into it.
type Component struct {
	hub  *Hub
	path string
	done chan struct{}
}

// NewComponent creates a component whose hub is served at path.
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

// Hub returns the hub the HTTP handler registers clients on.
func (c *Component) Hub() *Hub { return c.hub }

// Emitter returns the sink the dispatcher publishes subscription events to.
func (c *Component) Emitter() *Emitter { return NewEmitter(c.hub) }

func (c *Component) Name() string { return "sse" }

func (c *Component) Start(_ context.Context) error {
	if c.done != nil {
		return fmt.Errorf("sse: already started")
	}
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.hub.Run()
	}()
	return nil
}

// Stop closes every client stream and waits for the hub loop, or for ctx.
func (c *Component) Stop(ctx context.Context) error {
	c.hub.Stop()
	if c.done == nil {
		return nil
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sse: hub loop still running: %w", ctx.Err())
	}
}

func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.hub.Stopped() {
		h.Status, h.Message = component.StatusUnhealthy, "hub stopped"
		return h
	}
	h.Message = fmt.Sprintf("%d clients connected", c.hub.ClientCount())
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Event Stream",
		Type:    "sse",
		Details: "Path: " + c.path,
	}
}
