package server

import (
	"context"

	"github.com/kbukum/ntfywatch/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component wraps Server to implement component.Component.
type Component struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Server returns the wrapped server.
func (sc *Component) Server() *Server { return sc.server }

func (sc *Component) Name() string { return componentName }

func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

func (sc *Component) Health(_ context.Context) component.Health {
	if !sc.server.Running() {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "HTTP server not running",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe reports the listen address for the startup summary.
func (sc *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: sc.server.Addr(),
	}
}
