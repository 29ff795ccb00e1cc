package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed part of the process.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information logged at startup.
type Description struct {
	// Name is the human-readable display name. Falls back to Component.Name().
	Name string
	// Type categorizes the component: "subscriptions", "server", "sse", ...
	Type string
	// Details is a one-line summary, e.g. "127.0.0.1:8090" or "3 topics".
	Details string
}

// Describable is optionally implemented by Components to describe themselves
// in the startup summary.
type Describable interface {
	Describe() Description
}
