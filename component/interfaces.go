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

// Component is a lifecycle-managed part of an application.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start prepares the component for use.
	Start(ctx context.Context) error

	// Stop releases resources, waiting for in-flight work until ctx is done.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Func adapts a pair of start/stop functions to Component. Either may be nil.
type Func struct {
	ID      string
	StartFn func(ctx context.Context) error
	StopFn  func(ctx context.Context) error
}

// Name implements Component.
func (f Func) Name() string { return f.ID }

// Start implements Component.
func (f Func) Start(ctx context.Context) error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn(ctx)
}

// Stop implements Component.
func (f Func) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

// Health implements Component; a Func is always healthy.
func (f Func) Health(context.Context) Health {
	return Health{Name: f.ID, Status: StatusHealthy}
}
