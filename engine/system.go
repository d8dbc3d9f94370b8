package engine

import "time"

// System is an interface that all systems must implement
type System interface {
	// Name identifies the system in logs and metrics
	Name() string
	// Priority orders execution, lower values run first
	Priority() int
	// Update advances the system by one frame of dt
	Update(dt time.Duration)
}
