package core

import "github.com/lixenwraith/barslide/vmath"

// RigidBody is the per-entity linear motion state consumed by the integrator
type RigidBody struct {
	// Velocity in world units per second
	Velocity vmath.Vec3F
	// UseGravity accumulates gravity into Velocity.Y each step
	UseGravity bool
	// IsActive false freezes the body for the step
	IsActive bool
	// AxisEnabled gates displacement per axis; X also gates drag
	AxisEnabled vmath.Axis3
	// Drag is the fraction of X velocity removed per step, expected in [0,1)
	Drag float64
}

// Translation is the world-space location of an entity
type Translation struct {
	Value vmath.Vec3F
}
