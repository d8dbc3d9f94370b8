package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityRigidBody   = 100  // Rigid body group, first in the frame
	PriorityWrap        = 150  // Sandbox bounds wrap, after integration
	PriorityDiagnostics = 1000 // Telemetry sampling, last
)
