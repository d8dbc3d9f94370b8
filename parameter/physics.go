package parameter

// Rigid body integration constants, compile-time only
const (
	// Gravity is subtracted from Y velocity per second for bodies with gravity enabled
	Gravity = 0.5

	// TerminalVelocity is the floor for Y velocity after gravity integration
	TerminalVelocity = -2.0

	// DragEpsilon snaps X velocity to zero when it falls below this value after drag
	// Signed comparison: any non-positive residual is snapped as well
	DragEpsilon = 0.003
)
