package physics

import (
	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/parameter"
)

// Outcome reports which branches of the integration rule fired for one body
type Outcome uint8

const (
	// OutcomeSkipped marks an inactive body left untouched
	OutcomeSkipped Outcome = 1 << iota
	// OutcomeClamped marks a Y velocity floored at terminal velocity
	OutcomeClamped
	// OutcomeSnapped marks a non-zero X velocity snapped to zero after drag
	OutcomeSnapped
)

// Has reports whether all bits of o are set
func (r Outcome) Has(o Outcome) bool {
	return r&o == o
}

// Integrate advances one body by dt: gravity with terminal clamp, then per-axis displacement
// X displacement also applies drag and the signed snap-to-zero check
// dt must already be validated; Integrate never fails
func Integrate(rb *core.RigidBody, pos *core.Translation, dt float64) Outcome {
	if !rb.IsActive {
		return OutcomeSkipped
	}

	var out Outcome

	if rb.UseGravity {
		rb.Velocity.Y -= parameter.Gravity * dt
		if rb.Velocity.Y < parameter.TerminalVelocity {
			rb.Velocity.Y = parameter.TerminalVelocity
			out |= OutcomeClamped
		}
	}

	if rb.AxisEnabled.X {
		pos.Value.X += rb.Velocity.X * dt

		rb.Velocity.X *= 1 - rb.Drag

		// Signed comparison, negative velocities are zeroed too
		if rb.Velocity.X < parameter.DragEpsilon {
			if rb.Velocity.X != 0 {
				out |= OutcomeSnapped
			}
			rb.Velocity.X = 0
		}
	}

	if rb.AxisEnabled.Y {
		pos.Value.Y += rb.Velocity.Y * dt
	}

	if rb.AxisEnabled.Z {
		pos.Value.Z += rb.Velocity.Z * dt
	}

	return out
}
