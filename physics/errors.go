package physics

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDelta is returned for negative, NaN or infinite frame deltas
	ErrInvalidDelta = errors.New("invalid frame delta")

	// ErrLengthMismatch is returned when body and translation slices differ in length
	ErrLengthMismatch = errors.New("body and translation batch length mismatch")
)

// ValidateDelta rejects deltas the integrator cannot apply; zero is accepted
func ValidateDelta(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return errors.Wrapf(ErrInvalidDelta, "dt=%v", dt)
	}
	return nil
}
