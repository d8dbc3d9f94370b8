package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// DefaultTickRateHz is the fixed simulation tick rate when the scene does not set one
	DefaultTickRateHz = 60

	// DefaultFrames is the headless runner frame count when neither scene nor flag sets one
	DefaultFrames = 600
)

// Integrator batching
const (
	// DefaultParallelThreshold is the batch size at which the rigid body system partitions work
	DefaultParallelThreshold = 4096

	// MaxWorkers caps partitions for the parallel step
	MaxWorkers = 64
)
