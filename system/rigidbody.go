package system

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/parameter"
	"github.com/lixenwraith/barslide/physics"
)

// RigidBodyConfig tunes how the batch is partitioned
type RigidBodyConfig struct {
	// Workers above 1 enables partitioned stepping for large batches
	Workers int
	// ParallelThreshold is the minimum batch size for partitioned stepping
	ParallelThreshold int
}

// RigidBodySystem integrates every entity owning both a RigidBody and a Translation
type RigidBodySystem struct {
	world  *engine.World
	logger *zap.SugaredLogger
	config RigidBodyConfig

	onClamp func(n int)

	statCount     *atomic.Int64
	statProcessed *atomic.Int64
	statSkipped   *atomic.Int64
	statClamped   *atomic.Int64
	statSnapped   *atomic.Int64
	statRejected  *atomic.Int64

	enabled atomic.Bool
}

// NewRigidBodySystem creates a new rigid body system
func NewRigidBodySystem(world *engine.World, logger *zap.SugaredLogger, config RigidBodyConfig) *RigidBodySystem {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if config.ParallelThreshold <= 0 {
		config.ParallelThreshold = parameter.DefaultParallelThreshold
	}
	config.Workers = min(max(config.Workers, 1), parameter.MaxWorkers)

	s := &RigidBodySystem{
		world:  world,
		logger: logger.Named("rigidbody"),
		config: config,
	}

	s.statCount = world.Status.Ints.Get("rigidbody.count")
	s.statProcessed = world.Status.Ints.Get("rigidbody.processed")
	s.statSkipped = world.Status.Ints.Get("rigidbody.skipped")
	s.statClamped = world.Status.Ints.Get("rigidbody.clamped")
	s.statSnapped = world.Status.Ints.Get("rigidbody.snapped")
	s.statRejected = world.Status.Ints.Get("rigidbody.rejected")

	s.enabled.Store(true)
	return s
}

// Name returns system's name
func (s *RigidBodySystem) Name() string {
	return "rigidbody"
}

// Priority returns the system's priority
func (s *RigidBodySystem) Priority() int {
	return parameter.PriorityRigidBody
}

// SetEnabled toggles integration; a disabled system leaves all bodies untouched
func (s *RigidBodySystem) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// Enabled reports whether the system integrates on Update
func (s *RigidBodySystem) Enabled() bool {
	return s.enabled.Load()
}

// OnClamp registers a listener called with the number of bodies clamped in a frame, if any
func (s *RigidBodySystem) OnClamp(fn func(n int)) {
	s.onClamp = fn
}

// Update integrates the frame batch and commits it back to the stores
func (s *RigidBodySystem) Update(dt time.Duration) {
	if !s.enabled.Load() {
		return
	}

	seconds := dt.Seconds()
	var stats physics.StepStats

	err := engine.WithBatch(s.world.RigidBodies, s.world.Translations,
		func(b *engine.Batch[core.RigidBody, core.Translation]) error {
			s.statCount.Store(int64(b.Len()))
			if b.Len() == 0 {
				return nil
			}

			var err error
			if s.config.Workers > 1 && b.Len() >= s.config.ParallelThreshold {
				stats, err = physics.StepParallel(context.Background(), b.First, b.Second, seconds, s.config.Workers)
			} else {
				stats, err = physics.Step(b.First, b.Second, seconds)
			}
			return err
		})

	if err != nil {
		s.statRejected.Add(1)
		s.logger.Warnw("frame step rejected", "dt", dt, "error", err)
		return
	}

	s.statProcessed.Add(int64(stats.Processed))
	s.statSkipped.Add(int64(stats.Skipped))
	s.statClamped.Add(int64(stats.Clamped))
	s.statSnapped.Add(int64(stats.Snapped))

	if stats.Clamped > 0 && s.onClamp != nil {
		s.onClamp(stats.Clamped)
	}
}
