package system

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/engine/status"
	"github.com/lixenwraith/barslide/parameter"
	"github.com/lixenwraith/barslide/vmath"
)

const diagnosticsSampleInterval = 100

// DiagnosticsSystem samples store sizes and component consistency into the status registry
type DiagnosticsSystem struct {
	world *engine.World

	tickCounter int64
	interval    int64

	// Store counts
	statRigidBodyCount   *atomic.Int64
	statTranslationCount *atomic.Int64

	// Consistency checks
	statOrphanRigidBody   *atomic.Int64
	statOrphanTranslation *atomic.Int64
	statNonFinite         *atomic.Int64

	// Energy proxy, sum of squared speeds of active bodies
	statSpeedSq *status.AtomicFloat

	statEntityIssued *atomic.Int64
}

// NewDiagnosticsSystem creates a diagnostics system sampling every interval frames
// Non-positive interval uses the default
func NewDiagnosticsSystem(world *engine.World, interval int) *DiagnosticsSystem {
	reg := world.Status
	if interval <= 0 {
		interval = diagnosticsSampleInterval
	}

	return &DiagnosticsSystem{
		world:    world,
		interval: int64(interval),

		statRigidBodyCount:   reg.Ints.Get("store.rigidbody.count"),
		statTranslationCount: reg.Ints.Get("store.translation.count"),

		statOrphanRigidBody:   reg.Ints.Get("consistency.rigidbody_without_translation"),
		statOrphanTranslation: reg.Ints.Get("consistency.translation_without_rigidbody"),
		statNonFinite:         reg.Ints.Get("consistency.non_finite"),

		statSpeedSq: reg.Floats.Get("rigidbody.speed_sq_total"),

		statEntityIssued: reg.Ints.Get("entity.issued_total"),
	}
}

// Name returns system's name
func (s *DiagnosticsSystem) Name() string {
	return "diagnostics"
}

// Priority returns the system's priority
func (s *DiagnosticsSystem) Priority() int {
	return parameter.PriorityDiagnostics
}

// Update samples on every interval-th frame
func (s *DiagnosticsSystem) Update(_ time.Duration) {
	s.tickCounter++
	if s.tickCounter%s.interval != 0 {
		return
	}
	s.Collect()
}

// Collect samples immediately
func (s *DiagnosticsSystem) Collect() {
	s.statRigidBodyCount.Store(int64(s.world.RigidBodies.Count()))
	s.statTranslationCount.Store(int64(s.world.Translations.Count()))
	s.statEntityIssued.Store(int64(s.world.EntityCount()))
	s.collectConsistencyChecks()
}

func (s *DiagnosticsSystem) collectConsistencyChecks() {
	var orphanBody, orphanTranslation, nonFinite int64
	var speedSq float64

	for _, e := range s.world.RigidBodies.All() {
		if !s.world.Translations.Has(e) {
			orphanBody++
		}
		rb, ok := s.world.RigidBodies.Get(e)
		if !ok {
			continue
		}
		if !vmath.V3FIsFinite(rb.Velocity) {
			nonFinite++
			continue
		}
		if rb.IsActive {
			speedSq += vmath.V3FMagSq(rb.Velocity)
		}
	}

	for _, e := range s.world.Translations.All() {
		if !s.world.RigidBodies.Has(e) {
			orphanTranslation++
		}
		if tr, ok := s.world.Translations.Get(e); ok && !finitePosition(tr) {
			nonFinite++
		}
	}

	s.statOrphanRigidBody.Store(orphanBody)
	s.statOrphanTranslation.Store(orphanTranslation)
	s.statNonFinite.Store(nonFinite)
	s.statSpeedSq.Set(speedSq)
}

func finitePosition(tr core.Translation) bool {
	return vmath.V3FIsFinite(tr.Value)
}
