package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/barslide/core"
)

// ClockScheduler drives the world on a fixed tick
// Every tick advances the simulation by the same fixed delta regardless of wall clock jitter
type ClockScheduler struct {
	world        *World
	timeProvider TimeProvider

	// Tick configuration
	tickInterval time.Duration
	fixedDelta   time.Duration

	tickCount atomic.Uint64
	onTick    func(frame uint64)

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	paused   atomic.Bool

	// Cached metric pointers
	statTicks   *atomic.Int64
	statFrameNs *atomic.Int64
}

// NewClockScheduler creates a scheduler ticking every tickInterval and stepping by fixedDelta
// A zero fixedDelta defaults to tickInterval
func NewClockScheduler(world *World, tickInterval, fixedDelta time.Duration, tp TimeProvider) *ClockScheduler {
	if fixedDelta == 0 {
		fixedDelta = tickInterval
	}
	if tp == nil {
		tp = NewMonotonicTimeProvider()
	}
	return &ClockScheduler{
		world:        world,
		timeProvider: tp,
		tickInterval: tickInterval,
		fixedDelta:   fixedDelta,
		stopChan:     make(chan struct{}),
		statTicks:    world.Status.Ints.Get("engine.ticks"),
		statFrameNs:  world.Status.Ints.Get("engine.frame_ns"),
	}
}

// SetTickHook registers a callback run after each completed frame, must be called before Start()
func (cs *ClockScheduler) SetTickHook(fn func(frame uint64)) {
	cs.onTick = fn
}

// FixedDelta returns the simulation delta applied per tick
func (cs *ClockScheduler) FixedDelta() time.Duration {
	return cs.fixedDelta
}

// TickCount returns the number of completed frames
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Tick advances the world by one fixed frame synchronously and returns the frame number
func (cs *ClockScheduler) Tick() uint64 {
	start := cs.timeProvider.Now()
	cs.world.Update(cs.fixedDelta)
	elapsed := cs.timeProvider.Now().Sub(start)

	frame := cs.tickCount.Add(1)
	cs.statTicks.Store(int64(frame))
	cs.statFrameNs.Store(elapsed.Nanoseconds())

	if cs.onTick != nil {
		cs.onTick(frame)
	}
	return frame
}

// Start begins the scheduler loop; it ends on Stop() or when ctx is done
func (cs *ClockScheduler) Start(ctx context.Context) {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		// Use core.Go for safe execution with centralized crash handling
		core.Go(func() {
			cs.schedulerLoop(ctx)
		})
	}
}

// Stop halts the scheduler loop and waits for the in-flight frame to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
	})
	cs.wg.Wait()
	cs.running.Store(false)
}

// Pause suspends loop ticks; explicit Tick() calls still advance the world
func (cs *ClockScheduler) Pause() {
	cs.paused.Store(true)
}

// Resume re-enables loop ticks
func (cs *ClockScheduler) Resume() {
	cs.paused.Store(false)
}

// IsPaused reports whether loop ticks are suspended
func (cs *ClockScheduler) IsPaused() bool {
	return cs.paused.Load()
}

// IsRunning reports whether the loop goroutine is active
func (cs *ClockScheduler) IsRunning() bool {
	return cs.running.Load()
}

func (cs *ClockScheduler) schedulerLoop(ctx context.Context) {
	defer cs.wg.Done()
	defer cs.running.Store(false)

	ticker := time.NewTicker(cs.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cs.stopChan:
			return
		case <-ticker.C:
			if cs.paused.Load() {
				continue
			}
			cs.Tick()
		}
	}
}
