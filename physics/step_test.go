package physics

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/vmath"
)

// randomBatch builds a deterministic batch covering every flag combination
func randomBatch(n int, seed int64) ([]core.RigidBody, []core.Translation) {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]core.RigidBody, n)
	positions := make([]core.Translation, n)
	for i := range bodies {
		bodies[i] = core.RigidBody{
			Velocity:    vmath.Vec3F{X: rng.Float64()*4 - 2, Y: rng.Float64()*6 - 3, Z: rng.Float64()*2 - 1},
			UseGravity:  rng.Intn(2) == 0,
			IsActive:    rng.Intn(4) != 0,
			AxisEnabled: vmath.Axis3{X: rng.Intn(2) == 0, Y: rng.Intn(2) == 0, Z: rng.Intn(2) == 0},
			Drag:        rng.Float64() * 0.3,
		}
		positions[i] = core.Translation{Value: vmath.Vec3F{X: rng.Float64() * 10, Y: rng.Float64() * 10, Z: rng.Float64() * 10}}
	}
	return bodies, positions
}

func cloneBatch(bodies []core.RigidBody, positions []core.Translation) ([]core.RigidBody, []core.Translation) {
	return append([]core.RigidBody(nil), bodies...), append([]core.Translation(nil), positions...)
}

func TestStep_EmptyBatch(t *testing.T) {
	for _, dt := range []float64{0, 0.016, 1} {
		stats, err := Step(nil, nil, dt)
		if err != nil {
			t.Errorf("dt=%v: expected nil error, got %v", dt, err)
		}
		if stats != (StepStats{}) {
			t.Errorf("dt=%v: expected zero stats, got %+v", dt, stats)
		}
	}

	stats, err := StepParallel(context.Background(), []core.RigidBody{}, []core.Translation{}, 1, 8)
	if err != nil || stats != (StepStats{}) {
		t.Errorf("parallel empty: expected zero stats and nil error, got %+v, %v", stats, err)
	}
}

func TestStep_RejectsInvalidDelta(t *testing.T) {
	bodies, positions := randomBatch(16, 1)
	wantBodies, wantPositions := cloneBatch(bodies, positions)

	for _, dt := range []float64{-0.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Step(bodies, positions, dt)
		if !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("dt=%v: expected ErrInvalidDelta, got %v", dt, err)
		}
		_, err = StepParallel(context.Background(), bodies, positions, dt, 4)
		if !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("parallel dt=%v: expected ErrInvalidDelta, got %v", dt, err)
		}
	}

	if diff := cmp.Diff(wantBodies, bodies); diff != "" {
		t.Errorf("bodies mutated by rejected step (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantPositions, positions); diff != "" {
		t.Errorf("positions mutated by rejected step (-want +got):\n%s", diff)
	}
}

func TestStep_RejectsLengthMismatch(t *testing.T) {
	bodies, positions := randomBatch(4, 2)
	wantBodies, _ := cloneBatch(bodies, positions)

	_, err := Step(bodies, positions[:3], 1)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if diff := cmp.Diff(wantBodies, bodies); diff != "" {
		t.Errorf("bodies mutated by rejected step (-want +got):\n%s", diff)
	}
}

func TestStep_Stats(t *testing.T) {
	bodies := []core.RigidBody{
		{IsActive: false},
		{IsActive: true, UseGravity: true, Velocity: vmath.Vec3F{Y: -1.9}},
		{IsActive: true, AxisEnabled: vmath.Axis3{X: true}, Velocity: vmath.Vec3F{X: 0.001}},
		{IsActive: true, AxisEnabled: vmath.AllAxes, Velocity: vmath.Vec3F{X: 1}},
	}
	positions := make([]core.Translation, len(bodies))

	stats, err := Step(bodies, positions, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := StepStats{Processed: 3, Skipped: 1, Clamped: 1, Snapped: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}

func TestStep_OrderIndependence(t *testing.T) {
	const n = 64
	bodies, positions := randomBatch(n, 42)

	// Reference: each entity stepped alone
	singleBodies, singlePositions := cloneBatch(bodies, positions)
	for i := 0; i < n; i++ {
		if _, err := Step(singleBodies[i:i+1], singlePositions[i:i+1], 0.25); err != nil {
			t.Fatalf("single step %d: %v", i, err)
		}
	}

	// Whole batch, permuted
	perm := rand.New(rand.NewSource(7)).Perm(n)
	permBodies := make([]core.RigidBody, n)
	permPositions := make([]core.Translation, n)
	for dst, src := range perm {
		permBodies[dst] = bodies[src]
		permPositions[dst] = positions[src]
	}
	if _, err := Step(permBodies, permPositions, 0.25); err != nil {
		t.Fatalf("batch step: %v", err)
	}

	for dst, src := range perm {
		if diff := cmp.Diff(singleBodies[src], permBodies[dst]); diff != "" {
			t.Errorf("entity %d body differs (-single +batch):\n%s", src, diff)
		}
		if diff := cmp.Diff(singlePositions[src], permPositions[dst]); diff != "" {
			t.Errorf("entity %d position differs (-single +batch):\n%s", src, diff)
		}
	}
}

func TestStepParallel_MatchesSerial(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 16, 5000} {
		bodies, positions := randomBatch(1000, 99)
		serialBodies, serialPositions := cloneBatch(bodies, positions)

		var serialStats, parallelStats StepStats
		for frame := 0; frame < 10; frame++ {
			s, err := Step(serialBodies, serialPositions, 0.1)
			if err != nil {
				t.Fatalf("serial: %v", err)
			}
			serialStats.Add(s)

			p, err := StepParallel(context.Background(), bodies, positions, 0.1, workers)
			if err != nil {
				t.Fatalf("parallel workers=%d: %v", workers, err)
			}
			parallelStats.Add(p)
		}

		if serialStats != parallelStats {
			t.Errorf("workers=%d: stats differ, serial %+v parallel %+v", workers, serialStats, parallelStats)
		}
		if diff := cmp.Diff(serialBodies, bodies); diff != "" {
			t.Errorf("workers=%d: bodies differ (-serial +parallel):\n%s", workers, diff)
		}
		if diff := cmp.Diff(serialPositions, positions); diff != "" {
			t.Errorf("workers=%d: positions differ (-serial +parallel):\n%s", workers, diff)
		}
	}
}

func TestStepParallel_CancelledContext(t *testing.T) {
	bodies, positions := randomBatch(32, 3)
	wantBodies, _ := cloneBatch(bodies, positions)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StepParallel(ctx, bodies, positions, 1, 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if diff := cmp.Diff(wantBodies, bodies); diff != "" {
		t.Errorf("bodies mutated by cancelled step (-want +got):\n%s", diff)
	}
}
