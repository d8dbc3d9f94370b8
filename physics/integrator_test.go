package physics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/parameter"
	"github.com/lixenwraith/barslide/vmath"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestIntegrate_GravityScenario(t *testing.T) {
	rb := core.RigidBody{
		UseGravity:  true,
		IsActive:    true,
		AxisEnabled: vmath.Axis3{Y: true},
	}
	pos := core.Translation{}

	out := Integrate(&rb, &pos, 1.0)

	if out != 0 {
		t.Errorf("expected no outcome flags, got %b", out)
	}
	if rb.Velocity != (vmath.Vec3F{X: 0, Y: -0.5, Z: 0}) {
		t.Errorf("expected velocity (0,-0.5,0), got %v", rb.Velocity)
	}
	if pos.Value != (vmath.Vec3F{X: 0, Y: -0.5, Z: 0}) {
		t.Errorf("expected position (0,-0.5,0), got %v", pos.Value)
	}
}

func TestIntegrate_InactiveFrozen(t *testing.T) {
	cases := []core.RigidBody{
		{Velocity: vmath.Vec3F{X: 1, Y: 2, Z: 3}, UseGravity: true, AxisEnabled: vmath.AllAxes, Drag: 0.5},
		{Velocity: vmath.Vec3F{X: -7, Y: -9, Z: 0.001}, UseGravity: false, AxisEnabled: vmath.Axis3{X: true}},
		{Velocity: vmath.Vec3F{X: 0.002, Y: 0, Z: 0}, UseGravity: true, AxisEnabled: vmath.AllAxes, Drag: 0.99},
	}

	for _, dt := range []float64{0, 0.016, 1, 1000} {
		for i, want := range cases {
			rb := want
			pos := core.Translation{Value: vmath.Vec3F{X: 4, Y: 5, Z: 6}}

			out := Integrate(&rb, &pos, dt)

			if !out.Has(OutcomeSkipped) {
				t.Errorf("case %d dt=%v: expected skipped outcome, got %b", i, dt, out)
			}
			if diff := cmp.Diff(want, rb); diff != "" {
				t.Errorf("case %d dt=%v: body mutated (-want +got):\n%s", i, dt, diff)
			}
			if pos.Value != (vmath.Vec3F{X: 4, Y: 5, Z: 6}) {
				t.Errorf("case %d dt=%v: position mutated, got %v", i, dt, pos.Value)
			}
		}
	}
}

func TestIntegrate_TerminalVelocityClamp(t *testing.T) {
	rb := core.RigidBody{UseGravity: true, IsActive: true, AxisEnabled: vmath.AllAxes}
	pos := core.Translation{}

	clamped := 0
	for i := 0; i < 10; i++ {
		prevY := pos.Value.Y
		if Integrate(&rb, &pos, 1.0).Has(OutcomeClamped) {
			clamped++
		}
		if rb.Velocity.Y < parameter.TerminalVelocity {
			t.Fatalf("step %d: velocity.y %v below terminal velocity", i, rb.Velocity.Y)
		}
		if step := pos.Value.Y - prevY; step < parameter.TerminalVelocity*1.0 {
			t.Fatalf("step %d: displacement %v exceeds terminal bound", i, step)
		}
	}

	if rb.Velocity.Y != parameter.TerminalVelocity {
		t.Errorf("expected velocity.y == %v after 10 steps, got %v", parameter.TerminalVelocity, rb.Velocity.Y)
	}
	// -0.5, -1.0, -1.5, -2.0 reached without clamping, remaining 6 steps clamp
	if clamped != 6 {
		t.Errorf("expected 6 clamped steps, got %d", clamped)
	}
}

func TestIntegrate_ClampFromFastStart(t *testing.T) {
	rb := core.RigidBody{Velocity: vmath.Vec3F{Y: -50}, UseGravity: true, IsActive: true}
	pos := core.Translation{}

	out := Integrate(&rb, &pos, 0.1)

	if !out.Has(OutcomeClamped) {
		t.Error("expected clamp outcome")
	}
	if rb.Velocity.Y != parameter.TerminalVelocity {
		t.Errorf("expected %v, got %v", parameter.TerminalVelocity, rb.Velocity.Y)
	}
}

func TestIntegrate_NoGravityKeepsVerticalVelocity(t *testing.T) {
	rb := core.RigidBody{Velocity: vmath.Vec3F{Y: 1.5}, IsActive: true, AxisEnabled: vmath.AllAxes}
	pos := core.Translation{}

	for i := 0; i < 5; i++ {
		Integrate(&rb, &pos, 1.0)
	}

	if rb.Velocity.Y != 1.5 {
		t.Errorf("expected velocity.y 1.5, got %v", rb.Velocity.Y)
	}
	if !approxEqual(pos.Value.Y, 7.5) {
		t.Errorf("expected position.y 7.5, got %v", pos.Value.Y)
	}

	// Strongly negative start below terminal velocity is not clamped without gravity
	rb = core.RigidBody{Velocity: vmath.Vec3F{Y: -10}, IsActive: true}
	Integrate(&rb, &pos, 1.0)
	if rb.Velocity.Y != -10 {
		t.Errorf("expected velocity.y -10 without gravity, got %v", rb.Velocity.Y)
	}
}

func TestIntegrate_AxisGating(t *testing.T) {
	t.Run("z disabled", func(t *testing.T) {
		rb := core.RigidBody{Velocity: vmath.Vec3F{Z: 3}, IsActive: true, AxisEnabled: vmath.Axis3{X: true, Y: true}}
		pos := core.Translation{Value: vmath.Vec3F{Z: 1}}
		for i := 0; i < 20; i++ {
			Integrate(&rb, &pos, 0.5)
		}
		if pos.Value.Z != 1 {
			t.Errorf("expected position.z unchanged at 1, got %v", pos.Value.Z)
		}
		if rb.Velocity.Z != 3 {
			t.Errorf("expected velocity.z unchanged, got %v", rb.Velocity.Z)
		}
	})

	t.Run("z enabled without drag", func(t *testing.T) {
		rb := core.RigidBody{Velocity: vmath.Vec3F{Z: 3}, IsActive: true, AxisEnabled: vmath.Axis3{Z: true}, Drag: 0.5}
		pos := core.Translation{}
		Integrate(&rb, &pos, 1)
		Integrate(&rb, &pos, 1)
		if pos.Value.Z != 6 {
			t.Errorf("expected position.z 6, got %v", pos.Value.Z)
		}
		if rb.Velocity.Z != 3 {
			t.Errorf("expected velocity.z undamped at 3, got %v", rb.Velocity.Z)
		}
	})

	t.Run("x disabled skips drag and snap", func(t *testing.T) {
		rb := core.RigidBody{Velocity: vmath.Vec3F{X: 0.001}, IsActive: true, AxisEnabled: vmath.Axis3{Y: true, Z: true}, Drag: 0.9}
		pos := core.Translation{Value: vmath.Vec3F{X: 2}}
		for i := 0; i < 5; i++ {
			if Integrate(&rb, &pos, 1).Has(OutcomeSnapped) {
				t.Fatal("snap must not fire with x disabled")
			}
		}
		if pos.Value.X != 2 {
			t.Errorf("expected position.x unchanged at 2, got %v", pos.Value.X)
		}
		if rb.Velocity.X != 0.001 {
			t.Errorf("expected velocity.x unchanged at 0.001, got %v", rb.Velocity.X)
		}
	})

	t.Run("y disabled still integrates gravity", func(t *testing.T) {
		rb := core.RigidBody{UseGravity: true, IsActive: true}
		pos := core.Translation{}
		Integrate(&rb, &pos, 1)
		if rb.Velocity.Y != -0.5 {
			t.Errorf("expected velocity.y -0.5, got %v", rb.Velocity.Y)
		}
		if pos.Value.Y != 0 {
			t.Errorf("expected position.y unchanged, got %v", pos.Value.Y)
		}
	})
}

func TestIntegrate_DragDecay(t *testing.T) {
	rb := core.RigidBody{Velocity: vmath.Vec3F{X: 1.0}, IsActive: true, AxisEnabled: vmath.Axis3{X: true}, Drag: 0.1}
	pos := core.Translation{}

	Integrate(&rb, &pos, 1.0)

	if !approxEqual(pos.Value.X, 1.0) {
		t.Errorf("expected position.x 1.0, got %v", pos.Value.X)
	}
	if !approxEqual(rb.Velocity.X, 0.9) {
		t.Errorf("expected velocity.x 0.9, got %v", rb.Velocity.X)
	}

	prev := rb.Velocity.X
	steps := 1
	for rb.Velocity.X != 0 {
		out := Integrate(&rb, &pos, 1.0)
		steps++
		if rb.Velocity.X > prev {
			t.Fatalf("step %d: velocity.x increased from %v to %v", steps, prev, rb.Velocity.X)
		}
		if rb.Velocity.X == 0 && !out.Has(OutcomeSnapped) {
			t.Fatalf("step %d: expected snapped outcome when reaching zero", steps)
		}
		if steps > 1000 {
			t.Fatal("velocity.x never snapped to zero")
		}
		prev = rb.Velocity.X
	}

	// 0.9^n < 0.003 first at n = 56
	if steps != 56 {
		t.Errorf("expected snap on step 56, got %d", steps)
	}
}

func TestIntegrate_SnapBelowEpsilon(t *testing.T) {
	for _, drag := range []float64{0, 0.1, 0.5} {
		rb := core.RigidBody{Velocity: vmath.Vec3F{X: 0.002}, IsActive: true, AxisEnabled: vmath.Axis3{X: true}, Drag: drag}
		pos := core.Translation{}

		out := Integrate(&rb, &pos, 1.0)

		if rb.Velocity.X != 0 {
			t.Errorf("drag=%v: expected velocity.x 0, got %v", drag, rb.Velocity.X)
		}
		if !out.Has(OutcomeSnapped) {
			t.Errorf("drag=%v: expected snapped outcome", drag)
		}
		// Displacement uses the pre-drag velocity
		if !approxEqual(pos.Value.X, 0.002) {
			t.Errorf("drag=%v: expected position.x 0.002, got %v", drag, pos.Value.X)
		}
	}
}

// The snap compares signed velocity, so leftward motion is zeroed after a single step
func TestIntegrate_NegativeVelocitySnapsToZero(t *testing.T) {
	rb := core.RigidBody{Velocity: vmath.Vec3F{X: -1.0}, IsActive: true, AxisEnabled: vmath.Axis3{X: true}, Drag: 0.1}
	pos := core.Translation{}

	out := Integrate(&rb, &pos, 1.0)

	if !approxEqual(pos.Value.X, -1.0) {
		t.Errorf("expected position.x -1.0, got %v", pos.Value.X)
	}
	if rb.Velocity.X != 0 {
		t.Errorf("expected signed snap to zero velocity.x, got %v", rb.Velocity.X)
	}
	if !out.Has(OutcomeSnapped) {
		t.Error("expected snapped outcome")
	}
}

func TestIntegrate_ZeroVelocityNotReportedAsSnap(t *testing.T) {
	rb := core.RigidBody{IsActive: true, AxisEnabled: vmath.AllAxes, Drag: 0.2}
	pos := core.Translation{}

	if out := Integrate(&rb, &pos, 1.0); out.Has(OutcomeSnapped) {
		t.Error("expected no snap outcome for already zero velocity")
	}
}

func TestIntegrate_ZeroDelta(t *testing.T) {
	rb := core.RigidBody{Velocity: vmath.Vec3F{X: 1, Y: -1, Z: 1}, UseGravity: true, IsActive: true, AxisEnabled: vmath.AllAxes, Drag: 0.5}
	pos := core.Translation{Value: vmath.Vec3F{X: 1, Y: 2, Z: 3}}

	Integrate(&rb, &pos, 0)

	if pos.Value != (vmath.Vec3F{X: 1, Y: 2, Z: 3}) {
		t.Errorf("expected position unchanged with dt=0, got %v", pos.Value)
	}
	if rb.Velocity.Y != -1 {
		t.Errorf("expected no gravity change with dt=0, got %v", rb.Velocity.Y)
	}
	// Drag is per step, not per second
	if rb.Velocity.X != 0.5 {
		t.Errorf("expected drag applied with dt=0, got %v", rb.Velocity.X)
	}
}
