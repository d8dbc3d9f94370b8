// Package scene loads rigid body scenes from YAML and spawns them into a world.
package scene

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/parameter"
	"github.com/lixenwraith/barslide/vmath"
)

// ErrInvalidScene wraps schema violations and empty documents
var ErrInvalidScene = errors.New("invalid scene")

// Scene is a scene file: engine settings plus the initial bodies
type Scene struct {
	Engine Engine `yaml:"engine"`
	Bodies []Body `yaml:"bodies"`
}

// Engine holds runtime settings; physics constants are not configurable
type Engine struct {
	TickRateHz        int     `yaml:"tick_rate_hz"`
	FixedDelta        float64 `yaml:"fixed_delta"` // seconds, 0 means one tick
	Workers           int     `yaml:"workers"`
	ParallelThreshold int     `yaml:"parallel_threshold"`
	Frames            int     `yaml:"frames"`
}

// Body describes one body, or Count copies offset by Spacing
type Body struct {
	Name       string     `yaml:"name"`
	Position   [3]float64 `yaml:"position"`
	Velocity   [3]float64 `yaml:"velocity"`
	UseGravity *bool      `yaml:"use_gravity"` // default true
	Active     *bool      `yaml:"active"`      // default true
	Axes       *[3]bool   `yaml:"axes"`        // default all enabled
	Drag       float64    `yaml:"drag"`
	Count      int        `yaml:"count"`
	Spacing    [3]float64 `yaml:"spacing"`
}

// Load reads and parses a scene file
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return s, nil
}

// Parse validates data against the scene schema, decodes it and applies defaults
func Parse(data []byte) (*Scene, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "scene yaml")
	}
	if doc == nil {
		return nil, errors.Wrap(ErrInvalidScene, "empty document")
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "scene yaml")
	}
	if s.Engine.FixedDelta > 0 && s.Engine.Delta() <= 0 {
		return nil, errors.Wrapf(ErrInvalidScene, "fixed_delta %v does not fit a frame duration", s.Engine.FixedDelta)
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Scene) applyDefaults() {
	if s.Engine.TickRateHz == 0 {
		s.Engine.TickRateHz = parameter.DefaultTickRateHz
	}
	if s.Engine.ParallelThreshold == 0 {
		s.Engine.ParallelThreshold = parameter.DefaultParallelThreshold
	}
	if s.Engine.Frames == 0 {
		s.Engine.Frames = parameter.DefaultFrames
	}
	for i := range s.Bodies {
		if s.Bodies[i].Count == 0 {
			s.Bodies[i].Count = 1
		}
	}
}

// TickInterval is the wall clock period between frames
func (e Engine) TickInterval() time.Duration {
	return time.Second / time.Duration(e.TickRateHz)
}

// Delta is the simulation delta applied per frame
func (e Engine) Delta() time.Duration {
	if e.FixedDelta > 0 {
		// Below 1ns truncates to zero; Parse rejects it
		return time.Duration(e.FixedDelta * float64(time.Second))
	}
	return e.TickInterval()
}

// RigidBody builds the initial rigid body state
func (b Body) RigidBody() core.RigidBody {
	rb := core.RigidBody{
		Velocity:    vmath.V3FFromArray(b.Velocity),
		UseGravity:  true,
		IsActive:    true,
		AxisEnabled: vmath.AllAxes,
		Drag:        b.Drag,
	}
	if b.UseGravity != nil {
		rb.UseGravity = *b.UseGravity
	}
	if b.Active != nil {
		rb.IsActive = *b.Active
	}
	if b.Axes != nil {
		rb.AxisEnabled = vmath.Axis3FromArray(*b.Axes)
	}
	return rb
}

// Translation returns the position of copy i
func (b Body) Translation(i int) core.Translation {
	offset := vmath.V3FScale(vmath.V3FFromArray(b.Spacing), float64(i))
	return core.Translation{Value: vmath.V3FAdd(vmath.V3FFromArray(b.Position), offset)}
}

// Spawn creates every body of the scene in w and returns the entities in spawn order
func Spawn(w *engine.World, s *Scene) []core.Entity {
	var out []core.Entity
	for _, b := range s.Bodies {
		rb := b.RigidBody()
		for i := 0; i < b.Count; i++ {
			e := w.CreateEntity()
			w.RigidBodies.Set(e, rb)
			w.Translations.Set(e, b.Translation(i))
			out = append(out, e)
		}
	}
	return out
}

// Default is the built-in demo scene used when no file is given
func Default() *Scene {
	off := false
	planar := [3]bool{true, true, false}
	s := &Scene{
		Bodies: []Body{
			{Name: "dropper", Position: [3]float64{2, 20, 0}, Count: 6, Spacing: [3]float64{6, 2, 0}},
			{Name: "slider", Position: [3]float64{0, 12, 0}, Velocity: [3]float64{4, 0, 0}, Drag: 0.02, Axes: &planar},
			{Name: "floater", Position: [3]float64{30, 8, 0}, Velocity: [3]float64{0, 0.5, 0}, UseGravity: &off},
			{Name: "sleeper", Position: [3]float64{40, 16, 0}, Active: &off},
		},
	}
	s.applyDefaults()
	return s
}
