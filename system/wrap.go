package system

import (
	"time"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/parameter"
)

// Bounds is an axis-aligned rectangle on the X/Y plane
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// WrapSystem teleports translations leaving Bounds to the opposite edge
// Velocity is preserved; the sandbox uses it to keep falling bodies on screen
type WrapSystem struct {
	world  *engine.World
	bounds Bounds
}

// NewWrapSystem creates a wrap system for the given bounds
func NewWrapSystem(world *engine.World, bounds Bounds) *WrapSystem {
	return &WrapSystem{world: world, bounds: bounds}
}

// Name returns system's name
func (s *WrapSystem) Name() string {
	return "wrap"
}

// Priority returns the system's priority
func (s *WrapSystem) Priority() int {
	return parameter.PriorityWrap
}

// SetBounds replaces the wrap rectangle, e.g. after a terminal resize
func (s *WrapSystem) SetBounds(b Bounds) {
	s.bounds = b
}

// Update wraps every translation outside the bounds
func (s *WrapSystem) Update(_ time.Duration) {
	b := s.bounds
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return
	}

	for _, e := range s.world.Translations.All() {
		tr, ok := s.world.Translations.Get(e)
		if !ok {
			continue
		}
		v := &tr.Value
		changed := false

		if v.X < b.MinX {
			v.X = b.MaxX
			changed = true
		} else if v.X > b.MaxX {
			v.X = b.MinX
			changed = true
		}
		// Y up: falling below the floor re-enters from the top
		if v.Y < b.MinY {
			v.Y = b.MaxY
			changed = true
		} else if v.Y > b.MaxY {
			v.Y = b.MinY
			changed = true
		}

		if changed {
			s.world.Translations.Set(e, core.Translation{Value: *v})
		}
	}
}
