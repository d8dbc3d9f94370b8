// Package render draws rigid bodies onto a tcell screen.
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/parameter"
	"github.com/lixenwraith/barslide/vmath"
)

// Glyphs per body state
const (
	GlyphFalling  = '●' // active, gravity on
	GlyphFloating = '○' // active, gravity off
	GlyphFrozen   = '■' // inactive
)

var (
	styleFalling  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFloating = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleFrozen   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTerminal = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Renderer projects the X/Y plane onto the screen, Y up, one cell per Scale world units
// The bottom row is reserved for the HUD
type Renderer struct {
	screen tcell.Screen
	scale  float64
}

// NewRenderer creates a renderer; non-positive scale defaults to 1
func NewRenderer(screen tcell.Screen, scale float64) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{screen: screen, scale: scale}
}

// Scale returns world units per cell
func (r *Renderer) Scale() float64 {
	return r.scale
}

// Field returns the drawable area in cells, excluding the HUD row
func (r *Renderer) Field() (w, h int) {
	w, h = r.screen.Size()
	return w, max(h-1, 0)
}

// WorldSize returns the drawable area in world units
func (r *Renderer) WorldSize() (w, h float64) {
	cw, ch := r.Field()
	return float64(cw) * r.scale, float64(ch) * r.scale
}

// Project maps a world position to a cell; ok is false outside the field
func (r *Renderer) Project(v vmath.Vec3F) (x, y int, ok bool) {
	if !vmath.IsFinite(v.X) || !vmath.IsFinite(v.Y) {
		return 0, 0, false
	}
	w, h := r.Field()
	x = int(math.Floor(v.X / r.scale))
	row := int(math.Floor(v.Y / r.scale))
	y = h - 1 - row
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

// Draw clears the screen, draws every body and the HUD line, then shows the frame
// selected is drawn reversed; pass 0 for none
func (r *Renderer) Draw(w *engine.World, selected core.Entity, hud string) {
	r.screen.Clear()

	for _, e := range w.Query().With(w.RigidBodies).With(w.Translations).Execute() {
		rb, ok1 := w.RigidBodies.Get(e)
		tr, ok2 := w.Translations.Get(e)
		if !ok1 || !ok2 {
			continue
		}
		x, y, ok := r.Project(tr.Value)
		if !ok {
			continue
		}
		glyph, style := glyphFor(rb)
		if e == selected {
			style = style.Reverse(true)
		}
		r.screen.SetContent(x, y, glyph, nil, style)
	}

	r.drawHUD(hud)
	r.screen.Show()
}

func (r *Renderer) drawHUD(text string) {
	sw, sh := r.screen.Size()
	if sh == 0 {
		return
	}
	row := sh - 1
	runes := []rune(text)
	for x := 0; x < sw; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		r.screen.SetContent(x, row, ch, nil, styleHUD)
	}
}

func glyphFor(rb core.RigidBody) (rune, tcell.Style) {
	switch {
	case !rb.IsActive:
		return GlyphFrozen, styleFrozen
	case !rb.UseGravity:
		return GlyphFloating, styleFloating
	case rb.Velocity.Y <= parameter.TerminalVelocity:
		return GlyphFalling, styleTerminal
	default:
		return GlyphFalling, styleFalling
	}
}
