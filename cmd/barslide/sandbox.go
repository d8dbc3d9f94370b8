package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/barslide/audio"
	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/logging"
	"github.com/lixenwraith/barslide/parameter"
	"github.com/lixenwraith/barslide/render"
	"github.com/lixenwraith/barslide/system"
)

const kickVelocity = 1.0

// SandboxAction runs the interactive terminal playground.
func SandboxAction(c *cli.Context) error {
	logger, err := logging.NewFile(c.String(flagLogFile), c.String(flagLogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sc, err := loadScene(c)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	core.SetCrashReset(screen.Fini)
	defer screen.Fini()

	var sound *audio.SoundManager
	if !c.Bool(flagNoAudio) {
		sound = audio.NewSoundManager()
		if err := sound.Initialize(); err != nil {
			logger.Warnw("audio disabled", "error", err)
			sound = nil
		} else {
			defer sound.Cleanup()
		}
	}

	sb := newSandbox(screen, newSimulation(sc, logger), c.Float64(flagScale), sound, logger)
	return sb.run(c.Context)
}

type sandbox struct {
	screen   tcell.Screen
	renderer *render.Renderer
	sim      *simulation
	wrap     *system.WrapSystem
	sound    *audio.SoundManager
	logger   *zap.SugaredLogger

	selected int
	clamps   int
	redraw   chan struct{}
}

func newSandbox(screen tcell.Screen, sim *simulation, scale float64, sound *audio.SoundManager, logger *zap.SugaredLogger) *sandbox {
	sb := &sandbox{
		screen:   screen,
		renderer: render.NewRenderer(screen, scale),
		sim:      sim,
		sound:    sound,
		logger:   logger,
		redraw:   make(chan struct{}, 1),
	}
	sb.wrap = system.NewWrapSystem(sim.world, system.Bounds{})
	sim.world.AddSystem(sb.wrap)
	sb.handleResize()

	// Runs on the scheduler goroutine inside the world lock
	sim.rigid.OnClamp(func(n int) {
		sb.clamps += n
		if sb.sound != nil {
			sb.sound.PlayThud(n)
		}
	})
	sim.scheduler.SetTickHook(func(uint64) {
		select {
		case sb.redraw <- struct{}{}:
		default:
		}
	})
	return sb
}

func (sb *sandbox) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sb.sim.scheduler.Start(ctx)
	defer sb.sim.scheduler.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := sb.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	sb.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !sb.handleInput(ev) {
				sb.logger.Infow("sandbox closed", "frames", sb.sim.scheduler.TickCount())
				return nil
			}
			sb.draw()
		case <-sb.redraw:
			sb.draw()
		}
	}
}

// handleInput applies one terminal event; false means quit
func (sb *sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			sb.sim.world.RunSafe(func() {
				if n := len(sb.sim.entities); n > 0 {
					sb.selected = (sb.selected + 1) % n
				}
			})
			return true
		case tcell.KeyRune:
		default:
			return true
		}

		switch r := ev.Rune(); r {
		case 'q':
			return false
		case 'p':
			if sb.sim.scheduler.IsPaused() {
				sb.sim.scheduler.Resume()
			} else {
				sb.sim.scheduler.Pause()
			}
		case 'n':
			if sb.sim.scheduler.IsPaused() {
				sb.sim.scheduler.Tick()
			}
		case 'r':
			sb.sim.reset()
			sb.selected = 0
			sb.logger.Infow("scene reset", "bodies", len(sb.sim.entities))
		case 'g', 'x', 'y', 'z', ' ', 'k':
			sb.editSelected(func(rb *core.RigidBody) {
				switch r {
				case 'g':
					rb.UseGravity = !rb.UseGravity
				case 'x':
					rb.AxisEnabled = rb.AxisEnabled.Toggle(0)
				case 'y':
					rb.AxisEnabled = rb.AxisEnabled.Toggle(1)
				case 'z':
					rb.AxisEnabled = rb.AxisEnabled.Toggle(2)
				case ' ':
					rb.IsActive = !rb.IsActive
				case 'k':
					rb.Velocity.X += kickVelocity
				}
			})
		}

	case *tcell.EventResize:
		sb.screen.Sync()
		sb.handleResize()
	}
	return true
}

// editSelected mutates the selected body's rigid body under the world lock
func (sb *sandbox) editSelected(fn func(rb *core.RigidBody)) {
	sb.sim.world.RunSafe(func() {
		e, ok := sb.selectedEntity()
		if !ok {
			return
		}
		rb, ok := sb.sim.world.RigidBodies.Get(e)
		if !ok {
			return
		}
		fn(&rb)
		sb.sim.world.RigidBodies.Set(e, rb)
	})
}

func (sb *sandbox) selectedEntity() (core.Entity, bool) {
	if sb.selected < 0 || sb.selected >= len(sb.sim.entities) {
		return 0, false
	}
	return sb.sim.entities[sb.selected], true
}

func (sb *sandbox) handleResize() {
	w, h := sb.renderer.WorldSize()
	// Half a cell inside the far edges so wrapped bodies stay visible
	half := sb.renderer.Scale() / 2
	sb.sim.world.RunSafe(func() {
		sb.wrap.SetBounds(system.Bounds{MinX: 0, MaxX: w - half, MinY: 0, MaxY: h - half})
	})
}

func (sb *sandbox) draw() {
	sb.sim.world.RunSafe(func() {
		e, _ := sb.selectedEntity()
		sb.renderer.Draw(sb.sim.world, e, sb.hud(e))
	})
}

func (sb *sandbox) hud(e core.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame %d  bodies %d  clamps %d", sb.sim.scheduler.TickCount(), len(sb.sim.entities), sb.clamps)
	if rb, ok := sb.sim.world.RigidBodies.Get(e); ok {
		fmt.Fprintf(&b, "  #%d v=(%.2f,%.2f,%.2f) grav=%t active=%t axes=%s",
			e, rb.Velocity.X, rb.Velocity.Y, rb.Velocity.Z, rb.UseGravity, rb.IsActive, axesLabel(rb))
		if rb.Velocity.Y <= parameter.TerminalVelocity {
			b.WriteString("  TERMINAL")
		}
	}
	if sb.sim.scheduler.IsPaused() {
		b.WriteString("  PAUSED")
	}
	b.WriteString("  [tab g x y z spc k p n r q]")
	return b.String()
}

func axesLabel(rb core.RigidBody) string {
	out := []byte("---")
	for i, on := range rb.AxisEnabled.Array() {
		if on {
			out[i] = "xyz"[i]
		}
	}
	return string(out)
}
