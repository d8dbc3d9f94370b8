// Command barslide runs rigid body scenes headless or in an interactive terminal sandbox.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/barslide/core"
	"github.com/lixenwraith/barslide/engine"
	"github.com/lixenwraith/barslide/scene"
	"github.com/lixenwraith/barslide/system"
)

const (
	// Flags.
	flagScene    = "scene"
	flagFrames   = "frames"
	flagTrace    = "trace"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
	flagWorkers  = "workers"
	flagScale    = "scale"
	flagNoAudio  = "no-audio"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "barslide: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	sceneFlag := &cli.StringFlag{
		Name:    flagScene,
		Aliases: []string{"s"},
		Usage:   "scene YAML file; the built-in demo scene when empty",
	}
	workersFlag := &cli.IntFlag{
		Name:  flagWorkers,
		Usage: "override engine.workers from the scene",
	}

	return &cli.App{
		Name:                 "barslide",
		Usage:                "fixed-step rigid body integrator",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run a scene headless for a fixed number of frames",
				Flags: []cli.Flag{
					sceneFlag,
					workersFlag,
					&cli.IntFlag{
						Name:    flagFrames,
						Aliases: []string{"n"},
						Usage:   "override engine.frames from the scene",
					},
					&cli.StringFlag{
						Name:  flagTrace,
						Usage: "write a zstd JSONL trace of every frame to this path",
					},
					&cli.StringFlag{
						Name:  flagLogLevel,
						Value: "info",
						Usage: "log level (debug, info, warn, error)",
					},
				},
				Action: RunAction,
			},
			{
				Name:  "sandbox",
				Usage: "interactive terminal playground",
				Flags: []cli.Flag{
					sceneFlag,
					workersFlag,
					&cli.Float64Flag{
						Name:  flagScale,
						Value: 1,
						Usage: "world units per terminal cell",
					},
					&cli.StringFlag{
						Name:  flagLogFile,
						Value: "logs/barslide.log",
						Usage: "log destination; the terminal is owned by the sandbox",
					},
					&cli.StringFlag{
						Name:  flagLogLevel,
						Value: "info",
						Usage: "log level (debug, info, warn, error)",
					},
					&cli.BoolFlag{
						Name:  flagNoAudio,
						Usage: "disable the terminal velocity cue",
					},
				},
				Action: SandboxAction,
			},
		},
	}
}

// simulation is the world with its systems and scheduler, shared by both commands
type simulation struct {
	scene     *scene.Scene
	world     *engine.World
	rigid     *system.RigidBodySystem
	diag      *system.DiagnosticsSystem
	scheduler *engine.ClockScheduler
	entities  []core.Entity
}

func loadScene(c *cli.Context) (*scene.Scene, error) {
	var (
		sc  *scene.Scene
		err error
	)
	if path := c.String(flagScene); path != "" {
		if sc, err = scene.Load(path); err != nil {
			return nil, err
		}
	} else {
		sc = scene.Default()
	}
	if n := c.Int(flagWorkers); n > 0 {
		sc.Engine.Workers = n
	}
	return sc, nil
}

func newSimulation(sc *scene.Scene, logger *zap.SugaredLogger) *simulation {
	world := engine.NewWorld()
	rigid := system.NewRigidBodySystem(world, logger, system.RigidBodyConfig{
		Workers:           sc.Engine.Workers,
		ParallelThreshold: sc.Engine.ParallelThreshold,
	})
	diag := system.NewDiagnosticsSystem(world, 0)
	world.AddSystem(rigid)
	world.AddSystem(diag)

	return &simulation{
		scene:     sc,
		world:     world,
		rigid:     rigid,
		diag:      diag,
		scheduler: engine.NewClockScheduler(world, sc.Engine.TickInterval(), sc.Engine.Delta(), nil),
		entities:  scene.Spawn(world, sc),
	}
}

// reset clears the world and respawns the scene, keeping systems and counters
func (s *simulation) reset() {
	s.world.RunSafe(func() {
		s.world.Clear()
		s.entities = scene.Spawn(s.world, s.scene)
	})
}
