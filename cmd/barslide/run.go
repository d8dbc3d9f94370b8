package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/barslide/logging"
	"github.com/lixenwraith/barslide/trace"
)

// RunAction runs the scene for a fixed number of frames and logs the final state.
func RunAction(c *cli.Context) error {
	logger, err := logging.New(c.String(flagLogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sc, err := loadScene(c)
	if err != nil {
		return err
	}
	if n := c.Int(flagFrames); n > 0 {
		sc.Engine.Frames = n
	}

	sim := newSimulation(sc, logger)

	var rec *trace.Recorder
	if path := c.String(flagTrace); path != "" {
		if rec, err = trace.Create(path); err != nil {
			return err
		}
		defer func() {
			if cerr := rec.Close(); cerr != nil {
				logger.Errorw("trace close failed", "error", cerr)
			}
		}()
	}

	dt := sim.scheduler.FixedDelta().Seconds()
	logger.Infow("run started",
		"bodies", len(sim.entities),
		"frames", sc.Engine.Frames,
		"dt", dt,
		"workers", sc.Engine.Workers,
	)

	for i := 0; i < sc.Engine.Frames; i++ {
		frame := sim.scheduler.Tick()
		if rec == nil {
			continue
		}
		if err := rec.Capture(sim.world, frame, dt); err != nil {
			return errors.Wrapf(err, "trace frame %d", frame)
		}
	}

	logSummary(logger, sim)
	return checkRejected(sim)
}

// checkRejected fails the run when any frame step was refused
func checkRejected(sim *simulation) error {
	if n := sim.world.Status.Ints.Get("rigidbody.rejected").Load(); n > 0 {
		return errors.Errorf("%d of %d frames rejected", n, sim.scheduler.TickCount())
	}
	return nil
}

func logSummary(logger *zap.SugaredLogger, sim *simulation) {
	sim.world.RunSafe(sim.diag.Collect)

	fields := make([]any, 0, 32)
	for _, s := range sim.world.Status.Snapshot() {
		fields = append(fields, s.Key, s.Value)
	}
	logger.Infow("run finished", fields...)

	for _, e := range sim.entities {
		rb, ok1 := sim.world.RigidBodies.Get(e)
		tr, ok2 := sim.world.Translations.Get(e)
		if !ok1 || !ok2 {
			continue
		}
		logger.Debugw("body",
			"entity", e,
			"position", tr.Value,
			"velocity", rb.Velocity,
			"active", rb.IsActive,
		)
	}
}
