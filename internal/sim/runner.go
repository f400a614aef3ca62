package sim

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"splatwatch/internal/logging"
	"splatwatch/internal/status"
)

// Runner drives a generator on a fixed tick, writing one status
// document per tick until the run reaches a terminal status or the
// context is cancelled.
type Runner struct {
	gen       *Generator
	writer    StatusWriter
	tick      time.Duration
	chaosRate float64
	rng       *rand.Rand
	now       func() time.Time
}

// NewRunner creates a Runner. chaosRate is the per-tick probability of
// replacing the clean write with a torn one; zero disables chaos.
func NewRunner(gen *Generator, writer StatusWriter, tick time.Duration, chaosRate float64) *Runner {
	return &Runner{
		gen:       gen,
		writer:    writer,
		tick:      tick,
		chaosRate: chaosRate,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Run starts the producer loop and stops when the context is done or
// the run finishes.
func (r *Runner) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting training simulator", "tick", r.tick, "run_id", r.gen.RunID())

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping training simulator")
			return nil
		case <-ticker.C:
			doc := r.gen.Step(r.now())

			if r.chaosRate > 0 && doc.Status == status.StatusTraining && r.rng.Float64() < r.chaosRate {
				if rw, ok := r.writer.(rawWriter); ok {
					data, err := json.Marshal(doc)
					if err != nil {
						return err
					}
					if err := rw.WriteRaw(data[:len(data)/2]); err != nil {
						return err
					}
					log.Info("injected torn write", "iteration", doc.CurrentIteration)
					continue
				}
			}

			if err := r.writer.WriteStatus(doc); err != nil {
				return err
			}
			if doc.Status == status.StatusCompleted || doc.Status == status.StatusError {
				log.Info("simulated run finished", "status", doc.Status, "iteration", doc.CurrentIteration)
				return nil
			}
		}
	}
}
