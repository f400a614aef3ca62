// Synthetic training run producing status documents
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"splatwatch/internal/config"
	"splatwatch/internal/status"
)

// Generator advances a synthetic training run and emits one status
// document per step. It mimics a Gaussian-splat trainer: iterations
// advance in fixed strides, the splat count grows with jitter, eval
// metrics appear at eval boundaries and exports at export boundaries.
type Generator struct {
	scenario *config.Scenario
	runID    string
	start    time.Time
	rng      *rand.Rand

	iteration  int64
	splats     float64
	psnr       *float64
	ssim       *float64
	exportFile *string
}

// NewGenerator creates a generator for one run. A zero seed derives
// one from the start time.
func NewGenerator(sc *config.Scenario, start time.Time, seed int64) *Generator {
	if seed == 0 {
		seed = start.UnixNano()
	}
	return &Generator{
		scenario: sc,
		runID:    uuid.NewString(),
		start:    start,
		rng:      rand.New(rand.NewSource(seed)),
		splats:   float64(sc.InitialSplats),
	}
}

// RunID returns the identifier stamped on every document of this run.
func (g *Generator) RunID() string { return g.runID }

// Step advances the run by one tick and returns the document the
// producer would write at that moment.
func (g *Generator) Step(now time.Time) status.Document {
	sc := g.scenario
	prev := g.iteration

	g.iteration += sc.IterationsPerTick
	if g.iteration > sc.TotalIterations {
		g.iteration = sc.TotalIterations
	}

	st := status.StatusTraining
	if sc.FailAtIteration > 0 && g.iteration >= sc.FailAtIteration {
		g.iteration = sc.FailAtIteration
		st = status.StatusError
	} else if g.iteration >= sc.TotalIterations {
		st = status.StatusCompleted
	}

	// Splat growth with +-10% jitter per stride.
	stride := float64(g.iteration - prev)
	g.splats += sc.SplatGrowthPerIter * stride * (0.9 + 0.2*g.rng.Float64())

	progress := 100 * float64(g.iteration) / float64(sc.TotalIterations)

	if sc.EvalEveryIterations > 0 && crossed(prev, g.iteration, sc.EvalEveryIterations) {
		psnr := 20 + 12*progress/100 + g.rng.Float64()
		ssim := 0.75 + 0.2*progress/100 + 0.02*g.rng.Float64()
		if ssim > 1 {
			ssim = 1
		}
		g.psnr, g.ssim = &psnr, &ssim
	}
	if sc.ExportEvery > 0 && crossed(prev, g.iteration, sc.ExportEvery) {
		name := fmt.Sprintf("%s_%07d.ply", sc.ExportPrefix, g.iteration)
		g.exportFile = &name
	}
	if st == status.StatusCompleted {
		name := fmt.Sprintf("%s_final.ply", sc.ExportPrefix)
		g.exportFile = &name
	}

	elapsed := now.Sub(g.start).Seconds()
	remaining := 0.0
	if g.iteration > 0 && st == status.StatusTraining {
		remaining = elapsed * float64(sc.TotalIterations-g.iteration) / float64(g.iteration)
	}

	exportPath := sc.ExportPath
	return status.Document{
		CurrentIteration:          g.iteration,
		TotalIterations:           sc.TotalIterations,
		ProgressPercentage:        progress,
		ElapsedTimeSeconds:        elapsed,
		EstimatedRemainingSeconds: remaining,
		CurrentSplatCount:         int64(g.splats),
		LastEvalPSNR:              g.psnr,
		LastEvalSSIM:              g.ssim,
		ExportPath:                &exportPath,
		CurrentExportFile:         g.exportFile,
		Status:                    st,
		LastUpdated:               now.UTC().Format(time.RFC3339),
		RunID:                     g.runID,
	}
}

// crossed reports whether advancing from prev to cur passed a multiple
// of every.
func crossed(prev, cur, every int64) bool {
	return prev/every < cur/every
}
