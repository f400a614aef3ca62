package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"splatwatch/internal/config"
	"splatwatch/internal/logging"
	"splatwatch/internal/sim"
)

var (
	simOut        string
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simSeed       int64
	simChaos      bool
	simChaosRate  float64
	simEcho       bool
	simInPlace    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Write a synthetic training status file",
	Long:  "simulate plays a scenario through a synthetic training run, overwriting the status file every tick the way a real trainer would.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simOut == "" {
			return fmt.Errorf("output file required")
		}
		sc, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		var writer sim.StatusWriter
		fw := sim.NewFileWriter(simOut, !simInPlace)
		writer = fw
		if simEcho {
			writer = sim.NewMultiWriter(fw, &sim.StdoutWriter{})
		}

		chaosRate := 0.0
		if simChaos {
			chaosRate = simChaosRate
		}

		gen := sim.NewGenerator(sc, time.Now(), simSeed)
		runner := sim.NewRunner(gen, writer, simTick, chaosRate)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logging.New())
		return runner.Run(ctx)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simOut, "out", "", "Path of the status file to write")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/scenario.yaml", "Path to scenario configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/scenario.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 200*time.Millisecond, "Write interval (e.g. 200ms, 1s)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 derives one from the clock)")
	simulateCmd.Flags().BoolVar(&simChaos, "chaos", false, "Occasionally tear a write to exercise monitor recovery")
	simulateCmd.Flags().Float64Var(&simChaosRate, "chaos-rate", 0.15, "Per-tick probability of a torn write when --chaos is set")
	simulateCmd.Flags().BoolVar(&simEcho, "echo", false, "Also print each status document to STDOUT")
	simulateCmd.Flags().BoolVar(&simInPlace, "in-place", false, "Overwrite the file directly instead of atomic rename")
	simulateCmd.MarkFlagRequired("out")
}
