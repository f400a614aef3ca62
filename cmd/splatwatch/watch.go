package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"splatwatch/internal/dashboard"
	"splatwatch/internal/monitor"
)

var (
	watchInterval  float64
	watchDashboard bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <status-file>",
	Short: "Monitor a training run through its status file",
	Long:  "watch polls the JSON status file a training run writes and prints one progress line per iteration change, until the run completes or fails.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := time.Duration(watchInterval * float64(time.Second))

		if watchDashboard {
			return dashboard.Run(args[0], interval)
		}

		m, err := monitor.New(args[0], interval)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return m.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().Float64Var(&watchInterval, "interval", 1.0, "Poll interval in seconds")
	watchCmd.Flags().BoolVar(&watchDashboard, "dashboard", false, "Render a terminal dashboard instead of plain lines")
}
