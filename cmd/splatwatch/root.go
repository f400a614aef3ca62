package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "splatwatch",
	Short: "Training progress monitor toolkit",
	Long:  "splatwatch observes a Gaussian-splat training run through its JSON status file and can simulate a run for demos and testing.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(simulateCmd)
}
