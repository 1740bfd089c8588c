package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "premiumcalc",
		Short:         "Premium request usage and overage cost estimator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCalculateCmd(),
		newModelsCmd(),
		newPlansCmd(),
		newHistoryCmd(),
		newMCPCmd(),
	)
	return root
}
