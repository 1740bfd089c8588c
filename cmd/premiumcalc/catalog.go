package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/premiumcalc/pkg/catalog"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models and their premium request multipliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printModels(cmd.OutOrStdout())
		},
	}
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List subscription plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlans(cmd.OutOrStdout())
		},
	}
}

func printModels(out io.Writer) error {
	all := catalog.Models()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMULTIPLIER\tDESCRIPTION")
	for _, id := range catalog.ModelIDs() {
		m := all[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, m.Name, formatNumber(m.Multiplier), m.Description)
	}
	return w.Flush()
}

func printPlans(out io.Writer) error {
	all := catalog.Plans()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tINCLUDED\tDESCRIPTION")
	for _, id := range catalog.PlanIDs() {
		p := all[id]
		fmt.Fprintf(w, "%s\t%s\t$%s\t%d\t%s\n", id, p.Name, formatNumber(p.Price), p.IncludedRequests, p.Description)
	}
	return w.Flush()
}
