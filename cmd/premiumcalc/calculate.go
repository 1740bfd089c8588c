package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pario-ai/premiumcalc/pkg/budget"
	"github.com/pario-ai/premiumcalc/pkg/models"
	"github.com/pario-ai/premiumcalc/pkg/pricing"
)

func newCalculateCmd() *cobra.Command {
	var (
		configPath string
		plan       string
		model      string
		requests   float64
		developers int
		limit      float64
		asJSON     bool
		record     bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate premium requests and overage cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.CalculationInput{Subscription: plan, Model: model}
			flags := cmd.Flags()
			if flags.Changed("requests") {
				in.Requests = &requests
			}
			if flags.Changed("developers") {
				in.Developers = &developers
			}
			if flags.Changed("budget") {
				in.Budget = &limit
			}

			est, err := estimate(in)
			if err != nil {
				return err
			}

			if record {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				cfg.History.Enabled = true
				store, closeHistory, err := openHistory(cfg)
				if err != nil {
					return err
				}
				defer closeHistory()
				if _, err := store.Log(context.Background(), models.NewHistoryRecord(est, models.SourceCLI)); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(est)
			}
			return printEstimate(out, est)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (used with --record)")
	cmd.Flags().StringVar(&plan, "plan", "", "subscription plan id (business, enterprise)")
	cmd.Flags().StringVar(&model, "model", "", "model id (see `premiumcalc models`)")
	cmd.Flags().Float64Var(&requests, "requests", 0, "monthly requests per developer")
	cmd.Flags().IntVar(&developers, "developers", 0, "number of developers")
	cmd.Flags().Float64Var(&limit, "budget", 0, "monthly overage budget in USD (0 means unlimited)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the estimate as JSON")
	cmd.Flags().BoolVar(&record, "record", false, "append the estimate to the history database")
	return cmd
}

// estimate runs the calculator and reduces validation failures to their
// client-facing message.
func estimate(in models.CalculationInput) (models.Estimate, error) {
	est, err := pricing.Estimate(in)
	if err == nil {
		return est, nil
	}
	var perr *pricing.Error
	if pricing.KindOf(err).Validation() && errors.As(err, &perr) {
		return models.Estimate{}, errors.New(perr.Message)
	}
	return models.Estimate{}, fmt.Errorf("calculate: %w", err)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printEstimate(out io.Writer, e models.Estimate) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PLAN\t%s\t%s\n", e.PlanDetails.Name, e.PlanDetails.Description)
	fmt.Fprintf(w, "MODEL\t%s\t%s\n", e.ModelDetails.Name, e.ModelDetails.Description)
	fmt.Fprintf(w, "DEVELOPERS\t%d\t\n", e.Calculation.Developers)
	fmt.Fprintf(w, "REQUESTS PER DEVELOPER\t%s\t\n", formatNumber(e.Input.Requests))
	fmt.Fprintf(w, "PREMIUM REQUESTS\t%s\t\n", formatNumber(e.Calculation.TotalPremiumRequests))
	fmt.Fprintf(w, "INCLUDED\t%d\t\n", e.Calculation.IncludedRequests)
	fmt.Fprintf(w, "ADDITIONAL\t%s\t\n", formatNumber(e.Calculation.AdditionalRequests))
	fmt.Fprintf(w, "ADDITIONAL COST\t%s\t\n", costStyle.Render(fmt.Sprintf("$%.2f", e.Calculation.AdditionalCost)))
	if e.Input.Budget > 0 {
		limit := e.Input.Budget
		fmt.Fprintf(w, "BUDGET\t$%.2f\t%s, $%.2f remaining\n", limit,
			renderStatus(e.Calculation.BudgetStatus), budget.Headroom(e.Calculation.AdditionalCost, &limit))
	} else {
		fmt.Fprintf(w, "BUDGET\t%s\t\n", renderStatus(e.Calculation.BudgetStatus))
	}
	return w.Flush()
}
