package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/premiumcalc/pkg/history"
	"github.com/pario-ai/premiumcalc/pkg/models"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query and manage recorded estimates",
	}

	cmd.AddCommand(
		newHistorySearchCmd(),
		newHistoryStatsCmd(),
		newHistoryCleanupCmd(),
	)
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	var (
		configPath   string
		model        string
		subscription string
		status       string
		since        string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search recorded estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openHistoryStore(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := models.HistoryQueryOpts{
				Model:        model,
				Subscription: subscription,
				BudgetStatus: models.BudgetStatus(status),
				Limit:        limit,
			}
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
				}
				opts.Since = t
			}

			records, err := store.Query(context.Background(), opts)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), formatHistoryRecords(records))
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&model, "model", "", "filter by model")
	cmd.Flags().StringVar(&subscription, "plan", "", "filter by subscription plan")
	cmd.Flags().StringVar(&status, "status", "", "filter by budget status (unlimited, within-budget, over-budget)")
	cmd.Flags().StringVar(&since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max records to return")
	return cmd
}

func newHistoryStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show estimate counts and overage cost by model and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openHistoryStore(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := store.Stats(context.Background())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), formatHistoryStats(stats))
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func newHistoryCleanupCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete estimates older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openHistoryStore(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := store.Cleanup(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d recorded estimates.\n", deleted)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

// openHistoryStore opens the configured history database regardless of
// history.enabled, which only controls recording by the server.
func openHistoryStore(configPath string) (*history.Store, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.History.Enabled = true
	return openHistory(cfg)
}

func formatHistoryRecords(records []models.HistoryRecord) string {
	if len(records) == 0 {
		return "No recorded estimates found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-10s %-26s %5s %10s %10s %-13s %-4s\n",
		"TIME", "PLAN", "MODEL", "DEVS", "PREMIUM", "COST", "BUDGET", "VIA")
	b.WriteString(strings.Repeat("-", 106) + "\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%-20s %-10s %-26s %5d %10s %10s %-13s %-4s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Subscription, r.Model, r.Developers,
			formatNumber(r.TotalPremiumRequests), fmt.Sprintf("$%.2f", r.AdditionalCost),
			r.BudgetStatus, r.Source)
	}
	return b.String()
}

func formatHistoryStats(stats []models.HistoryStat) string {
	if len(stats) == 0 {
		return "No recorded estimates found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-26s %-12s %8s %12s\n", "MODEL", "DAY", "COUNT", "TOTAL COST")
	b.WriteString(strings.Repeat("-", 61) + "\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "%-26s %-12s %8d %12s\n", s.Model, s.Day, s.Count, fmt.Sprintf("$%.2f", s.TotalCost))
	}
	return b.String()
}
