package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pario-ai/premiumcalc/pkg/api"
	"github.com/pario-ai/premiumcalc/pkg/metrics"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calculator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log)

			store, closeHistory, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer closeHistory()

			var (
				opts []api.Option
				m    *metrics.Metrics
			)
			if cfg.Metrics.Enabled {
				registry := prometheus.NewRegistry()
				registry.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				m = metrics.New(registry)
				opts = append(opts, api.WithMetrics(m))
			}
			if store != nil {
				opts = append(opts, api.WithHistory(store))
			}
			srv := api.New(cfg, logger, opts...)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Either listener failing cancels gctx and stops the other.
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := srv.ListenAndServe(gctx); err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})
			if m != nil && cfg.Metrics.Separate() {
				g.Go(func() error {
					if err := api.ListenAndServeMetrics(gctx, cfg, m, logger); err != nil {
						return fmt.Errorf("metrics server: %w", err)
					}
					return nil
				})
			}

			logger.WithFields(logrus.Fields{
				"config":         configPath,
				"history":        cfg.History.Enabled,
				"metrics":        cfg.Metrics.Enabled,
				"metrics_listen": cfg.Metrics.Listen,
				"origins":        cfg.CORS.Origins,
			}).Info("starting premiumcalc")
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}
