package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"highway-tolls/internal/metrics"
	"highway-tolls/internal/tollapi"
)

func (a *app) serveCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the toll highway HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			h, reg, err := a.newTollHandler()
			if err != nil {
				return err
			}
			return tollapi.Serve(ctx, tollapi.RegisterRoutes(h, reg), a.cfg.HTTP.Addr, a.logger)
		},
	}
	cmd.Flags().StringVar(&a.cfg.HTTP.Addr, "addr", a.cfg.HTTP.Addr, "address to listen on")
	return cmd
}

func (a *app) newTollHandler() (*tollapi.Handler, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector()
	if err := m.Register(reg); err != nil {
		return nil, nil, err
	}
	return tollapi.NewHandler(a.cfg.Highway, m, a.logger), reg, nil
}
