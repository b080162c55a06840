package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"highway-tolls/internal/simulation"
)

func (a *app) simulateCommand(ctx context.Context) *cobra.Command {
	var (
		arrivalsOnly bool
		ticks        int
	)
	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "run a scenario file and print the highway reports",
		Long: "Runs a scenario file (\"min max\", tick count, then arrival triples) locally.\n" +
			"With --arrivals-only the file holds only the triples and the highway\n" +
			"parameters come from the global flags.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sc, err := a.loadScenario(args[0], arrivalsOnly, ticks)
			if err != nil {
				return err
			}
			return a.simulate(ctx, sc, a.out)
		},
	}
	cmd.Flags().BoolVar(&arrivalsOnly, "arrivals-only", false, "file contains only arrival triples")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to run with --arrivals-only; defaults to the last arrival tick")
	cmd.Flags().IntVar(&a.cfg.Simulation.ReportEvery, "report-every", a.cfg.Simulation.ReportEvery, "ticks between intermediate reports, 0 disables them")
	return cmd
}

func (a *app) loadScenario(path string, arrivalsOnly bool, ticks int) (*simulation.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scenario")
	}
	defer f.Close()

	if !arrivalsOnly {
		sc, err := simulation.ReadScenario(f)
		return sc, errors.Wrapf(err, "read %s", path)
	}
	arrivals, err := simulation.ReadArrivals(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if ticks <= 0 && len(arrivals) > 0 {
		ticks = arrivals[len(arrivals)-1].Tick
	}
	return &simulation.Scenario{
		MinActiveQueues:     a.cfg.Highway.MinActiveQueues,
		MaxVehiclesPerQueue: a.cfg.Highway.MaxVehiclesPerQueue,
		Ticks:               ticks,
		Arrivals:            arrivals,
	}, nil
}

func (a *app) simulate(ctx context.Context, sc *simulation.Scenario, w io.Writer) error {
	res, err := simulation.RunScenario(ctx, sc, simulation.WriterReporter{W: w}, a.cfg.Simulation.ReportEvery)
	if err != nil {
		return errors.Wrap(err, "simulate")
	}
	fields := log.Fields{
		"ticks":     res.Ticks,
		"admitted":  res.Admitted,
		"processed": res.Stats.VehiclesProcessed,
		"queues":    res.Stats.Queues,
		"tolls":     res.Stats.TotalTolls,
	}
	if res.Stats.AverageWaitingTime != nil {
		fields["averageWait"] = *res.Stats.AverageWaitingTime
	}
	a.logger.WithFields(fields).Info("simulation finished")
	return nil
}
