package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"highway-tolls/internal/highway"
	"highway-tolls/internal/tollclient"
)

func (a *app) replayCommand(ctx context.Context) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "drive a scenario file against a running toll service",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sc, err := a.loadScenario(args[0], false, 0)
			if err != nil {
				return err
			}
			c := tollclient.New(a.cfg.Client.BaseURL, a.cfg.Client.Timeout, a.logger)
			every := a.cfg.Simulation.ReportEvery
			st, err := c.Replay(ctx, sc, func(tick int, st highway.Stats) {
				if every > 0 && tick%every == 0 {
					printStats(a, fmt.Sprintf("After time %d", tick), st)
				}
			})
			if err != nil {
				return errors.Wrap(err, "replay")
			}
			printStats(a, "Highway after finishing the simulation", st)
			if keep {
				a.logger.WithField("highway", c.HighwayID).Info("highway kept on the service")
				return nil
			}
			return c.Delete(ctx)
		},
	}
	cmd.Flags().StringVar(&a.cfg.Client.BaseURL, "url", a.cfg.Client.BaseURL, "base URL of the toll service")
	cmd.Flags().DurationVar(&a.cfg.Client.Timeout, "timeout", a.cfg.Client.Timeout, "timeout of each request")
	cmd.Flags().IntVar(&a.cfg.Simulation.ReportEvery, "report-every", a.cfg.Simulation.ReportEvery, "ticks between intermediate reports, 0 disables them")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave the highway on the service after the replay")
	return cmd
}

func printStats(a *app, title string, st highway.Stats) {
	fmt.Fprintf(a.out, "---------- %s\n", title)
	fmt.Fprintf(a.out, "Elapsed time %d\n", st.ElapsedTime)
	fmt.Fprintf(a.out, "Queues %d, active %d\n", st.Queues, st.ActiveQueues)
	fmt.Fprintf(a.out, "Vehicles in queues %d\n", st.Vehicles)
	fmt.Fprintf(a.out, "Total waiting time %d\n", st.TotalWaitTime)
	fmt.Fprintf(a.out, "Number of vehicles processed %d\n", st.VehiclesProcessed)
	fmt.Fprintf(a.out, "Total tolls collected %.2f\n", st.TotalTolls)
	if st.AverageWaitingTime != nil {
		fmt.Fprintf(a.out, "Average waiting time in queue %.2f\n", *st.AverageWaitingTime)
	}
	fmt.Fprintln(a.out, "----------")
}
