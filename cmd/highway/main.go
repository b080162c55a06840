package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"highway-tolls/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Default()
	if err := cfg.LoadEnv(os.LookupEnv); err != nil {
		log.WithContext(ctx).Fatal(err)
	}

	if err := newRootCommand(ctx, cfg, os.Stdout).Execute(); err != nil {
		log.WithContext(ctx).Fatalf("failed to execute root command: \n%v", err)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
}

func newRootCommand(ctx context.Context, cfg *config.Config, out io.Writer) *cobra.Command {
	a := &app{cfg: cfg, out: out}
	env := string(cfg.AppEnv)
	level := cfg.LogLevel.String()

	root := &cobra.Command{
		Use:           "highway",
		Short:         "Toll highway lane simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg.AppEnv = config.AppEnv(env)
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return errors.Wrap(err, "log level")
			}
			cfg.LogLevel = lvl
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.logger = cfg.NewLogger()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&env, "app-env", env, "application environment (production, develop, local, test)")
	flags.StringVar(&level, "log-level", level, "log level")
	flags.IntVar(&cfg.Highway.MinActiveQueues, "min-active-queues", cfg.Highway.MinActiveQueues, "lanes that always stay open")
	flags.IntVar(&cfg.Highway.MaxVehiclesPerQueue, "max-vehicles-per-queue", cfg.Highway.MaxVehiclesPerQueue, "lane capacity before another lane is opened")

	root.AddCommand(
		a.simulateCommand(ctx),
		a.serveCommand(ctx),
		a.replayCommand(ctx),
		a.watchCommand(ctx),
	)
	return root
}
