package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const dirPerm = 0o755

func (a *app) watchCommand(ctx context.Context) *cobra.Command {
	var w watcher
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "simulate every scenario file dropped into a directory",
		Long: "Polls a directory and runs each scenario file once its size has stopped\n" +
			"changing. The report of <name> is written to <out>/<name>.report.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			w.app = a
			w.dir = args[0]
			if w.outDir == "" {
				w.outDir = filepath.Join(w.dir, "reports")
			}
			if err := os.MkdirAll(w.outDir, dirPerm); err != nil {
				return errors.Wrap(err, "create report dir")
			}
			a.logger.WithField("dir", w.dir).WithField("out", w.outDir).Info("watching for scenarios")
			if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&w.outDir, "out", "", "report directory (default <dir>/reports)")
	cmd.Flags().DurationVar(&w.interval, "interval", time.Second, "poll interval")
	cmd.Flags().IntVar(&a.cfg.Simulation.ReportEvery, "report-every", a.cfg.Simulation.ReportEvery, "ticks between intermediate reports, 0 disables them")
	return cmd
}

type fileState struct {
	size       int64
	stableCnt  int
	processing bool
	processed  bool
}

type watcher struct {
	app      *app
	dir      string
	outDir   string
	interval time.Duration

	mu     sync.Mutex
	wg     sync.WaitGroup
	states map[string]*fileState
}

func (w *watcher) run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *watcher) poll(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.app.logger.WithError(err).Warn("watch: read dir")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		w.observe(ctx, filepath.Join(w.dir, entry.Name()), info.Size())
	}
}

// observe starts a simulation once a file has kept the same size across two
// polls.
func (w *watcher) observe(ctx context.Context, path string, size int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.states == nil {
		w.states = make(map[string]*fileState)
	}
	st := w.states[path]
	if st == nil {
		w.states[path] = &fileState{size: size}
		return
	}
	if st.processed || st.processing {
		return
	}
	if size == st.size {
		st.stableCnt++
	} else {
		st.size = size
		st.stableCnt = 0
	}
	if st.stableCnt < 1 {
		return
	}
	st.processing = true
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.process(ctx, path)
		w.mu.Lock()
		st.processing = false
		st.processed = true
		w.mu.Unlock()
	}()
}

func (w *watcher) process(ctx context.Context, path string) {
	logger := w.app.logger.WithField("file", path)
	out := reportPath(w.outDir, path)
	sc, err := w.app.loadScenario(path, false, 0)
	if err != nil {
		logger.WithError(err).Error("watch: skipping scenario")
		return
	}
	f, err := os.Create(out)
	if err != nil {
		logger.WithError(err).Error("watch: create report")
		return
	}
	defer f.Close()
	if err := w.app.simulate(ctx, sc, f); err != nil {
		logger.WithError(err).Error("watch: simulation failed")
		return
	}
	logger.WithField("report", out).Info("watch: report written")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func reportPath(outDir, path string) string {
	return filepath.Join(outDir, filepath.Base(path)+".report")
}
