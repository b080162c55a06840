package simulation

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"highway-tolls/internal/highway"
)

// Reporter receives the highway at the report interval and once at the end of
// a run.
type Reporter interface {
	Report(tick int, h *highway.Highway, final bool)
}

type ReporterFunc func(tick int, h *highway.Highway, final bool)

func (f ReporterFunc) Report(tick int, h *highway.Highway, final bool) { f(tick, h, final) }

type Result struct {
	Ticks    int
	Admitted int
	Stats    highway.Stats
}

// Runner feeds a Scenario into a Highway one tick at a time.
type Runner struct {
	Highway     *highway.Highway
	Reporter    Reporter
	ReportEvery int
}

func NewRunner(h *highway.Highway, r Reporter, reportEvery int) *Runner {
	return &Runner{Highway: h, Reporter: r, ReportEvery: reportEvery}
}

// Run executes ticks 1..ticks. Arrivals are admitted on their tick; arrivals
// scheduled after the last tick are dropped. A queue contract violation aborts
// the run.
func (r *Runner) Run(ctx context.Context, arrivals []Arrival, ticks int) (Result, error) {
	next, admitted := 0, 0
	for clock := 1; clock <= ticks; clock++ {
		if err := ctx.Err(); err != nil {
			return r.result(clock-1, admitted), err
		}
		for next < len(arrivals) && arrivals[next].Tick <= clock {
			a := arrivals[next]
			next++
			if a.Tick < clock {
				continue
			}
			v, err := a.Vehicle()
			if err != nil {
				return r.result(clock-1, admitted), errors.Wrapf(err, "tick %d", clock)
			}
			if err := r.Highway.AddVehicle(v); err != nil {
				return r.result(clock-1, admitted), errors.Wrapf(err, "tick %d: add vehicle", clock)
			}
			admitted++
		}
		if err := r.Highway.UpdateActiveQueues(); err != nil {
			return r.result(clock, admitted), errors.Wrapf(err, "tick %d: update active queues", clock)
		}
		if err := r.Highway.UpdateNumberActiveQueues(); err != nil {
			return r.result(clock, admitted), errors.Wrapf(err, "tick %d: update number of active queues", clock)
		}
		if r.Reporter != nil && r.ReportEvery > 0 && clock%r.ReportEvery == 0 {
			r.Reporter.Report(clock, r.Highway, false)
		}
	}
	if r.Reporter != nil {
		r.Reporter.Report(ticks, r.Highway, true)
	}
	return r.result(ticks, admitted), nil
}

// RunScenario builds a highway for sc and runs it to completion.
func RunScenario(ctx context.Context, sc *Scenario, rep Reporter, reportEvery int) (Result, error) {
	h, err := highway.New(sc.MinActiveQueues, sc.MaxVehiclesPerQueue)
	if err != nil {
		return Result{}, err
	}
	if rep != nil {
		rep.Report(0, h, false)
	}
	return NewRunner(h, rep, reportEvery).Run(ctx, sc.Arrivals, sc.Ticks)
}

func (r *Runner) result(ticks, admitted int) Result {
	return Result{Ticks: ticks, Admitted: admitted, Stats: r.Highway.Stats()}
}

// LogReporter writes the highway text report through a logrus logger.
type LogReporter struct {
	Logger *logrus.Logger
}

func (l LogReporter) Report(tick int, h *highway.Highway, final bool) {
	entry := l.Logger.WithFields(logrus.Fields{
		"tick":         tick,
		"vehicles":     h.TotalNrVehicles(),
		"activeQueues": h.NrActiveQueues(),
	})
	switch {
	case final:
		avg, ok := h.AverageWaitingTime()
		waiting := "n/a"
		if ok {
			waiting = fmt.Sprintf("%.2f", avg)
		}
		entry.Infof("highway after finishing the simulation\n%sAverage waiting time in queue %s", h, waiting)
	case tick == 0:
		entry.Infof("highway before starting the simulation\n%s", h)
	default:
		entry.Infof("after time %d\n%sAverage number of vehicles per queue %.2f", tick, h, h.AverageVehiclesPerQueue())
	}
}

// WriterReporter prints the plain text report, framed by dashed lines.
type WriterReporter struct {
	W io.Writer
}

func (w WriterReporter) Report(tick int, h *highway.Highway, final bool) {
	switch {
	case final:
		fmt.Fprintf(w.W, "\n---------- Highway after finishing the simulation\n%s", h)
		if avg, ok := h.AverageWaitingTime(); ok {
			fmt.Fprintf(w.W, "Average waiting time in queue %.2f\n", avg)
		} else {
			fmt.Fprintln(w.W, "Average waiting time in queue n/a")
		}
	case tick == 0:
		fmt.Fprintf(w.W, "---------- Highway before starting the simulation\n%s", h)
	default:
		fmt.Fprintf(w.W, "\n---------- After time %d\n%s", tick, h)
		fmt.Fprintf(w.W, "Average number of vehicles per queue %.2f\n", h.AverageVehiclesPerQueue())
	}
	fmt.Fprintln(w.W, "----------")
}
