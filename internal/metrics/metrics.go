// Package metrics exposes simulation counters and per-process timing
// distributions as Prometheus metrics.
//
// Counters follow engine events (arrivals, dispatches, preemptions, rotations,
// completions, busy and idle ticks). Histograms are filled from the finished
// ledger once a run ends. Everything is registered on a caller-supplied
// registry so several simulations can coexist in one process.
package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"mlfqsim/internal/sched"
)

// tickBuckets covers short and long simulated waits.
var tickBuckets = []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

// Collector implements sched.Observer.
type Collector struct {
	arrivals    prometheus.Counter
	dispatches  *prometheus.CounterVec
	preemptions *prometheus.CounterVec
	rotations   *prometheus.CounterVec
	completions *prometheus.CounterVec
	busyTicks   prometheus.Counter
	idleTicks   prometheus.Counter

	waiting    prometheus.Histogram
	turnaround prometheus.Histogram
	response   prometheus.Histogram
	clock      prometheus.Gauge
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		arrivals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_arrivals_total",
			Help: "Processes admitted to a level",
		}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_dispatches_total",
			Help: "Processes given the CPU, by level",
		}, []string{"level"}),
		preemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_preemptions_total",
			Help: "Running processes taken off the CPU, by reason",
		}, []string{"reason"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_quantum_rotations_total",
			Help: "Round-Robin quantum expiries, by level",
		}, []string{"level"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_completions_total",
			Help: "Processes finished, by level",
		}, []string{"level"}),
		busyTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_busy_ticks_total",
			Help: "Simulated units spent executing a process",
		}),
		idleTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_idle_ticks_total",
			Help: "Simulated units with nothing ready",
		}),
		waiting: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mlfq_waiting_ticks",
			Help:    "Waiting time of finished processes",
			Buckets: tickBuckets,
		}),
		turnaround: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mlfq_turnaround_ticks",
			Help:    "Turnaround time of finished processes",
			Buckets: tickBuckets,
		}),
		response: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mlfq_response_ticks",
			Help:    "Response time of finished processes",
			Buckets: tickBuckets,
		}),
		clock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_clock_ticks",
			Help: "Simulated clock after the last event",
		}),
	}

	reg.MustRegister(
		c.arrivals, c.dispatches, c.preemptions, c.rotations, c.completions,
		c.busyTicks, c.idleTicks, c.waiting, c.turnaround, c.response, c.clock,
	)
	return c
}

func levelLabel(level int) string { return strconv.Itoa(level + 1) }

// Observe implements sched.Observer.
func (c *Collector) Observe(ev sched.Event) {
	switch ev.Kind {
	case sched.EventArrive:
		c.arrivals.Inc()
	case sched.EventDispatch:
		c.dispatches.WithLabelValues(levelLabel(ev.Level)).Inc()
	case sched.EventPreempt:
		c.preemptions.WithLabelValues("higher_level").Inc()
	case sched.EventSwap:
		c.preemptions.WithLabelValues("shorter_job").Inc()
	case sched.EventRotate:
		c.rotations.WithLabelValues(levelLabel(ev.Level)).Inc()
	case sched.EventFinish:
		c.completions.WithLabelValues(levelLabel(ev.Level)).Inc()
	case sched.EventExecute:
		c.busyTicks.Inc()
		c.clock.Set(float64(ev.Clock + 1))
		return
	case sched.EventIdle:
		c.idleTicks.Inc()
		c.clock.Set(float64(ev.Clock + 1))
		return
	}
	c.clock.Set(float64(ev.Clock))
}

// RecordFinished observes the timing metrics of every finished process.
func (c *Collector) RecordFinished(finished []sched.Process) {
	for _, p := range finished {
		c.waiting.Observe(float64(p.WaitingTime))
		c.turnaround.Observe(float64(p.TurnaroundTime))
		c.response.Observe(float64(p.ResponseTime))
	}
}

// WriteText gathers g and writes it in the Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
