package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlfqsim/internal/sched"
)

func simulate(t *testing.T, c *Collector, schemeID int, procs ...sched.Process) *sched.Engine {
	t.Helper()
	s, ok := sched.SchemeByID(schemeID)
	require.True(t, ok)
	levels, err := s.Build()
	require.NoError(t, err)
	e, err := sched.New(levels, sched.WithObserver(c))
	require.NoError(t, err)
	for _, p := range procs {
		require.NoError(t, e.AdmitNew(p))
	}
	e.Run()
	c.RecordFinished(e.Finished())
	return e
}

func TestNewCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	assert.NotNil(t, c.arrivals)
	assert.NotNil(t, c.dispatches)
	assert.NotNil(t, c.waiting)

	assert.Panics(t, func() { NewCollector(reg) }, "registering twice on one registry must fail")
}

func TestCollector_CountsEngineEvents(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	e := simulate(t, c, 2,
		sched.NewProcess("P1", 6, 0, 4, 0),
		sched.NewProcess("P2", 2, 3, 1, 0),
	)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.arrivals))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.preemptions.WithLabelValues("higher_level")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.completions.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.completions.WithLabelValues("4")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.dispatches.WithLabelValues("4")))
	assert.Equal(t, float64(e.Executed()), testutil.ToFloat64(c.busyTicks))
	assert.Equal(t, float64(e.Clock()), testutil.ToFloat64(c.clock))
}

func TestCollector_IdleAndRotations(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	simulate(t, c, 1, sched.NewProcess("P1", 3, 2, 1, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.idleTicks))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.rotations.WithLabelValues("1")), "quantum 1 rotates after units 1 and 2")
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	simulate(t, c, 3, sched.NewProcess("P1", 2, 0, 1, 0))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "mlfq_busy_ticks_total 2")
	assert.Contains(t, out, "mlfq_waiting_ticks_count 1")
	assert.Contains(t, out, "# TYPE mlfq_turnaround_ticks histogram")
}
