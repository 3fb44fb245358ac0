package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlfqsim/internal/sched"
)

func runRecorded(t *testing.T, levels []sched.LevelSpec, procs ...sched.Process) *Recorder {
	t.Helper()
	policies, err := sched.Scheme{Levels: levels}.Build()
	require.NoError(t, err)
	rec := NewRecorder()
	e, err := sched.New(policies, sched.WithObserver(rec))
	require.NoError(t, err)
	for _, p := range procs {
		require.NoError(t, e.AdmitNew(p))
	}
	e.Run()
	return rec
}

func TestRecorder_Slices_RoundRobin(t *testing.T) {
	rec := runRecorded(t, []sched.LevelSpec{{Policy: "rr", Quantum: 2}},
		sched.NewProcess("P1", 4, 0, 1, 0),
		sched.NewProcess("P2", 4, 0, 1, 0),
	)

	assert.Equal(t, []Slice{
		{Label: "P1", Start: 0, Stop: 2},
		{Label: "P2", Start: 2, Stop: 4},
		{Label: "P1", Start: 4, Stop: 6},
		{Label: "P2", Start: 6, Stop: 8},
	}, rec.Slices())
}

func TestRecorder_Slices_IdleGap(t *testing.T) {
	rec := runRecorded(t, []sched.LevelSpec{{Policy: "rr", Quantum: 4}},
		sched.NewProcess("A", 2, 0, 1, 0),
		sched.NewProcess("B", 1, 5, 1, 0),
	)

	slices := rec.Slices()
	require.Len(t, slices, 3)
	assert.Equal(t, Slice{Label: "", Start: 2, Stop: 5}, slices[1])
	assert.Equal(t, 3, slices[1].Len())
}

func TestRecorder_Slices_SingleLongRun(t *testing.T) {
	// P1 keeps the CPU across a quantum rotation with nobody else ready
	rec := runRecorded(t, []sched.LevelSpec{{Policy: "rr", Quantum: 2}}, sched.NewProcess("P1", 5, 0, 1, 0))

	assert.Equal(t, []Slice{{Label: "P1", Start: 0, Stop: 5}}, rec.Slices())
}

func TestRecorder_WriteCSV(t *testing.T) {
	rec := runRecorded(t, []sched.LevelSpec{{Policy: "rr", Quantum: 1}}, sched.NewProcess("P1", 1, 0, 1, 0))

	var buf bytes.Buffer
	require.NoError(t, rec.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"tick,event,label,level,remaining",
		"0,Arrive,P1,1,1",
		"0,Dispatch,P1,1,1",
		"0,Execute,P1,1,0",
		"1,Finish,P1,1,0",
	}, lines)
}

func TestRecorder_Events_IsCopy(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(sched.Event{Kind: sched.EventIdle})

	evs := rec.Events()
	evs[0].Clock = 9

	assert.Equal(t, 0, rec.Events()[0].Clock)
}
