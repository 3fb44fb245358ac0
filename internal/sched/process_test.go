package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcess_RemainingEqualsBurst(t *testing.T) {
	p := NewProcess("P1", 7, 3, 2, 5)

	assert.Equal(t, 7, p.RemainingTime)
	assert.False(t, p.HasStarted)
	assert.False(t, p.Completed())
	assert.Equal(t, 5, p.Priority)
}

func TestProcess_Start_StampsResponseOnce(t *testing.T) {
	p := NewProcess("P1", 4, 2, 1, 0)

	p.Start(5)
	p.Start(9)

	assert.True(t, p.HasStarted)
	assert.Equal(t, 3, p.ResponseTime, "second Start must not move the response time")
}

func TestProcess_Complete_DerivesMetrics(t *testing.T) {
	p := NewProcess("P1", 4, 2, 1, 0)

	require.NoError(t, p.Complete(10))

	assert.Equal(t, 10, p.CompletionTime)
	assert.Equal(t, 8, p.TurnaroundTime)
	assert.Equal(t, 4, p.WaitingTime)
}

func TestProcess_Complete_Twice_Fails(t *testing.T) {
	p := NewProcess("P1", 4, 0, 1, 0)
	require.NoError(t, p.Complete(4))

	err := p.Complete(9)

	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, 4, p.CompletionTime, "metrics stay fixed after the first completion")
}

func TestProcess_Validate(t *testing.T) {
	tests := []struct {
		name string
		p    Process
		want error
	}{
		{"ok", NewProcess("P1", 1, 0, 1, 0), nil},
		{"empty label", NewProcess("", 1, 0, 1, 0), ErrEmptyLabel},
		{"zero burst", NewProcess("P1", 0, 0, 1, 0), ErrInvalidBurst},
		{"negative burst", NewProcess("P1", -2, 0, 1, 0), ErrInvalidBurst},
		{"negative arrival", NewProcess("P1", 3, -1, 1, 0), ErrInvalidArrival},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
