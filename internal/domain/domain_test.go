package domain

import (
	"encoding/json"
	"testing"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveState_DateAndSession(t *testing.T) {
	s := NewLiveState(calendar.MustParse("2025-01-01"))
	assert.Equal(t, InitialInflationIndex, s.Inflation)

	s.Advance(31)
	s.Capital = 500
	s.CurrentReturn = 5
	s.CurrentWithdraw = 10
	assert.Equal(t, "2025-02-01", s.Date().String())

	s.ResetSession()
	assert.Equal(t, 0, s.SessionDuration)
	assert.Equal(t, 31, s.TotalDurationAlive)
	assert.Equal(t, 0.0, s.CurrentReturn)
	assert.Equal(t, 0.0, s.CurrentWithdraw)
	assert.Equal(t, 500.0, s.Capital)
}

func TestLiveState_CloneIsIndependent(t *testing.T) {
	s := NewLiveState(calendar.MustParse("2025-01-01"))
	s.Capital = 100
	c := s.Clone()
	s.Capital = 200
	assert.Equal(t, 100.0, c.Capital)
}

func TestSnapshot_Year(t *testing.T) {
	s := NewLiveState(calendar.MustParse("2025-12-31"))
	s.Advance(1)
	snap := Snapshot{State: s.Clone()}
	assert.Equal(t, 2026, snap.Year())
}

func TestPhaseKind_Text(t *testing.T) {
	for _, k := range []PhaseKind{Deposit, Withdraw, Passive} {
		parsed, err := ParsePhaseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParsePhaseKind("borrow")
	assert.Error(t, err)

	data, err := json.Marshal(Snapshot{PhaseKind: Withdraw})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phaseKind":"withdraw"`)
	assert.Contains(t, string(data), `"startTime":"1970-01-01"`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Withdraw, back.PhaseKind)
}

func TestRunResult_Final(t *testing.T) {
	_, ok := RunResult{}.Final()
	assert.False(t, ok)

	r := RunResult{Snapshots: []Snapshot{{Event: "a"}, {Event: "b"}}}
	last, ok := r.Final()
	require.True(t, ok)
	assert.Equal(t, "b", last.Event)
}
