package simulation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/engine"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/montecarlo"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(seed int64) *Request {
	start := calendar.MustParse("2025-01-01")
	retire := start.PlusYears(5)
	return &Request{
		Template: montecarlo.Template{
			Spec: &model.Specification{
				Return:    model.Normal(6, 12),
				Tax:       model.TaxRule{Kind: model.NotionalGains, Percentage: 42},
				Inflation: model.InflationModel{Factor: 1.02},
				Fee:       &model.YearlyFee{Percentage: 0.5},
			},
			Phases: []phase.Phase{
				phase.NewDeposit("deposit", start, start.DaysUntil(retire), 20000, 2000, 2),
				phase.NewWithdraw("withdraw", retire, retire.DaysUntil(retire.PlusYears(10)), 3000),
			},
			Seed:    seed,
			Options: engine.Options{YearlySnapshots: true},
		},
		Runs:        40,
		Workers:     4,
		Fingerprint: "abc",
	}
}

func TestSimulator_RunAggregates(t *testing.T) {
	res, err := NewSimulator(nil).Run(context.Background(), request(42))
	require.NoError(t, err)

	assert.Len(t, res.Runs, 40)
	assert.NotEmpty(t, res.Summaries)
	assert.False(t, res.Cached)
	assert.Equal(t, int64(42), res.Seed)
	assert.GreaterOrEqual(t, res.SuccessRate, 0.0)
	assert.LessOrEqual(t, res.SuccessRate, 100.0)
	assert.Equal(t, 2025, res.Summaries[0].Year)
}

func TestSimulator_CachesReproducibleRequests(t *testing.T) {
	sim := NewSimulator(nil)
	first, err := sim.Run(context.Background(), request(42))
	require.NoError(t, err)
	second, err := sim.Run(context.Background(), request(42))
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, first.Cached)

	other, err := sim.Run(context.Background(), request(43))
	require.NoError(t, err)
	assert.False(t, other.Cached)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestSimulator_CachedResultIsIsolated(t *testing.T) {
	sim := NewSimulator(nil)
	first, err := sim.Run(context.Background(), request(42))
	require.NoError(t, err)
	avg := first.Summaries[0].AverageCapital
	capital := first.Runs[0].Snapshots[0].State.Capital

	first.Summaries[0].AverageCapital = -1
	first.Runs[0].Snapshots[0].State.Capital = -1

	second, err := sim.Run(context.Background(), request(42))
	require.NoError(t, err)
	require.True(t, second.Cached)
	assert.Equal(t, avg, second.Summaries[0].AverageCapital)
	assert.Equal(t, capital, second.Runs[0].Snapshots[0].State.Capital)

	second.Summaries[0].AverageCapital = -2
	second.Runs[0].Snapshots[0].State.Capital = -2
	third, err := sim.Run(context.Background(), request(42))
	require.NoError(t, err)
	assert.Equal(t, avg, third.Summaries[0].AverageCapital)
	assert.Equal(t, capital, third.Runs[0].Snapshots[0].State.Capital)
}

func TestSimulator_NegativeSeedIsNeverCached(t *testing.T) {
	sim := NewSimulator(nil)
	a, err := sim.Run(context.Background(), request(-1))
	require.NoError(t, err)
	b, err := sim.Run(context.Background(), request(-1))
	require.NoError(t, err)
	assert.False(t, b.Cached)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = sim.Replay(context.Background(), request(-1), a.Runs)
	assert.True(t, errors.Is(err, ErrNotReproducible))
}

func TestSimulator_Replay(t *testing.T) {
	sim := NewSimulator(nil)
	res, err := sim.Run(context.Background(), request(7))
	require.NoError(t, err)

	div, err := sim.Replay(context.Background(), request(7), res.Runs)
	require.NoError(t, err)
	assert.Nil(t, div)

	tampered := make([]domain.RunResult, len(res.Runs))
	copy(tampered, res.Runs)
	snaps := append([]domain.Snapshot(nil), tampered[3].Snapshots...)
	snaps[2].State.Capital += 1
	tampered[3].Snapshots = snaps

	div, err = sim.Replay(context.Background(), request(7), tampered)
	require.NoError(t, err)
	require.NotNil(t, div)
	assert.Equal(t, 3, div.Run)
	assert.Equal(t, 2, div.Snapshot)
	assert.Contains(t, div.String(), "capital")
}

func TestCompare_NaNStatesMatch(t *testing.T) {
	state := *domain.NewLiveState(calendar.MustParse("2025-01-01"))
	state.Capital = math.NaN()
	state.Returned = math.Inf(-1)
	runs := func(s domain.LiveState) []domain.RunResult {
		return []domain.RunResult{{Seed: 1, Snapshots: []domain.Snapshot{{PhaseName: "save", Event: "PHASE_END", State: s}}}}
	}

	assert.Nil(t, Compare(runs(state), runs(state.Clone())))

	other := state.Clone()
	other.Capital = math.Float64frombits(math.Float64bits(math.NaN()) + 1)
	div := Compare(runs(state), runs(other))
	require.NotNil(t, div)
	assert.Equal(t, 0, div.Snapshot)

	other = state.Clone()
	other.Capital = 100
	assert.NotNil(t, Compare(runs(state), runs(other)))

	other = state.Clone()
	other.CurrentFee = 0.5
	assert.NotNil(t, Compare(runs(state), runs(other)))
}

func TestCompare_LengthMismatch(t *testing.T) {
	div := Compare(make([]domain.RunResult, 2), make([]domain.RunResult, 3))
	require.NotNil(t, div)
	assert.Equal(t, -1, div.Snapshot)

	div = Compare(
		[]domain.RunResult{{Seed: 1}},
		[]domain.RunResult{{Seed: 2}},
	)
	require.NotNil(t, div)
	assert.Contains(t, div.Reason, "seed")
	assert.Nil(t, Compare(nil, nil))
}

func TestSimulator_FailurePropagates(t *testing.T) {
	req := request(1)
	req.Template.UseEventEngine = true
	req.Template.Phases = append(req.Template.Phases, phase.NewPassive("broken", calendar.MustParse("2040-01-01"), -5))
	_, err := NewSimulator(nil).Run(context.Background(), req)

	var runErr *montecarlo.RunError
	assert.True(t, errors.As(err, &runErr))
}
