package statistics

import (
	"sort"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
)

// Percentile band used for both run-level and per-year outlier trimming.
const (
	LowerPercentile = 0.05
	UpperPercentile = 0.95
)

// observation is one run's effective capital at a snapshot.
type observation struct {
	capital float64
	failed  bool
}

// adjusted is a run after failure adjustment.
type adjusted struct {
	run     domain.RunResult
	effects []observation
	failed  bool
}

type groupKey struct {
	year  int
	phase string
}

// adjust applies monotonic failure: from the first non-deposit snapshot with
// capital <= 0 onwards the run counts as failed with zero capital.
func adjust(run domain.RunResult) adjusted {
	a := adjusted{run: run, effects: make([]observation, len(run.Snapshots))}
	for i, s := range run.Snapshots {
		if !a.failed && s.PhaseKind != domain.Deposit && s.State.Capital <= 0 {
			a.failed = true
		}
		if a.failed {
			a.effects[i] = observation{capital: 0, failed: true}
		} else {
			a.effects[i] = observation{capital: s.State.Capital}
		}
	}
	return a
}

func (a adjusted) final() float64 {
	if len(a.effects) == 0 {
		return 0
	}
	return a.effects[len(a.effects)-1].capital
}

// lastPerGroup returns the run's last observation in each (year, phase)
// group.
func (a adjusted) lastPerGroup() map[groupKey]observation {
	out := make(map[groupKey]observation)
	for i, s := range a.run.Snapshots {
		out[groupKey{year: s.Year(), phase: s.PhaseName}] = a.effects[i]
	}
	return out
}

// SuccessRate returns the share of runs that never fail, in percent.
func SuccessRate(results []domain.RunResult) float64 {
	if len(results) == 0 {
		return 0
	}
	ok := 0
	for _, r := range results {
		if !adjust(r).failed {
			ok++
		}
	}
	return float64(ok) / float64(len(results)) * 100
}

// Aggregate reduces runs to one summary per (year, phase), ordered by year
// and then by first appearance of the phase.
func Aggregate(results []domain.RunResult) []domain.YearlySummary {
	if len(results) == 0 {
		return nil
	}

	runs := make([]adjusted, len(results))
	finals := make([]float64, len(results))
	for i, r := range results {
		runs[i] = adjust(r)
		finals[i] = runs[i].final()
	}
	lo, hi := band(sortedCopy(finals), LowerPercentile, UpperPercentile)

	order := make(map[groupKey]int)
	failedCount := make(map[groupKey]int)
	totalCount := make(map[groupKey]int)
	values := make(map[groupKey][]float64)

	for i, a := range runs {
		for _, s := range a.run.Snapshots {
			key := groupKey{year: s.Year(), phase: s.PhaseName}
			if _, seen := order[key]; !seen {
				order[key] = len(order)
			}
		}
		kept := inBand(finals[i], lo, hi)
		for key, obs := range a.lastPerGroup() {
			totalCount[key]++
			if obs.failed {
				failedCount[key]++
			}
			if kept {
				values[key] = append(values[key], obs.capital)
			}
		}
	}

	keys := make([]groupKey, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return order[keys[i]] < order[keys[j]]
	})

	summaries := make([]domain.YearlySummary, 0, len(keys))
	for _, key := range keys {
		trimmed := TrimToPercentiles(values[key], LowerPercentile, UpperPercentile)
		summary := summarize(trimmed)
		summary.Year = key.year
		summary.PhaseName = key.phase
		summary.NegativeCapitalPercentage = float64(failedCount[key]) / float64(totalCount[key]) * 100
		summaries = append(summaries, summary)
	}

	growth(summaries)
	return summaries
}

// growth sets each summary's growth against the last summary of the latest
// earlier year. Summaries of the first year, and those following a
// non-positive average, grow by 0.
func growth(summaries []domain.YearlySummary) {
	var (
		prevAvg  float64
		havePrev bool
		lastAvg  float64
		year     int
	)
	for i := range summaries {
		s := &summaries[i]
		if i == 0 || s.Year != year {
			if i > 0 {
				prevAvg, havePrev = lastAvg, true
			}
			year = s.Year
		}
		if havePrev && prevAvg > 0 {
			s.CumulativeGrowthRate = (s.AverageCapital/prevAvg - 1) * 100
		}
		lastAvg = s.AverageCapital
	}
}

// summarize computes the statistics of an ascending, already trimmed set.
func summarize(sorted []float64) domain.YearlySummary {
	s := domain.YearlySummary{Observations: len(sorted)}
	if len(sorted) == 0 {
		return s
	}
	s.AverageCapital = Mean(sorted)
	s.MedianCapital = Quantile(sorted, 0.5)
	s.MinCapital = sorted[0]
	s.MaxCapital = sorted[len(sorted)-1]
	s.StdDevCapital = StdDev(sorted)
	s.Quantile5 = Quantile(sorted, 0.05)
	s.Quantile25 = Quantile(sorted, 0.25)
	s.Quantile75 = Quantile(sorted, 0.75)
	s.Quantile95 = Quantile(sorted, 0.95)
	s.VaR = s.Quantile5
	s.CVaR = CVaR(sorted, s.VaR)
	return s
}
