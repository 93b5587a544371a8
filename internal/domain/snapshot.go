package domain

import (
	"fmt"
	"strings"
)

// PhaseKind identifies the behaviour of a phase.
type PhaseKind int

const (
	Deposit PhaseKind = iota
	Withdraw
	Passive
)

var phaseKindNames = map[PhaseKind]string{
	Deposit:  "deposit",
	Withdraw: "withdraw",
	Passive:  "passive",
}

func (k PhaseKind) String() string {
	if name, ok := phaseKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PhaseKind(%d)", int(k))
}

// ParsePhaseKind maps "deposit", "withdraw" or "passive" to a PhaseKind.
func ParsePhaseKind(s string) (PhaseKind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range phaseKindNames {
		if name == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown phase type: %s", s)
}

// MarshalText renders the kind by name.
func (k PhaseKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a kind name.
func (k *PhaseKind) UnmarshalText(b []byte) error {
	parsed, err := ParsePhaseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Snapshot is a copy of the account state taken at an event.
type Snapshot struct {
	RunIndex  int       `json:"runIndex"`
	PhaseName string    `json:"phaseName"`
	PhaseKind PhaseKind `json:"phaseKind"`
	Event     string    `json:"event"`
	State     LiveState `json:"state"`
}

// Year returns the calendar year the snapshot was taken in.
func (s Snapshot) Year() int { return s.State.Date().Year() }

// RunResult holds the snapshots of one Monte Carlo path.
type RunResult struct {
	Index     int        `json:"index"`
	Seed      int64      `json:"seed"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Final returns the last snapshot, if any.
func (r RunResult) Final() (Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}

// YearlySummary aggregates one (year, phase) group across runs.
type YearlySummary struct {
	Year                      int     `json:"year" yaml:"year"`
	PhaseName                 string  `json:"phaseName" yaml:"phase_name"`
	AverageCapital            float64 `json:"averageCapital" yaml:"average_capital"`
	MedianCapital             float64 `json:"medianCapital" yaml:"median_capital"`
	MinCapital                float64 `json:"minCapital" yaml:"min_capital"`
	MaxCapital                float64 `json:"maxCapital" yaml:"max_capital"`
	StdDevCapital             float64 `json:"stdDevCapital" yaml:"std_dev_capital"`
	CumulativeGrowthRate      float64 `json:"cumulativeGrowthRate" yaml:"cumulative_growth_rate"`
	Quantile5                 float64 `json:"quantile5" yaml:"quantile5"`
	Quantile25                float64 `json:"quantile25" yaml:"quantile25"`
	Quantile75                float64 `json:"quantile75" yaml:"quantile75"`
	Quantile95                float64 `json:"quantile95" yaml:"quantile95"`
	VaR                       float64 `json:"var" yaml:"var"`
	CVaR                      float64 `json:"cvar" yaml:"cvar"`
	NegativeCapitalPercentage float64 `json:"negativeCapitalPercentage" yaml:"negative_capital_percentage"`
	Observations              int     `json:"observations" yaml:"observations"`
}
