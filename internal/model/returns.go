package model

import (
	"math"
	"math/rand"
	"strings"
)

// ReturnKind selects the return model variant.
type ReturnKind int

const (
	FixedReturn ReturnKind = iota
	NormalReturn
	BrownianReturn
)

var returnKindNames = map[ReturnKind]string{
	FixedReturn:    "fixed",
	NormalReturn:   "normal",
	BrownianReturn: "brownian",
}

func (k ReturnKind) String() string { return returnKindNames[k] }

// ParseReturnModelKind maps a selector such as "normal" to its kind.
func ParseReturnModelKind(s string) (ReturnKind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	switch want {
	case "fixed", "simple":
		return FixedReturn, nil
	case "normal", "datadriven":
		return NormalReturn, nil
	case "brownian", "gbm", "distribution":
		return BrownianReturn, nil
	}
	return 0, newConfigError("return model", s, "expected fixed, normal or brownian")
}

// ReturnModel is a closed tagged variant. Only the fields of the selected
// Kind are read.
type ReturnModel struct {
	Kind ReturnKind

	// Fixed
	AnnualPercent float64

	// Normal: arithmetic annual mean and standard deviation in percent.
	MeanPercent   float64
	StdDevPercent float64

	// Brownian: drift and volatility of geometric Brownian motion in percent.
	DriftPercent      float64
	VolatilityPercent float64
}

// Fixed returns a deterministic annual return model.
func Fixed(annualPercent float64) ReturnModel {
	return ReturnModel{Kind: FixedReturn, AnnualPercent: annualPercent}
}

// Normal returns a model that draws a normally distributed return per step.
func Normal(meanPercent, stdDevPercent float64) ReturnModel {
	return ReturnModel{Kind: NormalReturn, MeanPercent: meanPercent, StdDevPercent: stdDevPercent}
}

// Brownian returns a geometric Brownian motion model.
func Brownian(driftPercent, volatilityPercent float64) ReturnModel {
	return ReturnModel{Kind: BrownianReturn, DriftPercent: driftPercent, VolatilityPercent: volatilityPercent}
}

// Return computes the return earned on capital over steps compounding steps,
// where perYear is the number of steps in a year. NaN or Inf parameters
// propagate into the result.
func (m ReturnModel) Return(capital float64, steps int, perYear float64, rng *rand.Rand) float64 {
	if steps <= 0 {
		return 0
	}
	factor := 1.0
	switch m.Kind {
	case FixedReturn:
		factor = math.Pow(1+m.AnnualPercent/100, float64(steps)/perYear)
	case NormalReturn:
		mean := m.MeanPercent / 100 / perYear
		sd := m.StdDevPercent / 100 / math.Sqrt(perYear)
		for i := 0; i < steps; i++ {
			factor *= 1 + mean + sd*rng.NormFloat64()
		}
	case BrownianReturn:
		dt := 1 / perYear
		mu := m.DriftPercent / 100
		sigma := m.VolatilityPercent / 100
		drift := (mu - sigma*sigma/2) * dt
		diffusion := sigma * math.Sqrt(dt)
		for i := 0; i < steps; i++ {
			factor *= math.Exp(drift + diffusion*rng.NormFloat64())
		}
	}
	return capital * (factor - 1)
}

// Cadence is how often returns compound.
type Cadence int

const (
	Monthly Cadence = iota
	Daily
)

func (c Cadence) String() string {
	if c == Daily {
		return "daily"
	}
	return "monthly"
}

// ParseCadence maps "monthly" or "daily" to a Cadence.
func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly":
		return Monthly, nil
	case "daily":
		return Daily, nil
	}
	return 0, newConfigError("cadence", s, "expected monthly or daily")
}

// TradingCalendar decides which days count as compounding steps under the
// daily cadence.
type TradingCalendar int

const (
	AllDays TradingCalendar = iota
	Weekdays
)

func (c TradingCalendar) String() string {
	if c == Weekdays {
		return "weekdays"
	}
	return "all_days"
}

// ParseTradingCalendar maps "all_days" or "weekdays" to a TradingCalendar.
func ParseTradingCalendar(s string) (TradingCalendar, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all_days", "alldays", "calendar":
		return AllDays, nil
	case "weekdays", "trading":
		return Weekdays, nil
	}
	return 0, newConfigError("trading calendar", s, "expected all_days or weekdays")
}
