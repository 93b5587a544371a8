package model

import "math"

// InflationModel produces increments for an additive price index that starts
// at 100. After n periods the index equals 100*Factor^n.
type InflationModel struct {
	Factor float64

	period int
}

// NoInflation keeps the index flat.
func NoInflation() InflationModel { return InflationModel{Factor: 1} }

// NextDelta advances one period and returns the index increment.
func (m *InflationModel) NextDelta() float64 {
	m.period++
	n := float64(m.period)
	return 100 * (math.Pow(m.Factor, n) - math.Pow(m.Factor, n-1))
}

// Period returns how many periods have elapsed.
func (m *InflationModel) Period() int { return m.period }

// YearlyFee charges a percentage of capital once a year.
type YearlyFee struct {
	Percentage float64
}

// Charge returns the fee owed on capital.
func (f YearlyFee) Charge(capital float64) float64 {
	return capital * f.Percentage / 100
}
