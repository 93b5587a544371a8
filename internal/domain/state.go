package domain

import "github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"

// InitialInflationIndex is the value of the price index on the start date.
const InitialInflationIndex = 100.0

// LiveState is the mutable account state of a single run.
type LiveState struct {
	StartTime          calendar.Date `json:"startTime"`
	TotalDurationAlive int           `json:"totalDurationAlive"` // days since StartTime
	SessionDuration    int           `json:"sessionDuration"`    // days since the current phase started

	// Lifetime totals
	Capital         float64 `json:"capital"`
	Deposited       float64 `json:"deposited"`
	Withdrawn       float64 `json:"withdrawn"`
	Returned        float64 `json:"returned"`
	PassiveReturned float64 `json:"passiveReturned"`
	Taxed           float64 `json:"taxed"`
	Inflation       float64 `json:"inflation"`
	NetEarnings     float64 `json:"netEarnings"`
	Fees            float64 `json:"fees"`

	// Most recent step
	CurrentReturn   float64 `json:"currentReturn"`
	CurrentTax      float64 `json:"currentTax"`
	CurrentNet      float64 `json:"currentNet"`
	CurrentWithdraw float64 `json:"currentWithdraw"`
	CurrentDeposit  float64 `json:"currentDeposit"`
	CurrentFee      float64 `json:"currentFee"`

	// LastReturnDay is the alive day on which returns were last accrued.
	LastReturnDay int `json:"lastReturnDay"`
}

// NewLiveState returns an empty account starting on start.
func NewLiveState(start calendar.Date) *LiveState {
	return &LiveState{StartTime: start, Inflation: InitialInflationIndex}
}

// Date returns the simulated current day.
func (s *LiveState) Date() calendar.Date {
	return s.StartTime.PlusDays(s.TotalDurationAlive)
}

// Advance moves the clock forward by days.
func (s *LiveState) Advance(days int) {
	s.TotalDurationAlive += days
	s.SessionDuration += days
}

// ResetSession clears the session clock and per-step values. Lifetime totals
// are kept.
func (s *LiveState) ResetSession() {
	s.SessionDuration = 0
	s.CurrentReturn = 0
	s.CurrentTax = 0
	s.CurrentNet = 0
	s.CurrentWithdraw = 0
	s.CurrentDeposit = 0
	s.CurrentFee = 0
}

// Clone returns a copy.
func (s *LiveState) Clone() LiveState { return *s }
