package model

import "math/rand"

// Compounding steps per year by cadence and trading calendar.
const (
	calendarDaysPerYear = 365.0
	weekdaysPerYear     = 261.0
	monthsPerYear       = 12.0
)

// Specification bundles the models a run is evaluated under. It carries
// mutable per-run state (tax baseline, exemption usage, inflation period and
// random stream), so each path works on its own Clone.
type Specification struct {
	Return     ReturnModel
	Tax        TaxRule
	Inflation  InflationModel
	Fee        *YearlyFee
	Exemptions []TaxExemption
	Cadence    Cadence
	Calendar   TradingCalendar

	seed int64
	rng  *rand.Rand
}

// Reseed replaces the random stream. Negative seeds draw from clock entropy.
func (s *Specification) Reseed(seed int64) {
	s.seed = seed
	s.rng = NewSource(seed)
}

// Seed returns the seed of the current random stream.
func (s *Specification) Seed() int64 { return s.seed }

// Rand returns the run's random stream, seeding it on first use.
func (s *Specification) Rand() *rand.Rand {
	if s.rng == nil {
		s.rng = NewSource(s.seed)
	}
	return s.rng
}

// StepsPerYear returns the number of compounding steps in a year.
func (s *Specification) StepsPerYear() float64 {
	if s.Cadence == Monthly {
		return monthsPerYear
	}
	if s.Calendar == Weekdays {
		return weekdaysPerYear
	}
	return calendarDaysPerYear
}

// Clone returns an independent copy with fresh per-run state: the tax
// baseline, exemption usage and inflation period are reset, and the random
// stream restarts from the seed.
func (s *Specification) Clone() *Specification {
	c := &Specification{
		Return:    s.Return,
		Tax:       TaxRule{Kind: s.Tax.Kind, Percentage: s.Tax.Percentage},
		Inflation: InflationModel{Factor: s.Inflation.Factor},
		Cadence:   s.Cadence,
		Calendar:  s.Calendar,
		seed:      s.seed,
	}
	if s.Fee != nil {
		fee := *s.Fee
		c.Fee = &fee
	}
	if len(s.Exemptions) > 0 {
		c.Exemptions = make([]TaxExemption, len(s.Exemptions))
		for i, ex := range s.Exemptions {
			ex.used = 0
			c.Exemptions[i] = ex
		}
	}
	return c
}

// ExemptionsNamed returns pointers to the exemptions with the given names, in
// the order requested. Unknown names are skipped.
func (s *Specification) ExemptionsNamed(names []string) []*TaxExemption {
	if len(names) == 0 {
		return nil
	}
	out := make([]*TaxExemption, 0, len(names))
	for _, name := range names {
		for i := range s.Exemptions {
			if s.Exemptions[i].Name == name {
				out = append(out, &s.Exemptions[i])
				break
			}
		}
	}
	return out
}
