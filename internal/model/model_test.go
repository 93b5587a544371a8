package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedReturn_OneYearOfMonthlySteps(t *testing.T) {
	m := Fixed(12)
	capital := 1000.0
	for i := 0; i < 12; i++ {
		capital += m.Return(capital, 1, 12, nil)
	}
	assert.InDelta(t, 1120.0, capital, 1e-9)
	assert.Equal(t, 0.0, m.Return(capital, 0, 12, nil))
}

func TestReturn_NaNPropagates(t *testing.T) {
	rng := NewSource(1)
	assert.True(t, math.IsNaN(Fixed(math.NaN()).Return(1000, 1, 12, rng)))
	assert.True(t, math.IsNaN(Normal(7, math.NaN()).Return(1000, 1, 12, rng)))
	assert.True(t, math.IsNaN(Brownian(math.NaN(), 10).Return(1000, 1, 12, rng)))
	assert.True(t, math.IsInf(Fixed(7).Return(math.Inf(1), 1, 12, rng), 1))
}

func TestNormalReturn_ZeroDeviationIsDeterministic(t *testing.T) {
	got := Normal(12, 0).Return(1200, 1, 12, NewSource(3))
	assert.InDelta(t, 12.0, got, 1e-9)
}

func TestStochasticReturns_SameSeedSameStream(t *testing.T) {
	for _, m := range []ReturnModel{Normal(7, 15), Brownian(7, 15)} {
		a := m.Return(1000, 5, 12, NewSource(99))
		b := m.Return(1000, 5, 12, NewSource(99))
		assert.Equal(t, a, b, m.Kind.String())
	}
}

func TestPathSeed(t *testing.T) {
	assert.Equal(t, PathSeed(42, 7), PathSeed(42, 7))
	assert.NotEqual(t, PathSeed(42, 7), PathSeed(42, 8))
	assert.NotEqual(t, PathSeed(42, 7), PathSeed(43, 7))
	assert.GreaterOrEqual(t, PathSeed(42, 7), int64(0))

	assert.True(t, IsReproducible(0))
	assert.False(t, IsReproducible(-1))
	assert.NotEqual(t, PathSeed(-1, 0), PathSeed(-1, 0))
}

func TestNotionalTax(t *testing.T) {
	rule := TaxRule{Kind: NotionalGains, Percentage: 42}

	tax := rule.NotionalTax(1000)
	assert.InDelta(t, 420.0, tax, 1e-9)
	assert.InDelta(t, 580.0, rule.Baseline(), 1e-9)

	// A loss owes nothing and keeps the high-water mark.
	assert.Equal(t, 0.0, rule.NotionalTax(400))
	assert.InDelta(t, 580.0, rule.Baseline(), 1e-9)

	// Recovering to the previous level is not taxed again.
	assert.Equal(t, 0.0, rule.NotionalTax(580))
	assert.InDelta(t, 580.0, rule.Baseline(), 1e-9)

	assert.InDelta(t, 42.0, rule.NotionalTax(680), 1e-9)
	assert.InDelta(t, 638.0, rule.Baseline(), 1e-9)
}

func TestNotionalTax_NaNPropagates(t *testing.T) {
	rule := TaxRule{Kind: NotionalGains, Percentage: 42}
	assert.True(t, math.IsNaN(rule.NotionalTax(math.NaN())))
	assert.True(t, math.IsNaN(rule.Baseline()))
}

func TestWithdrawalTax_ExemptionsConsumedInOrder(t *testing.T) {
	rule := TaxRule{Kind: CapitalGains, Percentage: 40}
	card := &TaxExemption{Name: "card", Limit: 1000, Percentage: 0, YearlyIncreasePercent: 10}
	stock := &TaxExemption{Name: "stock", Limit: 500, Percentage: 20}

	tax := rule.WithdrawalTax(2000, []*TaxExemption{card, stock})
	// 1000 free, 500 at 20%, 500 at 40%.
	assert.InDelta(t, 300.0, tax, 1e-9)
	assert.Equal(t, 0.0, card.Available())
	assert.Equal(t, 0.0, stock.Available())

	card.Reset()
	assert.InDelta(t, 1100.0, card.Limit, 1e-9)
	assert.InDelta(t, 1100.0, card.Available(), 1e-9)

	notional := TaxRule{Kind: NotionalGains, Percentage: 40}
	assert.Equal(t, 0.0, notional.WithdrawalTax(2000, nil))
}

func TestInflationModel_IndexEqualsCompoundFactor(t *testing.T) {
	m := InflationModel{Factor: 1.02}
	index := 100.0
	for i := 0; i < 10; i++ {
		index += m.NextDelta()
	}
	assert.InDelta(t, 100*math.Pow(1.02, 10), index, 1e-9)
	assert.Equal(t, 10, m.Period())

	flat := NoInflation()
	assert.Equal(t, 0.0, flat.NextDelta())
}

func TestSpecification_CloneResetsRunState(t *testing.T) {
	spec := &Specification{
		Return:     Normal(7, 15),
		Tax:        TaxRule{Kind: NotionalGains, Percentage: 42},
		Inflation:  InflationModel{Factor: 1.02},
		Fee:        &YearlyFee{Percentage: 0.5},
		Exemptions: []TaxExemption{{Name: "card", Limit: 100}},
	}
	spec.Reseed(5)
	first := spec.Rand().Int63()

	spec.Tax.NotionalTax(1000)
	spec.Inflation.NextDelta()
	spec.Exemptions[0].used = 50

	c := spec.Clone()
	assert.Equal(t, 0.0, c.Tax.Baseline())
	assert.Equal(t, 0, c.Inflation.Period())
	assert.Equal(t, 100.0, c.Exemptions[0].Available())
	assert.Equal(t, first, c.Rand().Int63())

	c.Fee.Percentage = 9
	c.Exemptions[0].Limit = 1
	assert.Equal(t, 0.5, spec.Fee.Percentage)
	assert.Equal(t, 100.0, spec.Exemptions[0].Limit)
}

func TestSpecification_StepsPerYear(t *testing.T) {
	assert.Equal(t, 12.0, (&Specification{Cadence: Monthly}).StepsPerYear())
	assert.Equal(t, 365.0, (&Specification{Cadence: Daily, Calendar: AllDays}).StepsPerYear())
	assert.Equal(t, 261.0, (&Specification{Cadence: Daily, Calendar: Weekdays}).StepsPerYear())
}

func TestExemptionsNamed(t *testing.T) {
	spec := &Specification{Exemptions: []TaxExemption{{Name: "a"}, {Name: "b"}}}
	got := spec.ExemptionsNamed([]string{"b", "missing", "a"})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	got[1].Limit = 7
	assert.Equal(t, 7.0, spec.Exemptions[0].Limit)
}

func TestParseSelectors(t *testing.T) {
	kind, err := ParseTaxRuleKind("Notional")
	require.NoError(t, err)
	assert.Equal(t, NotionalGains, kind)

	rk, err := ParseReturnModelKind("gbm")
	require.NoError(t, err)
	assert.Equal(t, BrownianReturn, rk)

	c, err := ParseCadence("daily")
	require.NoError(t, err)
	assert.Equal(t, Daily, c)

	tc, err := ParseTradingCalendar("weekdays")
	require.NoError(t, err)
	assert.Equal(t, Weekdays, tc)

	for _, fn := range []func() error{
		func() error { _, err := ParseTaxRuleKind("wealth"); return err },
		func() error { _, err := ParseReturnModelKind("lottery"); return err },
		func() error { _, err := ParseCadence("hourly"); return err },
		func() error { _, err := ParseTradingCalendar("lunar"); return err },
	} {
		err := fn()
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
		assert.NotEmpty(t, cfgErr.Field)
	}
}

func TestReturnRegistry(t *testing.T) {
	r := NewReturnRegistry()
	assert.Equal(t, []string{"brownian", "fixed", "normal"}, r.List())

	m, err := r.ParseReturnSpec("normal:mean=7, std_dev=15")
	require.NoError(t, err)
	assert.Equal(t, Normal(7, 15), m)

	m, err = r.ParseReturnSpec("fixed:percentage=5.5")
	require.NoError(t, err)
	assert.Equal(t, Fixed(5.5), m)

	_, err = r.ParseReturnSpec("fixed:percentage")
	assert.Error(t, err)
	_, err = r.ParseReturnSpec("fixed:percentage=abc")
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	_, err = r.ParseReturnSpec("normal:mean=7,std_dev=-1")
	assert.Error(t, err)
	_, err = r.ParseReturnSpec("lottery:")
	assert.Error(t, err)
}
