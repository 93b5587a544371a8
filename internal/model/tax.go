package model

import (
	"math"
	"strings"
)

// TaxKind selects the tax rule variant.
type TaxKind int

const (
	NoTax TaxKind = iota
	// NotionalGains taxes unrealised yearly gains at year end.
	NotionalGains
	// CapitalGains taxes withdrawals.
	CapitalGains
)

func (k TaxKind) String() string {
	switch k {
	case NotionalGains:
		return "notional"
	case CapitalGains:
		return "capital"
	default:
		return "none"
	}
}

// ParseTaxRuleKind maps a selector such as "notional" to its kind.
func ParseTaxRuleKind(s string) (TaxKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "no_tax":
		return NoTax, nil
	case "notional", "notional_gains", "notionalgains":
		return NotionalGains, nil
	case "capital", "capital_gains", "capitalgains":
		return CapitalGains, nil
	}
	return 0, newConfigError("tax rule", s, "expected none, notional or capital")
}

// TaxRule is a closed tagged variant; phases dispatch on Kind.
type TaxRule struct {
	Kind       TaxKind
	Percentage float64

	previousReturned float64
}

// NotionalTax returns the tax owed on the growth of returned above the
// baseline. The baseline is a high-water mark: it moves up to the post-tax
// returned amount after a gain and stays put after a loss, so a recovery is
// not taxed twice.
func (r *TaxRule) NotionalTax(returned float64) float64 {
	delta := returned - r.previousReturned
	if delta <= 0 {
		return 0
	}
	tax := delta * r.Percentage / 100
	r.previousReturned = returned - tax
	return tax
}

// Baseline returns the returned amount the next notional tax is measured from.
func (r *TaxRule) Baseline() float64 { return r.previousReturned }

// WithdrawalTax taxes amount under the capital gains rule, consuming the
// exemptions first in order. Other kinds owe nothing on withdrawals.
func (r *TaxRule) WithdrawalTax(amount float64, exemptions []*TaxExemption) float64 {
	if r.Kind != CapitalGains || amount <= 0 {
		return 0
	}
	remaining := amount
	tax := 0.0
	for _, ex := range exemptions {
		if remaining <= 0 {
			break
		}
		portion := math.Min(remaining, ex.Available())
		if portion <= 0 {
			continue
		}
		tax += portion * ex.Percentage / 100
		ex.used += portion
		remaining -= portion
	}
	return tax + remaining*r.Percentage/100
}

// TaxExemption is a yearly allowance taxed at its own rate.
type TaxExemption struct {
	Name                  string
	Limit                 float64
	Percentage            float64
	YearlyIncreasePercent float64

	used float64
}

// Available returns the unused allowance for the current year.
func (e *TaxExemption) Available() float64 { return math.Max(e.Limit-e.used, 0) }

// Used returns the allowance consumed this year.
func (e *TaxExemption) Used() float64 { return e.used }

// Reset starts a new year: usage is cleared and the limit grows.
func (e *TaxExemption) Reset() {
	e.used = 0
	e.Limit *= 1 + e.YearlyIncreasePercent/100
}
