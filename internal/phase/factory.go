package phase

import (
	"errors"
	"fmt"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
)

// ErrUnknownKind is returned by New for kinds it cannot build.
var ErrUnknownKind = errors.New("unknown phase kind")

// Config holds the parameters of any phase kind. Fields that do not apply to
// the selected kind are ignored.
type Config struct {
	Name         string
	Start        calendar.Date
	DurationDays int

	// Deposit
	InitialDeposit        float64
	MonthlyDeposit        float64
	YearlyIncreasePercent float64

	// Withdraw
	MonthlyAmount         float64
	WithdrawRatePercent   float64
	LowerVariationPercent float64
	UpperVariationPercent float64
	Exemptions            []string
	ClampToCapital        bool
}

// New creates a phase of the given kind.
func New(kind domain.PhaseKind, cfg Config) (Phase, error) {
	name := cfg.Name
	if name == "" {
		name = kind.String()
	}

	switch kind {
	case domain.Deposit:
		if cfg.InitialDeposit < 0 || cfg.MonthlyDeposit < 0 {
			return nil, fmt.Errorf("phase %s: deposits cannot be negative", name)
		}
		return NewDeposit(name, cfg.Start, cfg.DurationDays, cfg.InitialDeposit, cfg.MonthlyDeposit, cfg.YearlyIncreasePercent), nil
	case domain.Withdraw:
		if cfg.MonthlyAmount < 0 || cfg.WithdrawRatePercent < 0 {
			return nil, fmt.Errorf("phase %s: withdrawal amount and rate cannot be negative", name)
		}
		if cfg.LowerVariationPercent < 0 || cfg.UpperVariationPercent < 0 {
			return nil, fmt.Errorf("phase %s: variation percentages cannot be negative", name)
		}
		p := NewWithdraw(name, cfg.Start, cfg.DurationDays, cfg.MonthlyAmount)
		p.WithdrawRatePercent = cfg.WithdrawRatePercent
		p.LowerVariationPercent = cfg.LowerVariationPercent
		p.UpperVariationPercent = cfg.UpperVariationPercent
		p.Exemptions = append([]string(nil), cfg.Exemptions...)
		p.ClampToCapital = cfg.ClampToCapital
		return p, nil
	case domain.Passive:
		return NewPassive(name, cfg.Start, cfg.DurationDays), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
