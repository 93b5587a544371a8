package phase

import (
	"math"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/schedule"
)

// DepositPhase pays an initial amount and then a growing monthly amount.
type DepositPhase struct {
	base
	InitialDeposit        float64
	MonthlyDeposit        float64
	YearlyIncreasePercent float64

	monthly float64
}

// NewDeposit creates a deposit phase.
func NewDeposit(name string, start calendar.Date, days int, initial, monthly, yearlyIncrease float64) *DepositPhase {
	return &DepositPhase{
		base:                  newBase(name, start, days, schedule.MonthEnd, schedule.YearEnd),
		InitialDeposit:        initial,
		MonthlyDeposit:        monthly,
		YearlyIncreasePercent: yearlyIncrease,
		monthly:               monthly,
	}
}

func (p *DepositPhase) Kind() domain.PhaseKind { return domain.Deposit }

func (p *DepositPhase) Clone() Phase {
	c := *p
	return &c
}

func (p *DepositPhase) Handle(ctx *Context, t schedule.EventType) {
	switch t {
	case schedule.PhaseStart:
		p.OnPhaseStart(ctx)
	case schedule.MonthEnd:
		p.OnMonthEnd(ctx)
	case schedule.YearEnd:
		p.onYearEnd(ctx)
	}
}

// OnPhaseStart deposits the initial amount.
func (p *DepositPhase) OnPhaseStart(ctx *Context) {
	p.onPhaseStart(ctx)
	p.deposit(ctx, p.InitialDeposit)
}

// OnMonthEnd accrues returns, deposits the monthly amount and then grows it
// by the yearly increase percentage. The increase compounds every month end.
func (p *DepositPhase) OnMonthEnd(ctx *Context) {
	AddReturn(ctx)
	p.deposit(ctx, p.monthly)
	p.monthly *= 1 + p.YearlyIncreasePercent/100
}

// CurrentMonthlyDeposit returns the amount the next month end will deposit.
func (p *DepositPhase) CurrentMonthlyDeposit() float64 { return p.monthly }

func (p *DepositPhase) deposit(ctx *Context, amount float64) {
	state := ctx.State
	state.Capital += amount
	state.Deposited += amount
	state.CurrentDeposit = amount
}

// WithdrawPhase takes a monthly amount out of the account.
type WithdrawPhase struct {
	base
	// MonthlyAmount is in start-date money and is indexed by inflation.
	// When zero, WithdrawRatePercent of capital is withdrawn per year.
	MonthlyAmount         float64
	WithdrawRatePercent   float64
	LowerVariationPercent float64
	UpperVariationPercent float64
	Exemptions            []string
	// ClampToCapital stops withdrawals from driving capital below zero.
	ClampToCapital bool
}

// NewWithdraw creates a withdraw phase with a flat monthly amount.
func NewWithdraw(name string, start calendar.Date, days int, monthlyAmount float64) *WithdrawPhase {
	return &WithdrawPhase{
		base:          newBase(name, start, days, schedule.MonthEnd, schedule.YearEnd),
		MonthlyAmount: monthlyAmount,
	}
}

func (p *WithdrawPhase) Kind() domain.PhaseKind { return domain.Withdraw }

func (p *WithdrawPhase) Clone() Phase {
	c := *p
	c.Exemptions = append([]string(nil), p.Exemptions...)
	return &c
}

func (p *WithdrawPhase) Handle(ctx *Context, t schedule.EventType) {
	switch t {
	case schedule.PhaseStart:
		p.onPhaseStart(ctx)
	case schedule.MonthEnd:
		p.OnMonthEnd(ctx)
	case schedule.YearEnd:
		p.onYearEnd(ctx)
	}
}

// OnMonthEnd accrues returns and withdraws the month's amount net of tax.
func (p *WithdrawPhase) OnMonthEnd(ctx *Context) {
	AddReturn(ctx)

	state := ctx.State
	amount := p.amount(ctx)
	if p.ClampToCapital {
		amount = math.Min(amount, math.Max(state.Capital, 0))
	}
	state.Capital -= amount
	state.Withdrawn += amount
	state.CurrentWithdraw = amount

	tax := TaxWithdrawal(ctx, amount, p.Exemptions)
	state.CurrentNet = amount - tax
	state.NetEarnings += amount - tax
}

func (p *WithdrawPhase) amount(ctx *Context) float64 {
	state := ctx.State
	var amount float64
	if p.MonthlyAmount > 0 {
		amount = p.MonthlyAmount * state.Inflation / 100
	} else {
		amount = math.Max(state.Capital*p.WithdrawRatePercent/100/12, 0)
	}
	if spread := p.LowerVariationPercent + p.UpperVariationPercent; spread > 0 {
		variation := -p.LowerVariationPercent + ctx.Spec.Rand().Float64()*spread
		amount *= 1 + variation/100
	}
	return amount
}

// PassivePhase lets capital grow without cash flows.
type PassivePhase struct {
	base

	previouslyReturned float64
}

// NewPassive creates a passive phase.
func NewPassive(name string, start calendar.Date, days int) *PassivePhase {
	return &PassivePhase{base: newBase(name, start, days, schedule.MonthEnd, schedule.YearEnd)}
}

func (p *PassivePhase) Kind() domain.PhaseKind { return domain.Passive }

func (p *PassivePhase) Clone() Phase {
	c := *p
	return &c
}

func (p *PassivePhase) Handle(ctx *Context, t schedule.EventType) {
	switch t {
	case schedule.PhaseStart:
		p.onPhaseStart(ctx)
		p.previouslyReturned = ctx.State.Returned
	case schedule.MonthEnd:
		AddReturn(ctx)
		ctx.State.PassiveReturned = ctx.State.Returned - p.previouslyReturned
	case schedule.YearEnd:
		p.onYearEnd(ctx)
	}
}
