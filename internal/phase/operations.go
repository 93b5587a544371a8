package phase

import (
	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
)

// returnSteps counts compounding steps since returns were last accrued.
func returnSteps(ctx *Context) int {
	state := ctx.State
	if ctx.Spec.Cadence == model.Monthly {
		return 1
	}
	if ctx.Spec.Calendar == model.Weekdays {
		from := state.StartTime.PlusDays(state.LastReturnDay)
		return calendar.WeekdaysBetween(from, state.Date())
	}
	return state.TotalDurationAlive - state.LastReturnDay
}

// AddReturn accrues the return earned since the previous accrual.
func AddReturn(ctx *Context) {
	state := ctx.State
	r := ctx.Spec.Return.Return(state.Capital, returnSteps(ctx), ctx.Spec.StepsPerYear(), ctx.Spec.Rand())
	state.CurrentReturn = r
	state.Returned += r
	state.Capital += r
	state.LastReturnDay = state.TotalDurationAlive
}

// AddTax settles the yearly tax on unrealised gains. Only the notional gains
// rule taxes at year end.
func AddTax(ctx *Context) {
	rule := &ctx.Spec.Tax
	switch rule.Kind {
	case model.NotionalGains:
		state := ctx.State
		tax := rule.NotionalTax(state.Returned)
		state.Capital -= tax
		state.Returned -= tax
		state.Taxed += tax
		state.CurrentTax = tax
	case model.CapitalGains, model.NoTax:
	}
}

// TaxWithdrawal returns the tax owed on a withdrawal of amount and records
// it. Capital is not touched; the tax is paid out of the withdrawal.
func TaxWithdrawal(ctx *Context, amount float64, exemptions []string) float64 {
	rule := &ctx.Spec.Tax
	switch rule.Kind {
	case model.CapitalGains:
		tax := rule.WithdrawalTax(amount, ctx.Spec.ExemptionsNamed(exemptions))
		ctx.State.Taxed += tax
		ctx.State.CurrentTax = tax
		return tax
	default:
		return 0
	}
}

// AddInflation advances the price index by one year.
func AddInflation(ctx *Context) {
	ctx.State.Inflation += ctx.Spec.Inflation.NextDelta()
}

// AddFee charges the yearly fee, if one is configured.
func AddFee(ctx *Context) {
	if ctx.Spec.Fee == nil {
		return
	}
	state := ctx.State
	fee := ctx.Spec.Fee.Charge(state.Capital)
	state.Capital -= fee
	state.Fees += fee
	state.CurrentFee = fee
}

// ResetExemptions rolls every tax exemption over into a new year.
func ResetExemptions(ctx *Context) {
	for i := range ctx.Spec.Exemptions {
		ctx.Spec.Exemptions[i].Reset()
	}
}
