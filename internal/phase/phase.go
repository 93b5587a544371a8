// Package phase implements the account phases a run moves through and the
// operations they share.
package phase

import (
	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/schedule"
)

// Context is the state owned by a single run.
type Context struct {
	Spec  *model.Specification
	State *domain.LiveState
}

// NewContext creates a run context starting on start.
func NewContext(spec *model.Specification, start calendar.Date) *Context {
	return &Context{Spec: spec, State: domain.NewLiveState(start)}
}

// Phase is a span of the simulation with its own event handling.
type Phase interface {
	schedule.Boundaried
	Name() string
	Kind() domain.PhaseKind
	// Handle applies the phase's reaction to event t.
	Handle(ctx *Context, t schedule.EventType)
	// Clone returns a copy with independent mutable state.
	Clone() Phase
}

// base carries what every phase kind shares.
type base struct {
	name     string
	start    calendar.Date
	days     int
	supports map[schedule.EventType]bool
}

func newBase(name string, start calendar.Date, days int, supported ...schedule.EventType) base {
	set := make(map[schedule.EventType]bool, len(supported))
	for _, t := range supported {
		set[t] = true
	}
	return base{name: name, start: start, days: days, supports: set}
}

func (b *base) Name() string                       { return b.name }
func (b *base) StartDate() calendar.Date           { return b.start }
func (b *base) DurationDays() int                  { return b.days }
func (b *base) Supports(t schedule.EventType) bool { return b.supports[t] }

// onPhaseStart starts a new session.
func (b *base) onPhaseStart(ctx *Context) { ctx.State.ResetSession() }

// onYearEnd runs the yearly bookkeeping common to all kinds.
func (b *base) onYearEnd(ctx *Context) {
	AddTax(ctx)
	AddInflation(ctx)
	AddFee(ctx)
	ResetExemptions(ctx)
}

// Names returns the names of phases in order.
func Names(phases []Phase) []string {
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = p.Name()
	}
	return out
}

// Boundaried adapts phases for the schedule builder.
func Boundaried(phases []Phase) []schedule.Boundaried {
	out := make([]schedule.Boundaried, len(phases))
	for i, p := range phases {
		out[i] = p
	}
	return out
}

// CloneAll clones every phase.
func CloneAll(phases []Phase) []Phase {
	out := make([]Phase, len(phases))
	for i, p := range phases {
		out[i] = p.Clone()
	}
	return out
}
