// Package engine drives phases through time, either by replaying a prebuilt
// schedule or by deriving events from the calendar as it goes.
package engine

import (
	"errors"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/schedule"
)

// ErrScheduleMismatch is returned when a schedule was not built for the
// phases it is replayed against.
var ErrScheduleMismatch = errors.New("schedule does not match phases")

// Options controls snapshot granularity.
type Options struct {
	// YearlySnapshots records a snapshot at every YEAR_END in addition to the
	// start and each PHASE_END.
	YearlySnapshots bool
}

// forced returns the event types emitted regardless of phase support.
func (o Options) forced() []schedule.EventType {
	if o.YearlySnapshots {
		return []schedule.EventType{schedule.YearEnd}
	}
	return nil
}

// Runner executes a single path.
type Runner interface {
	Run(ctx *phase.Context, phases []phase.Phase) (*domain.RunResult, error)
}

// BuildSchedule builds the schedule a ScheduleEngine replays for phases.
func BuildSchedule(phases []phase.Phase, opts Options) (schedule.Schedule, error) {
	return schedule.BuildWithOptions(phase.Boundaried(phases), schedule.BuildOptions{Force: opts.forced()})
}

// recorder applies events to a run and takes snapshots. Both engines feed it
// the same event stream.
type recorder struct {
	opts    Options
	ctx     *phase.Context
	prev    calendar.Date
	started bool
	result  *domain.RunResult
}

func newRecorder(ctx *phase.Context, opts Options) *recorder {
	return &recorder{
		opts:   opts,
		ctx:    ctx,
		prev:   ctx.State.StartTime,
		result: &domain.RunResult{},
	}
}

// Notify advances the clock to the event day, dispatches the event to p when
// it reacts to it and records a snapshot where one is due.
func (r *recorder) Notify(p phase.Phase, e schedule.Event) {
	r.ctx.State.Advance(r.prev.DaysUntil(e.Day))
	r.prev = e.Day

	positional := e.Type == schedule.PhaseStart || e.Type == schedule.PhaseEnd
	if positional || p.Supports(e.Type) {
		p.Handle(r.ctx, e.Type)
	}

	switch {
	case !r.started:
		r.started = true
		r.snapshot(p, e)
	case e.Type == schedule.PhaseEnd:
		r.snapshot(p, e)
	case e.Type == schedule.YearEnd && r.opts.YearlySnapshots:
		r.snapshot(p, e)
	}
}

func (r *recorder) snapshot(p phase.Phase, e schedule.Event) {
	r.result.Snapshots = append(r.result.Snapshots, domain.Snapshot{
		PhaseName: p.Name(),
		PhaseKind: p.Kind(),
		Event:     e.Type.String(),
		State:     r.ctx.State.Clone(),
	})
}
