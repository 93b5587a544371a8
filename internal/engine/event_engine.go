package engine

import (
	"fmt"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/schedule"
)

// EventEngine walks each phase day by day and pushes the boundaries it
// detects from calendar predicates. It produces the same snapshots as a
// ScheduleEngine for the same inputs.
type EventEngine struct {
	Options Options
}

// Run executes phases in order.
func (e *EventEngine) Run(ctx *phase.Context, phases []phase.Phase) (*domain.RunResult, error) {
	forced := make(map[schedule.EventType]bool)
	for _, t := range e.Options.forced() {
		forced[t] = true
	}

	rec := newRecorder(ctx, e.Options)
	for i, p := range phases {
		if p.DurationDays() < 0 {
			return nil, &schedule.BuildError{Phase: i, Err: fmt.Errorf("%w: %d days", schedule.ErrNegativeDuration, p.DurationDays())}
		}
		start := p.StartDate()
		end := start.PlusDays(p.DurationDays())

		rec.Notify(p, schedule.Event{Day: start, Type: schedule.PhaseStart, Phase: i})
		for day := start; !day.After(end); day = day.PlusDays(1) {
			for _, t := range schedule.Priority {
				if t == schedule.PhaseStart || t == schedule.PhaseEnd {
					continue
				}
				if !p.Supports(t) && !forced[t] {
					continue
				}
				if !t.IsDayBoundary() && !day.After(start) {
					continue
				}
				if t.Occurs(day) {
					rec.Notify(p, schedule.Event{Day: day, Type: t, Phase: i})
				}
			}
		}
		rec.Notify(p, schedule.Event{Day: end, Type: schedule.PhaseEnd, Phase: i})
	}
	return rec.result, nil
}
