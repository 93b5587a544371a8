package engine

import (
	"fmt"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/schedule"
)

// ScheduleEngine replays a prebuilt schedule. The schedule is immutable and
// can be shared by concurrent runs.
type ScheduleEngine struct {
	Schedule schedule.Schedule
	Options  Options
}

// NewScheduleEngine builds the schedule for phases once.
func NewScheduleEngine(phases []phase.Phase, opts Options) (*ScheduleEngine, error) {
	sched, err := BuildSchedule(phases, opts)
	if err != nil {
		return nil, err
	}
	return &ScheduleEngine{Schedule: sched, Options: opts}, nil
}

// Run replays the schedule against phases, which must be the phases (or
// clones of the phases) the schedule was built from.
func (e *ScheduleEngine) Run(ctx *phase.Context, phases []phase.Phase) (*domain.RunResult, error) {
	if e.Schedule.Phases() != len(phases) {
		return nil, fmt.Errorf("%w: schedule has %d phases, got %d", ErrScheduleMismatch, e.Schedule.Phases(), len(phases))
	}

	rec := newRecorder(ctx, e.Options)
	cursor := 0
	for i := 0; i < e.Schedule.Len(); i++ {
		ev := e.Schedule.At(i)
		if ev.Phase != cursor {
			return nil, fmt.Errorf("%w: event %d belongs to phase %d, cursor at %d", ErrScheduleMismatch, i, ev.Phase, cursor)
		}
		rec.Notify(phases[cursor], ev)
		if ev.Type == schedule.PhaseEnd {
			cursor++
		}
	}
	return rec.result, nil
}
