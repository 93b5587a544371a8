package schedule

import (
	"errors"
	"fmt"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
)

// ErrNegativeDuration is returned for phases with a duration below zero.
var ErrNegativeDuration = errors.New("phase duration cannot be negative")

// Boundaried is what the builder needs from a phase.
type Boundaried interface {
	StartDate() calendar.Date
	DurationDays() int
	Supports(EventType) bool
}

// BuildOptions tweaks which events are emitted.
type BuildOptions struct {
	// Force lists event types emitted even when the phase does not declare them.
	Force []EventType
}

// BuildError reports which phase could not be scheduled.
type BuildError struct {
	Phase int
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("schedule phase %d: %v", e.Phase, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Schedule is an immutable, time-ordered list of events.
type Schedule struct {
	events []Event
	phases int
}

// Len returns the number of events.
func (s Schedule) Len() int { return len(s.events) }

// At returns the i-th event.
func (s Schedule) At(i int) Event { return s.events[i] }

// Phases returns how many phases the schedule was built from.
func (s Schedule) Phases() int { return s.phases }

// Events returns a copy of the event list.
func (s Schedule) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Build walks each phase day by day and emits its boundary events. Phases are
// concatenated in the given order.
func Build(phases []Boundaried) (Schedule, error) {
	return BuildWithOptions(phases, BuildOptions{})
}

// BuildWithOptions is Build with forced event types.
func BuildWithOptions(phases []Boundaried, opts BuildOptions) (Schedule, error) {
	forced := make(map[EventType]bool, len(opts.Force))
	for _, t := range opts.Force {
		forced[t] = true
	}

	var events []Event
	for i, p := range phases {
		sub, err := buildPhase(i, p, forced)
		if err != nil {
			return Schedule{}, &BuildError{Phase: i, Err: err}
		}
		events = append(events, sub...)
	}
	return Schedule{events: events, phases: len(phases)}, nil
}

func buildPhase(index int, p Boundaried, forced map[EventType]bool) ([]Event, error) {
	duration := p.DurationDays()
	if duration < 0 {
		return nil, fmt.Errorf("%w: %d days", ErrNegativeDuration, duration)
	}
	start := p.StartDate()
	end := start.PlusDays(duration)

	active := make([]EventType, 0, len(boundaries))
	next := make(map[EventType]calendar.Date, len(boundaries))
	for _, t := range boundaries {
		if p.Supports(t) || forced[t] {
			active = append(active, t)
			next[t] = t.first(start)
		}
	}

	events := []Event{{Day: start, Type: PhaseStart, Phase: index}}
	for day := start; !day.After(end); day = day.PlusDays(1) {
		for _, t := range active {
			if next[t].Equal(day) {
				events = append(events, Event{Day: day, Type: t, Phase: index})
				next[t] = t.next(day)
			}
		}
	}
	events = append(events, Event{Day: end, Type: PhaseEnd, Phase: index})
	return events, nil
}
