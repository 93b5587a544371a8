package schedule

import (
	"fmt"
	"strings"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
)

// EventType is one of the closed set of calendar boundaries a phase can react to.
type EventType int

const (
	PhaseStart EventType = iota
	DayStart
	WeekStart
	MonthStart
	YearStart
	DayEnd
	WeekEnd
	MonthEnd
	YearEnd
	PhaseEnd
)

// Priority lists every event type in same-day emission order.
var Priority = []EventType{
	PhaseStart,
	DayStart, WeekStart, MonthStart, YearStart,
	DayEnd, WeekEnd, MonthEnd, YearEnd,
	PhaseEnd,
}

// boundaries are the calendar-driven types; PhaseStart/PhaseEnd are positional.
var boundaries = []EventType{
	DayStart, WeekStart, MonthStart, YearStart,
	DayEnd, WeekEnd, MonthEnd, YearEnd,
}

var eventNames = map[EventType]string{
	PhaseStart: "PHASE_START",
	DayStart:   "DAY_START",
	WeekStart:  "WEEK_START",
	MonthStart: "MONTH_START",
	YearStart:  "YEAR_START",
	DayEnd:     "DAY_END",
	WeekEnd:    "WEEK_END",
	MonthEnd:   "MONTH_END",
	YearEnd:    "YEAR_END",
	PhaseEnd:   "PHASE_END",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// ParseEventType accepts the canonical names, case-insensitively.
func ParseEventType(s string) (EventType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range eventNames {
		if name == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown event type: %s", s)
}

// IsDayBoundary reports whether t fires on every day of a phase.
func (t EventType) IsDayBoundary() bool { return t == DayStart || t == DayEnd }

// Occurs reports whether the boundary t falls on day. Day boundaries occur
// every day; PhaseStart/PhaseEnd are not calendar driven and never occur here.
func (t EventType) Occurs(day calendar.Date) bool {
	switch t {
	case DayStart, DayEnd:
		return true
	case WeekStart:
		return day.IsWeekStart()
	case WeekEnd:
		return day.IsWeekEnd()
	case MonthStart:
		return day.IsMonthStart()
	case MonthEnd:
		return day.IsMonthEnd()
	case YearStart:
		return day.IsYearStart()
	case YearEnd:
		return day.IsYearEnd()
	default:
		return false
	}
}

// first returns the first occurrence of boundary t for a phase starting on start.
func (t EventType) first(start calendar.Date) calendar.Date {
	switch t {
	case WeekStart:
		return start.NextWeekStart()
	case WeekEnd:
		return start.NextWeekEnd()
	case MonthStart:
		return start.NextMonthStart()
	case MonthEnd:
		return start.NextMonthEnd()
	case YearStart:
		return start.NextYearStart()
	case YearEnd:
		return start.NextYearEnd()
	default:
		return start
	}
}

// next returns the occurrence following current.
func (t EventType) next(current calendar.Date) calendar.Date {
	if t.IsDayBoundary() {
		return current.PlusDays(1)
	}
	return t.first(current)
}

// Event is a single boundary occurrence on a given day, tagged with the index
// of the phase it belongs to.
type Event struct {
	Day   calendar.Date
	Type  EventType
	Phase int
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s (phase %d)", e.Day, e.Type, e.Phase)
}
