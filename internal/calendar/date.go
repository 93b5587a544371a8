package calendar

import (
	"fmt"
	"time"
)

// Date is a calendar day stored as a signed day count since 1970-01-01
// in the proleptic Gregorian calendar. The zero value is the epoch.
type Date struct {
	epochDay int
}

// Layout is the textual date format used by Parse and String.
const Layout = "2006-01-02"

// FromEpochDay wraps a raw day count.
func FromEpochDay(day int) Date {
	return Date{epochDay: day}
}

// FromYMD builds a Date from a calendar triple. An out-of-range month or day
// is a programming error and panics.
func FromYMD(year, month, day int) Date {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("calendar: month %d out of range 1..12", month))
	}
	if day < 1 || day > LengthOfMonth(year, month) {
		panic(fmt.Sprintf("calendar: day %d out of range for %04d-%02d", day, year, month))
	}
	return Date{epochDay: daysFromCivil(year, month, day)}
}

// FromTime truncates a time.Time to its calendar day in its own location.
func FromTime(t time.Time) Date {
	return FromYMD(t.Year(), int(t.Month()), t.Day())
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals in tests and defaults.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// daysFromCivil converts a Gregorian date to days since 1970-01-01 using
// era arithmetic (400-year cycles), valid for the full int range.
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int) (int, int, int) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	if year%400 == 0 {
		return true
	}
	if year%100 == 0 {
		return false
	}
	return year%4 == 0
}

// LengthOfMonth returns the number of days in the month.
func LengthOfMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	default:
		panic(fmt.Sprintf("calendar: month %d out of range 1..12", month))
	}
}

// LengthOfYear returns 365 or 366.
func LengthOfYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// EpochDay returns the raw day count.
func (d Date) EpochDay() int { return d.epochDay }

// YMD returns year, month (1..12) and day of month.
func (d Date) YMD() (int, int, int) { return civilFromDays(d.epochDay) }

// Year returns the calendar year.
func (d Date) Year() int {
	y, _, _ := d.YMD()
	return y
}

// Month returns the month 1..12.
func (d Date) Month() int {
	_, m, _ := d.YMD()
	return m
}

// Day returns the day of month.
func (d Date) Day() int {
	_, _, day := d.YMD()
	return day
}

// Weekday returns the ISO day of week, Monday=1 through Sunday=7.
func (d Date) Weekday() int {
	// 1970-01-01 was a Thursday (4).
	w := (d.epochDay + 3) % 7
	if w < 0 {
		w += 7
	}
	return w + 1
}

// DayOfYear returns 1..366.
func (d Date) DayOfYear() int {
	return d.epochDay - FromYMD(d.Year(), 1, 1).epochDay + 1
}

// PlusDays shifts the date by n days.
func (d Date) PlusDays(n int) Date { return Date{epochDay: d.epochDay + n} }

// PlusMonths shifts by n months, keeping the day of month unless the target
// month is shorter, in which case it clamps to that month's last day.
func (d Date) PlusMonths(n int) Date {
	y, m, day := d.YMD()
	total := y*12 + (m - 1) + n
	ny := floorDiv(total, 12)
	nm := total - ny*12 + 1
	if last := LengthOfMonth(ny, nm); day > last {
		day = last
	}
	return FromYMD(ny, nm, day)
}

// PlusYears shifts by n years; Feb 29 clamps to Feb 28 in common years.
func (d Date) PlusYears(n int) Date { return d.PlusMonths(12 * n) }

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int { return other.epochDay - d.epochDay }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.epochDay < other.epochDay }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.epochDay > other.epochDay }

// Equal reports day-count equality.
func (d Date) Equal(other Date) bool { return d.epochDay == other.epochDay }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.epochDay < other.epochDay:
		return -1
	case d.epochDay > other.epochDay:
		return 1
	default:
		return 0
	}
}

// Time converts to midnight UTC.
func (d Date) Time() time.Time {
	y, m, day := d.YMD()
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	y, m, day := d.YMD()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
