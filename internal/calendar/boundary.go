package calendar

// Boundary queries. The Next* variants are strictly after the receiver when
// the receiver is itself the boundary, so two chained periods sharing a day
// never observe the same boundary twice.

// MonthStart returns the first day of the current month.
func (d Date) MonthStart() Date {
	y, m, _ := d.YMD()
	return FromYMD(y, m, 1)
}

// MonthEnd returns the last day of the current month.
func (d Date) MonthEnd() Date {
	y, m, _ := d.YMD()
	return FromYMD(y, m, LengthOfMonth(y, m))
}

// YearStart returns January 1st of the current year.
func (d Date) YearStart() Date { return FromYMD(d.Year(), 1, 1) }

// YearEnd returns December 31st of the current year.
func (d Date) YearEnd() Date { return FromYMD(d.Year(), 12, 31) }

// WeekStart returns the Monday of the current ISO week.
func (d Date) WeekStart() Date { return d.PlusDays(1 - d.Weekday()) }

// WeekEnd returns the Sunday of the current ISO week.
func (d Date) WeekEnd() Date { return d.PlusDays(7 - d.Weekday()) }

// IsMonthStart reports whether d is the first of its month.
func (d Date) IsMonthStart() bool { return d.Day() == 1 }

// IsMonthEnd reports whether d is the last day of its month.
func (d Date) IsMonthEnd() bool {
	y, m, day := d.YMD()
	return day == LengthOfMonth(y, m)
}

// IsYearStart reports whether d is January 1st.
func (d Date) IsYearStart() bool {
	_, m, day := d.YMD()
	return m == 1 && day == 1
}

// IsYearEnd reports whether d is December 31st.
func (d Date) IsYearEnd() bool {
	_, m, day := d.YMD()
	return m == 12 && day == 31
}

// IsWeekStart reports whether d is a Monday.
func (d Date) IsWeekStart() bool { return d.Weekday() == 1 }

// IsWeekEnd reports whether d is a Sunday.
func (d Date) IsWeekEnd() bool { return d.Weekday() == 7 }

// IsWeekday reports whether d falls Monday through Friday.
func (d Date) IsWeekday() bool { return d.Weekday() <= 5 }

// NextMonthStart returns the first day of the following month.
func (d Date) NextMonthStart() Date { return d.MonthStart().PlusMonths(1) }

// NextMonthEnd returns the current month's end, or the following month's end
// when d already is a month end.
func (d Date) NextMonthEnd() Date {
	if d.IsMonthEnd() {
		return d.PlusDays(1).MonthEnd()
	}
	return d.MonthEnd()
}

// NextYearStart returns January 1st of the following year.
func (d Date) NextYearStart() Date { return FromYMD(d.Year()+1, 1, 1) }

// NextYearEnd returns December 31st of this year, or of next year when d is
// already December 31st.
func (d Date) NextYearEnd() Date {
	if d.IsYearEnd() {
		return FromYMD(d.Year()+1, 12, 31)
	}
	return d.YearEnd()
}

// NextWeekStart returns the following Monday.
func (d Date) NextWeekStart() Date { return d.WeekStart().PlusDays(7) }

// NextWeekEnd returns this week's Sunday, or next week's when d is a Sunday.
func (d Date) NextWeekEnd() Date {
	if d.IsWeekEnd() {
		return d.PlusDays(7)
	}
	return d.WeekEnd()
}

// WeekdaysBetween counts Monday..Friday days in the half-open range (from, to].
func WeekdaysBetween(from, to Date) int {
	n := from.DaysUntil(to)
	if n <= 0 {
		return 0
	}
	full := n / 7
	count := full * 5
	day := from.PlusDays(full * 7)
	for i := 0; i < n%7; i++ {
		day = day.PlusDays(1)
		if day.IsWeekday() {
			count++
		}
	}
	return count
}
