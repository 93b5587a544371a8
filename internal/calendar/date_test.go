package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYMD_Epoch(t *testing.T) {
	assert.Equal(t, 0, FromYMD(1970, 1, 1).EpochDay())
	assert.Equal(t, -1, FromYMD(1969, 12, 31).EpochDay())
	assert.Equal(t, 10957, FromYMD(2000, 1, 1).EpochDay())
	assert.Equal(t, 19723, FromYMD(2024, 1, 1).EpochDay())
}

func TestYMD_RoundTrip(t *testing.T) {
	for year := 1600; year <= 2400; year += 7 {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= LengthOfMonth(year, month); day++ {
				y, m, d := FromYMD(year, month, day).YMD()
				if y != year || m != month || d != day {
					t.Fatalf("round trip %04d-%02d-%02d gave %04d-%02d-%02d", year, month, day, y, m, d)
				}
			}
		}
	}
}

func TestConsecutiveDaysAreContiguous(t *testing.T) {
	prev := FromYMD(1999, 12, 31)
	for i := 0; i < 800; i++ {
		next := prev.PlusDays(1)
		assert.Equal(t, 1, prev.DaysUntil(next))
		y, m, d := next.YMD()
		assert.Equal(t, next, FromYMD(y, m, d))
		prev = next
	}
}

func TestFromYMD_InvalidMonthPanics(t *testing.T) {
	assert.Panics(t, func() { FromYMD(2021, 13, 1) })
	assert.Panics(t, func() { FromYMD(2021, 0, 1) })
	assert.Panics(t, func() { FromYMD(2021, 2, 30) })
}

func TestPlusMonths_Clamps(t *testing.T) {
	tests := []struct {
		from   string
		months int
		want   string
	}{
		{"2021-01-31", 1, "2021-02-28"},
		{"2020-01-31", 1, "2020-02-29"},
		{"2021-03-31", 1, "2021-04-30"},
		{"2021-01-15", 1, "2021-02-15"},
		{"2021-12-31", 2, "2022-02-28"},
		{"2021-03-31", -1, "2021-02-28"},
		{"2020-02-29", 12, "2021-02-28"},
		{"2021-05-10", -17, "2019-12-10"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got := MustParse(tt.from).PlusMonths(tt.months)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPlusYears_LeapDay(t *testing.T) {
	assert.Equal(t, "2025-02-28", MustParse("2024-02-29").PlusYears(1).String())
	assert.Equal(t, "2028-02-29", MustParse("2024-02-29").PlusYears(4).String())
}

func TestWeekdayAndDayOfYear(t *testing.T) {
	assert.Equal(t, 4, FromYMD(1970, 1, 1).Weekday()) // Thursday
	assert.Equal(t, 1, FromYMD(2024, 1, 1).Weekday()) // Monday
	assert.Equal(t, 7, FromYMD(2023, 12, 31).Weekday())
	assert.Equal(t, 3, FromYMD(1969, 12, 31).Weekday())
	assert.Equal(t, 366, FromYMD(2024, 12, 31).DayOfYear())
	assert.Equal(t, 60, FromYMD(2023, 3, 1).DayOfYear())
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 6, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = Parse("2025-13-01")
	assert.Error(t, err)
	_, err = Parse("not a date")
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	a := MustParse("2025-01-01")
	b := MustParse("2025-01-02")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(FromEpochDay(a.EpochDay())))
	assert.True(t, a.Equal(FromYMD(2025, 1, 1)))
	assert.Equal(t, -1, b.DaysUntil(a))
}

func TestTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2030-07-04")))
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2030-07-04", string(text))
}
