package workload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want int
	}{
		{
			name: "first Monday of 2024 is week 1",
			day:  date(2024, time.January, 1),
			want: 1,
		},
		{
			name: "Sunday closing week 1 of 2024",
			day:  date(2024, time.January, 7),
			want: 1,
		},
		{
			name: "Monday opening week 2 of 2024",
			day:  date(2024, time.January, 8),
			want: 2,
		},
		{
			name: "mid-year date in 2024",
			day:  date(2024, time.July, 10),
			want: 28,
		},
		{
			name: "last Sunday of 2024 is week 52",
			day:  date(2024, time.December, 29),
			want: 52,
		},
		{
			name: "2024-12-30 belongs to week 1 of 2025",
			day:  date(2024, time.December, 30),
			want: 1,
		},
		{
			name: "2024-12-31 belongs to week 1 of 2025",
			day:  date(2024, time.December, 31),
			want: 1,
		},
		{
			name: "2023-01-01 is a Sunday still in week 52 of 2022",
			day:  date(2023, time.January, 1),
			want: 52,
		},
		{
			name: "2023-01-02 opens week 1 of 2023",
			day:  date(2023, time.January, 2),
			want: 1,
		},
		{
			name: "2021-01-01 is a Friday in week 53 of 2020",
			day:  date(2021, time.January, 1),
			want: 53,
		},
		{
			name: "2015-12-31 is a Thursday in week 53",
			day:  date(2015, time.December, 31),
			want: 53,
		},
		{
			name: "time of day does not matter",
			day:  time.Date(2024, time.January, 7, 23, 59, 59, 0, time.UTC),
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekOfYear(tt.day))
		})
	}
}

func TestISOYear(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want int
	}{
		{
			name: "mid-year date keeps its calendar year",
			day:  date(2024, time.July, 10),
			want: 2024,
		},
		{
			name: "2024-12-30 belongs to ISO year 2025",
			day:  date(2024, time.December, 30),
			want: 2025,
		},
		{
			name: "2023-01-01 belongs to ISO year 2022",
			day:  date(2023, time.January, 1),
			want: 2022,
		},
		{
			name: "2021-01-01 belongs to ISO year 2020",
			day:  date(2021, time.January, 1),
			want: 2020,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ISOYear(tt.day))
		})
	}
}

func TestWeeksInYear(t *testing.T) {
	tests := []struct {
		name string
		year int
		want int
	}{
		{name: "2015 starts on a Thursday", year: 2015, want: 53},
		{name: "2020 is a leap year starting on Wednesday", year: 2020, want: 53},
		{name: "2021 starts on a Friday", year: 2021, want: 52},
		{name: "2023 starts on a Sunday", year: 2023, want: 52},
		{name: "2024 is a leap year starting on Monday", year: 2024, want: 52},
		{name: "2026 starts on a Thursday", year: 2026, want: 53},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeeksInYear(tt.year))
		})
	}
}

// December 28 is always inside the last ISO week of its year, so WeekOfYear
// of that date must equal WeeksInYear. Cross-check the two over a long range.
func TestWeeksInYearMatchesWeekOfYear(t *testing.T) {
	for year := 1990; year <= 2040; year++ {
		lastWeek := WeekOfYear(date(year, time.December, 28))
		assert.Equalf(t, lastWeek, WeeksInYear(year), "year %d", year)
	}
}

// The Jan 1 rule is equivalent to: 53 weeks iff Dec 31 falls on a Thursday,
// or on a Friday in a leap year.
func TestWeeksInYearDec31Formulation(t *testing.T) {
	for year := 1990; year <= 2040; year++ {
		dec31 := date(year, time.December, 31)
		leap := date(year, time.February, 29).Day() == 29
		long := dec31.Weekday() == time.Thursday || (leap && dec31.Weekday() == time.Friday)

		want := 52
		if long {
			want = 53
		}
		assert.Equalf(t, want, WeeksInYear(year), "year %d", year)
	}
}
