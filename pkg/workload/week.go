package workload

import "time"

// WeekOfYear returns the ISO-8601 week number (1-53) of the week containing
// the given date. The input is reduced to a plain date in UTC first, so the
// result does not depend on the time of day or the zone of t.
//
// The week is identified by its Thursday: the date is shifted to the Thursday
// of its own Monday-based week, and the week number is counted from January 1
// of that Thursday's year. Dates in late December or early January can
// therefore land in week 1 of the next year or week 52/53 of the previous one.
func WeekOfYear(t time.Time) int {
	thursday := isoThursday(t)

	jan1 := time.Date(thursday.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	daysSinceJan1 := int(thursday.Sub(jan1).Hours()) / 24

	// ceil((daysSinceJan1 + 1) / 7)
	return (daysSinceJan1 + 7) / 7
}

// ISOYear returns the year that owns the ISO week containing the given date.
// It differs from t.Year() for the first days of January belonging to the
// previous year's last week, and the last days of December belonging to the
// next year's week 1.
func ISOYear(t time.Time) int {
	return isoThursday(t).Year()
}

// isoThursday shifts a date to the Thursday of its Monday-based week.
func isoThursday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	isoDay := int(day.Weekday())
	if isoDay == 0 {
		isoDay = 7 // Sunday
	}
	return day.AddDate(0, 0, 4-isoDay)
}

// WeeksInYear returns how many ISO weeks the given year has: 53 when
// January 1 falls on a Thursday, or on a Wednesday in a leap year, and 52
// otherwise.
func WeeksInYear(year int) int {
	jan1 := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	if jan1.Weekday() == time.Thursday || (isLeapYear(year) && jan1.Weekday() == time.Wednesday) {
		return 53
	}
	return 52
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
