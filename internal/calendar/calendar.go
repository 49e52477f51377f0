// Package calendar provides the pure date arithmetic behind the booking
// wizard's month grid: cell layout, today/past predicates, and the month
// cursor used for navigation.
package calendar

import "time"

// YearMonth identifies a calendar month independent of any selected day.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// YearMonthOf returns the YearMonth containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Current returns the YearMonth of the local wall clock.
func Current() YearMonth {
	return YearMonthOf(time.Now())
}

// Add shifts the month by delta, normalizing across year boundaries.
// Negative deltas move backwards.
func (ym YearMonth) Add(delta int) YearMonth {
	shifted := time.Date(ym.Year, ym.Month+time.Month(delta), 1, 0, 0, 0, 0, time.Local)
	return YearMonthOf(shifted)
}

// First returns midnight local time on the first day of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.Local)
}

// String renders the month as "January 2026" for display and logging.
func (ym YearMonth) String() string {
	return ym.First().Format("January 2006")
}

// MonthDays lays out one cell per entry for a Sunday-first month grid.
// Leading cells are zero time.Time values padding the first week so that
// index%7 is the day-of-week column (0 = Sunday); the remaining entries are
// midnight local dates for each day of the month in ascending order.
func MonthDays(ym YearMonth) []time.Time {
	first := ym.First()
	daysInMonth := time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.Local).Day()
	leading := int(first.Weekday())

	cells := make([]time.Time, 0, leading+daysInMonth)
	for i := 0; i < leading; i++ {
		cells = append(cells, time.Time{})
	}
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.Local))
	}
	return cells
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether date falls on the current local day.
func IsToday(date time.Time) bool {
	return SameDay(date, time.Now())
}

// IsPastDate reports whether date is strictly before the start of the
// current local day. Time-of-day on the input is ignored.
func IsPastDate(date time.Time) bool {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Before(startOfToday)
}
