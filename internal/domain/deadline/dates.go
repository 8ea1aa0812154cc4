package deadline

import "time"

// Date arithmetic helpers shared by the rule catalog and the timeline
// calculator.  All helpers are pure; callers supply every time value.

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole days from a to b, comparing dates
// only (floor semantics).  Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// CeilDays converts a duration to days, rounding up, so a partial day still
// counts as a full day out.  Negative durations round toward zero magnitude
// wise, i.e., -36h yields -1.
func CeilDays(d time.Duration) int {
	const day = 24 * time.Hour
	if d <= 0 {
		return int(d / day)
	}
	days := d / day
	if d%day != 0 {
		days++
	}
	return int(days)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped adds months to t preserving the day-of-month, clamping to
// the last day when the target month is shorter.  This differs from
// time.Time.AddDate, which normalizes overflow (Jan 31 + 1 month → Mar 2/3);
// limitation arithmetic requires Feb 28/29 instead.
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	// Anchor on the first of the target month so month overflow normalizes
	// without dragging the day along.
	first := time.Date(y, m, 1, hh, mm, ss, t.Nanosecond(), t.Location()).AddDate(0, months, 0)

	if max := daysInMonth(first.Year(), first.Month()); d > max {
		d = max
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}
