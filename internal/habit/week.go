package habit

import "time"

// WeekKeyLayout is the date layout used for week keys.
const WeekKeyLayout = "2006-01-02"

// WeekStart returns midnight of the Sunday that starts the week containing t,
// in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// WeekKey returns the canonical identifier of the Sunday-to-Saturday week
// containing t. Dates in the same week share a key.
func WeekKey(t time.Time) string {
	return WeekStart(t).Format(WeekKeyLayout)
}

// WeekRange returns a display label such as "Oct 18 - Oct 24".
func WeekRange(t time.Time) string {
	start := WeekStart(t)
	end := start.AddDate(0, 0, DaysPerWeek-1)
	return start.Format("Jan 02") + " - " + end.Format("Jan 02")
}

// IsCurrentWeek reports whether t falls in the same week as now.
func IsCurrentWeek(t, now time.Time) bool {
	return WeekKey(t.In(now.Location())) == WeekKey(now)
}
