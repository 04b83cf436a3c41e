package shared

import "time"

// BusinessLocation is the civil calendar every ledger date is taken in (UTC+5:30).
var BusinessLocation = time.FixedZone("IST", 5*60*60+30*60)

// DateLayout is the wire format for civil dates.
const DateLayout = "2006-01-02"

// Clock abstracts the wall clock so ledger code can be driven from tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns the process wall clock.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// CivilDate drops the time of day, keeping the calendar date as read in t's own
// location. The result is midnight UTC, the representation used for DATE columns.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date in the business calendar.
func Today(c Clock) time.Time {
	return CivilDate(c.Now().In(BusinessLocation))
}

// AddDays shifts a civil date by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return CivilDate(date).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(t), nil
}
