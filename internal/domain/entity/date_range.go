package entity

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the News API and the CLI.
const DateLayout = "2006-01-02"

// DateRange is an inclusive window of calendar days in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses two dates in DateLayout. End before Start is rejected.
func NewDateRange(from, to string) (DateRange, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "from", Message: fmt.Sprintf("invalid date %q", from)}
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "to", Message: fmt.Sprintf("invalid date %q", to)}
	}
	if end.Before(start) {
		return DateRange{}, &ValidationError{Field: "to", Message: fmt.Sprintf("end date %s is before start date %s", to, from)}
	}
	return DateRange{Start: start, End: end}, nil
}

// LastDays returns the window of n full days ending the day before now.
func LastDays(now time.Time, n int) DateRange {
	if n < 1 {
		n = 1
	}
	today := truncateDay(now)
	return DateRange{
		Start: today.AddDate(0, 0, -n),
		End:   today.AddDate(0, 0, -1),
	}
}

// Days returns every calendar day of the window in ascending order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := truncateDay(r.Start); !d.After(truncateDay(r.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String formats the window as "start..end".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
