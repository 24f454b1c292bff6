package shared

import (
	"fmt"
	"time"
)

// Period is a reporting window anchored at "now".
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Start returns the beginning of the period containing now, in UTC. Weeks
// start on Monday.
func (p Period) Start(now time.Time) (time.Time, error) {
	now = now.UTC()
	switch p {
	case PeriodDay:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	case PeriodWeek:
		weekday := int(now.Weekday())
		// time.Weekday has Sunday as 0
		if weekday == 0 {
			weekday = 7
		}
		day := now.AddDate(0, 0, -(weekday - 1))
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC), nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unknown period %q", p)
}
