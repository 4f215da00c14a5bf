package workload

import (
	"time"

	util "github.com/vellumworks/planner-lambda/internal/utils"
)

func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WorkingDays returns the Mon-Fri days in [start, end], inclusive,
// truncated to midnight UTC. Weekend days are skipped entirely, never
// zeroed.
func WorkingDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := util.StartOfDay(start); !d.After(util.StartOfDay(end)); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}
