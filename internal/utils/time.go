package util

import (
	"time"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// StartOfDay truncates t to midnight UTC. All burndown and workload rows
// key on days normalized this way so that repeated writes within one day
// hit the same row.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return StartOfDay(time.Now())
}

func ToDate(t time.Time) datatypes.Date {
	return datatypes.Date(StartOfDay(t))
}

func FromDate(d datatypes.Date) time.Time {
	return StartOfDay(time.Time(d))
}

func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return StartOfDay(t).Format(dateLayout)
}
