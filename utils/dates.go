package utils

import (
	"math"
	"time"
)

// DayStart truncates t to local midnight. Ledger and archive rows are
// keyed by this value.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats a day the way the API exposes it.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDayKey parses a YYYY-MM-DD string into a local-midnight time.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return DayStart(t), nil
}

func Round1(v float64) float64 { return math.Round(v*10) / 10 }
