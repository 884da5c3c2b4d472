package db

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// timeLayout matches SQLite's datetime() output so stored instants compare
// lexically with datetime('now').
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "parsing stored time", goerr.V("value", s))
	}
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
