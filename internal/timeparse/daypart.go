package timeparse

import (
	"regexp"
	"time"
)

var dayParts = []struct {
	phrases []string
	hour    int
}{
	{[]string{"после обеда", "after lunch"}, 14},
	{[]string{"в обед", "at lunch"}, 13},
	{[]string{"в полдень", "at noon"}, 12},
	{[]string{"утром", "in the morning"}, 9},
	{[]string{"днём", "днем", "in the afternoon"}, 15},
	{[]string{"вечером", "in the evening", "tonight"}, 19},
	{[]string{"ночью", "at night"}, 22},
}

var clockPattern = regexp.MustCompile(`\d{1,2}[:.]\d{2}|\d{1,2}\s*(?:am|pm|час)|в\s+\d{1,2}`)

// dayPart resolves vague day parts ("после обеда") to a fixed hour. Anything
// carrying an explicit clock time is left to the general parser.
func dayPart(lower string, localNow time.Time) (time.Time, bool) {
	if clockPattern.MatchString(lower) {
		return time.Time{}, false
	}
	hour := -1
	for _, dp := range dayParts {
		for _, p := range dp.phrases {
			if containsWord(lower, p) {
				hour = dp.hour
				break
			}
		}
		if hour >= 0 {
			break
		}
	}
	if hour < 0 {
		return time.Time{}, false
	}

	offset := 0
	switch {
	case containsWord(lower, "послезавтра"), containsWord(lower, "day after tomorrow"):
		offset = 2
	case containsWord(lower, "завтра"), containsWord(lower, "tomorrow"):
		offset = 1
	}
	y, m, d := localNow.Date()
	t := time.Date(y, m, d+offset, hour, 0, 0, 0, localNow.Location())
	if offset == 0 && !t.After(localNow) && !mentionsToday(lower) {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}
