package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// clockPatterns find a time of day. Groups are hour, minutes, meridiem. A bare
// number only counts after a preposition, with minutes, or with am/pm, so
// "купить 2 хлеба" is not read as a time.
var clockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[^\p{L}\d])(?:в|во|к|at|by)\s+(\d{1,2})(?:[:.](\d{2}))?(?:\s*(?:час(?:а|ов)?|o'clock))?(?:\s*(утра|дня|вечера|ночи|am|pm))?`),
	regexp.MustCompile(`(?:^|[^\p{L}\d])(\d{1,2}):(\d{2})(?:\s*(утра|дня|вечера|ночи|am|pm))?`),
	regexp.MustCompile(`(?:^|[^\p{L}\d])(\d{1,2})(?:\s*(?:час(?:а|ов)?))?\s*(утра|дня|вечера|ночи|am|pm)`),
}

// notClockWords follow a number that counts something other than hours:
// "в 10 минут", "к 5 июня", "at 3 days".
var notClockWords = []string{
	"мин", "сек", "дн", "день", "недел", "мес", "год", "лет", "числ", "раз",
	"январ", "феврал", "март", "апрел", "мая", "май", "июн", "июл", "август", "сентябр", "октябр", "ноябр", "декабр",
	"min", "sec", "day", "week", "month", "year", "time",
	"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

// eveningParts move an unmarked hour below 12 into the afternoon;
// morningParts keep it as is.
var (
	eveningParts = []string{"днём", "днем", "вечером", "ночью", "после обеда", "in the afternoon", "in the evening", "tonight"}
	morningParts = []string{"утром", "in the morning"}
)

// clockOf extracts hour and minute from lower. An hour from 1 to 6 without a
// meridiem or day part is read as afternoon ("в 3 часа" is 15:00).
// "ночью в 2" is also 14:00 under this rule; say "в 2 ночи" for 02:00.
func clockOf(lower string) (hour, minute int, ok bool) {
	for _, re := range clockPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(lower, -1) {
			if followedByDigit(lower, m[1]) || followedByNonClockWord(lower[m[1]:]) {
				continue
			}
			groups := groupsOf(re, lower, m)
			h, err := strconv.Atoi(groups["h"])
			if err != nil {
				continue
			}
			mi := 0
			if groups["m"] != "" {
				if mi, err = strconv.Atoi(groups["m"]); err != nil {
					continue
				}
			}
			h, valid := applyMeridiem(h, groups["mer"], lower)
			if !valid || h > 23 || mi > 59 {
				continue
			}
			return h, mi, true
		}
	}
	return 0, 0, false
}

// groupsOf maps the positional groups of the clock patterns to names; the
// third pattern has no minutes group.
func groupsOf(re *regexp.Regexp, s string, m []int) map[string]string {
	get := func(i int) string {
		if 2*i+1 >= len(m) || m[2*i] < 0 {
			return ""
		}
		return s[m[2*i]:m[2*i+1]]
	}
	if re.NumSubexp() == 2 {
		return map[string]string{"h": get(1), "mer": get(2)}
	}
	return map[string]string{"h": get(1), "m": get(2), "mer": get(3)}
}

func applyMeridiem(h int, mer, lower string) (int, bool) {
	switch mer {
	case "утра", "am":
		if h == 12 {
			return 0, true
		}
		return h, h <= 12
	case "дня", "вечера", "pm":
		if h < 12 {
			return h + 12, true
		}
		return h, h == 12
	case "ночи":
		if h == 12 {
			return 0, true
		}
		if h >= 9 && h < 12 {
			return h + 12, true
		}
		return h, h < 12
	}
	if h < 12 && h > 0 {
		for _, p := range eveningParts {
			if containsWord(lower, p) {
				return h + 12, true
			}
		}
		for _, p := range morningParts {
			if containsWord(lower, p) {
				return h, true
			}
		}
	}
	if h >= 1 && h <= 6 {
		return h + 12, true
	}
	return h, true
}

func followedByDigit(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsDigit(r)
}

func followedByNonClockWord(rest string) bool {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	for _, w := range notClockWords {
		if strings.HasPrefix(rest, w) {
			return true
		}
	}
	return false
}

// dayOffset reads an explicit day word. ok is false when none is present.
func dayOffset(lower string) (offset int, ok bool) {
	switch {
	case containsWord(lower, "послезавтра"), containsWord(lower, "day after tomorrow"):
		return 2, true
	case containsWord(lower, "завтра"), containsWord(lower, "tomorrow"):
		return 1, true
	case mentionsToday(lower), containsWord(lower, "tonight"):
		return 0, true
	}
	return 0, false
}

// atClock combines a clock time with the day. The day comes from an explicit
// day word, else from a date the general parser found, else today. A time
// that already passed today rolls to tomorrow unless the day was explicit.
func (r *Resolver) atClock(lower string, localNow time.Time, loc *time.Location) (time.Time, bool) {
	hour, minute, ok := clockOf(lower)
	if !ok {
		return time.Time{}, false
	}
	day := localNow
	offset, explicit := dayOffset(lower)
	if explicit {
		day = localNow.AddDate(0, 0, offset)
	} else if t, ok := r.parse(lower, localNow, loc); ok && !sameDay(t, localNow) {
		day, explicit = t.In(loc), true
	}
	y, m, d := day.Date()
	t := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !explicit && !t.After(localNow) {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}
