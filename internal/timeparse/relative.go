package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// relativeMarker finds the "in/after" token that introduces a duration.
// English "in" only counts when a quantity follows, so "in the evening"
// stays absolute.
var relativeMarker = regexp.MustCompile(`(?:^|[^\p{L}])(через|спустя|in|after)\s+(?:\d|a\s|an\s|one\s|half|полчаса|полтора|час|минут|секунд|одну|один)`)

// unitPattern matches one "<integer> <unit>" pair at the start of s. Stems
// cover singular and plural forms ("минуту", "минуты", "минут", "minutes").
var unitPattern = regexp.MustCompile(`^\s*(?:(?:и|and|,)\s+)?(\d+|a|an|one|одну|один)?\s*(секунд|сек|минут|мин|час|second|sec|minute|min|hour|hr)\p{L}*`)

// relativeTail reports whether lower contains relative phrasing and returns
// the text following the marker word.
func relativeTail(lower string) (string, bool) {
	loc := relativeMarker.FindStringSubmatchIndex(lower)
	if loc == nil {
		return "", false
	}
	return lower[loc[3]:], true
}

// relativeDuration sums the "<integer> <unit>" pairs at the start of rest.
// A unit without a count means one ("через час").
func relativeDuration(rest string) (time.Duration, bool) {
	rest = strings.TrimSpace(rest)
	switch {
	case strings.HasPrefix(rest, "полчаса"), strings.HasPrefix(rest, "half an hour"), strings.HasPrefix(rest, "half hour"):
		return 30 * time.Minute, true
	case strings.HasPrefix(rest, "полтора час"):
		return 90 * time.Minute, true
	}

	var total time.Duration
	found := false
	for {
		m := unitPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		n := 1
		if m[2] >= 0 {
			if v, err := strconv.Atoi(rest[m[2]:m[3]]); err == nil {
				n = v
			}
		} else if found {
			// A bare unit after the first pair is more likely an unrelated word.
			break
		}
		total += time.Duration(n) * unitOf(rest[m[4]:m[5]])
		found = true
		rest = rest[m[1]:]
	}
	if !found || total <= 0 {
		return 0, false
	}
	return total, true
}

func unitOf(stem string) time.Duration {
	switch {
	case strings.HasPrefix(stem, "сек"), strings.HasPrefix(stem, "sec"):
		return time.Second
	case strings.HasPrefix(stem, "мин"), strings.HasPrefix(stem, "min"):
		return time.Minute
	default:
		return time.Hour
	}
}

// containsWord reports whether phrase occurs in s delimited by non-letters.
func containsWord(s, phrase string) bool {
	for start := 0; start <= len(s); {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if !letterBefore(s, i) && !letterAfter(s, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}
