package intent

import (
	"strings"
	"unicode"
)

// ExtractNoteBody returns the text after the longest note verb found in
// text, with leading punctuation and a leading pronoun removed. It returns
// "" when nothing follows the verb.
func ExtractNoteBody(text string, lex *Lexicon) string {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)
	// Offsets only line up when lowering kept byte lengths.
	src := raw
	if len(lower) != len(raw) {
		src = lower
	}

	at, verb := -1, ""
	for _, v := range lex.NoteVerbs {
		if len(v) <= len(verb) {
			continue
		}
		if i := indexPhrase(lower, v); i >= 0 {
			at, verb = i, v
		}
	}
	if at < 0 {
		return ""
	}

	body := strings.TrimLeftFunc(src[at+len(verb):], func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ':' || r == '-'
	})
	for _, p := range lex.Pronouns {
		if strings.HasPrefix(strings.ToLower(body), p+" ") {
			body = strings.TrimSpace(body[len(p):])
			break
		}
	}
	body = strings.TrimSpace(strings.TrimRight(body, " .!"))
	if isPronoun(body, lex) {
		return ""
	}
	return body
}

// SplitNotes splits a note body into items on conjunctions, or on commas
// when no conjunction is present. It is best effort: a conjunction inside one
// item ("хлеб и масло") splits that item too. Items that are only a pronoun
// are dropped.
func SplitNotes(body string, lex *Lexicon) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	var parts []string
	lower := strings.ToLower(body)
	split := false
	for _, c := range lex.Conjunctions {
		sep := " " + c + " "
		if strings.Contains(lower, sep) {
			parts = splitFold(body, sep)
			split = true
			break
		}
	}
	if !split {
		parts = strings.Split(body, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), ",.")
		p = strings.TrimSpace(p)
		if p == "" || isPronoun(p, lex) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isPronoun(s string, lex *Lexicon) bool {
	s = strings.ToLower(s)
	for _, p := range lex.Pronouns {
		if s == p {
			return true
		}
	}
	return false
}

// splitFold splits s on sep ignoring case, keeping the original casing of
// the parts.
func splitFold(s, sep string) []string {
	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return strings.Split(lower, sep)
	}
	var out []string
	for {
		i := strings.Index(lower, sep)
		if i < 0 {
			return append(out, s)
		}
		out = append(out, s[:i])
		s, lower = s[i+len(sep):], lower[i+len(sep):]
	}
}
