// Package intent classifies user messages as note, reminder or neither
// using phrase heuristics, so the common cases never need a model round trip
// to decide which action to force.
package intent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	Unclassified Kind = iota
	Note
	Reminder
)

func (k Kind) String() string {
	switch k {
	case Note:
		return "note"
	case Reminder:
		return "reminder"
	default:
		return "unclassified"
	}
}

// Result is the outcome of classification. NeedsPrompt marks a bare trigger
// ("запиши" alone): the caller must ask what to record and save nothing.
type Result struct {
	Kind        Kind
	NeedsPrompt bool
	NoteBody    string
	Rule        string
}

// Rule is one predicate in the pipeline. Rules are tried in order and the
// first match wins.
type Rule struct {
	Name  string
	Match func(m *Message) (Result, bool)
}

// Message is the normalized view of an utterance shared by all rules.
type Message struct {
	Raw   string
	Lower string
	lex   *Lexicon
}

type Classifier struct {
	lex   *Lexicon
	rules []Rule
}

func New(lex *Lexicon) *Classifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Classifier{lex: lex, rules: DefaultRules()}
}

// WithRules replaces the rule pipeline.
func (c *Classifier) WithRules(rules ...Rule) *Classifier {
	c.rules = rules
	return c
}

func (c *Classifier) Lexicon() *Lexicon { return c.lex }

func (c *Classifier) Classify(text string) Result {
	m := c.message(text)
	if m.Lower == "" {
		return Result{Kind: Unclassified, Rule: "empty"}
	}
	for _, r := range c.rules {
		if res, ok := r.Match(m); ok {
			res.Rule = r.Name
			return res
		}
	}
	return Result{Kind: Unclassified, Rule: "fallthrough"}
}

// IsCancel reports whether the whole message is a cancel/skip word.
func (c *Classifier) IsCancel(text string) bool {
	t := trimPunct(strings.ToLower(text))
	for _, w := range c.lex.CancelWords {
		if t == w {
			return true
		}
	}
	return false
}

func (c *Classifier) message(text string) *Message {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)
	for _, f := range c.lex.LeadingFillers {
		if strings.HasPrefix(lower, f+" ") && len(lower) == len(raw) {
			raw = strings.TrimSpace(raw[len(f):])
			lower = strings.TrimSpace(lower[len(f):])
		}
	}
	return &Message{Raw: raw, Lower: lower, lex: c.lex}
}

// DefaultRules is bare trigger, then reminder, then note. Reminder runs
// before note so a message carrying both signals becomes a reminder.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "bare_trigger", Match: matchBareTrigger},
		{Name: "reminder_verb_with_time", Match: matchReminder},
		{Name: "note_verb", Match: matchNote},
	}
}

func matchBareTrigger(m *Message) (Result, bool) {
	t := trimPunct(m.Lower)
	for _, b := range m.lex.BareTriggers {
		if t == b {
			return Result{Kind: Unclassified, NeedsPrompt: true}, true
		}
	}
	return Result{}, false
}

func matchReminder(m *Message) (Result, bool) {
	if !containsAny(m.Lower, m.lex.ReminderVerbs) {
		return Result{}, false
	}
	if !HasTimeIndicator(m.Lower, m.lex) {
		return Result{}, false
	}
	return Result{Kind: Reminder}, true
}

func matchNote(m *Message) (Result, bool) {
	if !containsAny(m.Lower, m.lex.NoteVerbs) {
		return Result{}, false
	}
	body := ExtractNoteBody(m.Raw, m.lex)
	if body == "" {
		return Result{Kind: Unclassified, NeedsPrompt: true}, true
	}
	return Result{Kind: Note, NoteBody: body}, true
}

var clockTime = regexp.MustCompile(`\d{1,2}[:.]\d{2}|(?:^|\s)(?:в|at|к)\s+\d{1,2}(?:\s|$)|\d{1,2}\s*(?:am|pm)|(?:^|\s)in\s+(?:\d+|a|an|half)\s`)

// HasTimeIndicator reports whether lower mentions a time: a relative marker,
// a clock reading or a day word.
func HasTimeIndicator(lower string, lex *Lexicon) bool {
	return clockTime.MatchString(lower) || containsAny(lower, lex.TimeIndicators)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if indexPhrase(s, p) >= 0 {
			return true
		}
	}
	return false
}

// indexPhrase returns the byte offset of the first occurrence of phrase in s
// that is delimited by non-letters, or -1.
func indexPhrase(s, phrase string) int {
	for start := 0; start < len(s); {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return -1
		}
		i += start
		if !letterAt(s, i, true) && !letterAt(s, i+len(phrase), false) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		start = i + size
	}
	return -1
}

func letterAt(s string, i int, before bool) bool {
	var r rune
	if before {
		if i == 0 {
			return false
		}
		r, _ = utf8.DecodeLastRuneInString(s[:i])
	} else {
		if i >= len(s) {
			return false
		}
		r, _ = utf8.DecodeRuneInString(s[i:])
	}
	return unicode.IsLetter(r)
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}
