package intent

import (
	_ "embed"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Lexicon holds the phrase lists the classifier matches against.
type Lexicon struct {
	ReminderVerbs  []string `yaml:"reminder_verbs"`
	TimeIndicators []string `yaml:"time_indicators"`
	NoteVerbs      []string `yaml:"note_verbs"`
	BareTriggers   []string `yaml:"bare_triggers"`
	CancelWords    []string `yaml:"cancel_words"`
	Pronouns       []string `yaml:"pronouns"`
	LeadingFillers []string `yaml:"leading_fillers"`
	Conjunctions   []string `yaml:"conjunctions"`
}

// DefaultLexicon returns the built-in Russian and English phrase lists.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexicon)
	if err != nil {
		panic(err)
	}
	return lex
}

func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, goerr.Wrap(err, "failed to parse lexicon")
	}
	lex.normalize()
	if len(lex.NoteVerbs) == 0 || len(lex.ReminderVerbs) == 0 {
		return nil, goerr.New("lexicon needs note_verbs and reminder_verbs")
	}
	return &lex, nil
}

// LoadLexicon reads a lexicon file, falling back to the built-in one when
// path is empty.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read lexicon", goerr.V("path", path))
	}
	return ParseLexicon(data)
}

func (l *Lexicon) normalize() {
	for _, list := range []*[]string{
		&l.ReminderVerbs, &l.TimeIndicators, &l.NoteVerbs, &l.BareTriggers,
		&l.CancelWords, &l.Pronouns, &l.LeadingFillers, &l.Conjunctions,
	} {
		out := (*list)[:0]
		for _, p := range *list {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				out = append(out, p)
			}
		}
		*list = out
	}
}
