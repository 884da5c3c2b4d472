package intent

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestSplitNotes(t *testing.T) {
	lex := DefaultLexicon()
	cases := []struct {
		body string
		want []string
	}{
		{"купить молоко", []string{"купить молоко"}},
		{"купить молоко и позвонить маме", []string{"купить молоко", "позвонить маме"}},
		{"buy milk and call mom", []string{"buy milk", "call mom"}},
		{"хлеб, сыр, яйца", []string{"хлеб", "сыр", "яйца"}},
		{"его и сделать отчёт", []string{"сделать отчёт"}},
		{"", nil},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			gt.Value(t, SplitNotes(tc.body, lex)).Equal(tc.want)
		})
	}
}

func TestExtractNoteBodyPrefersLongestVerb(t *testing.T) {
	lex := DefaultLexicon()
	gt.Value(t, ExtractNoteBody("давай просто запиши сделать работу", lex)).Equal("сделать работу")
	gt.Value(t, ExtractNoteBody("запиши заметку: идея", lex)).Equal("идея")
	gt.Value(t, ExtractNoteBody("запиши", lex)).Equal("")
}

func TestExtractNoteBodyPronounOnly(t *testing.T) {
	lex := DefaultLexicon()
	gt.Value(t, ExtractNoteBody("запиши его", lex)).Equal("")
	gt.Value(t, ExtractNoteBody("сохрани её!", lex)).Equal("")
	gt.Value(t, ExtractNoteBody("запиши его номер", lex)).Equal("номер")
}

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon([]byte("note_verbs: [\" Save \"]\nreminder_verbs: [ping]\n"))
	gt.NoError(t, err).Required()
	gt.Value(t, lex.NoteVerbs).Equal([]string{"save"})

	_, err = ParseLexicon([]byte("note_verbs: []\n"))
	gt.Value(t, err).NotNil()
}
