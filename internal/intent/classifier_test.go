package intent

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestClassify(t *testing.T) {
	c := New(nil)
	cases := []struct {
		text   string
		kind   Kind
		prompt bool
		body   string
	}{
		{"напомни выпить воды через 10 минут", Reminder, false, ""},
		{"Напомни мне завтра в 15:00 позвонить маме", Reminder, false, ""},
		{"remind me to stretch in 20 minutes", Reminder, false, ""},
		{"напомни про воду", Unclassified, false, ""},
		{"запиши купить молоко", Note, false, "купить молоко"},
		{"Запиши мне: позвонить врачу", Note, false, "позвонить врачу"},
		{"давай просто запиши его проверить почту", Note, false, "проверить почту"},
		{"да не, давай запишем идею для поста", Note, false, "идею для поста"},
		{"запиши", Unclassified, true, ""},
		{"Просто запиши!", Unclassified, true, ""},
		{"just write it down", Unclassified, true, ""},
		{"запиши его", Unclassified, true, ""},
		{"Запиши её.", Unclassified, true, ""},
		{"remember it", Unclassified, true, ""},
		{"как дела?", Unclassified, false, ""},
		{"записки сумасшедшего", Unclassified, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			res := c.Classify(tc.text)
			gt.Value(t, res.Kind).Equal(tc.kind)
			gt.Value(t, res.NeedsPrompt).Equal(tc.prompt)
			gt.Value(t, res.NoteBody).Equal(tc.body)
		})
	}
}

func TestClassifyReminderBeatsNote(t *testing.T) {
	res := New(nil).Classify("запиши и напомни завтра купить хлеб")
	gt.Value(t, res.Kind).Equal(Reminder)
	gt.Value(t, res.Rule).Equal("reminder_verb_with_time")
}

func TestClassifyCustomRules(t *testing.T) {
	c := New(nil).WithRules(Rule{
		Name: "always_note",
		Match: func(m *Message) (Result, bool) {
			return Result{Kind: Note, NoteBody: m.Raw}, true
		},
	})
	res := c.Classify("hello")
	gt.Value(t, res.Kind).Equal(Note)
	gt.Value(t, res.Rule).Equal("always_note")
}

func TestIsCancel(t *testing.T) {
	c := New(nil)
	gt.Bool(t, c.IsCancel("Отмена")).True()
	gt.Bool(t, c.IsCancel("skip.")).True()
	gt.Bool(t, c.IsCancel("отмена встречи")).False()
}

func TestHasTimeIndicator(t *testing.T) {
	lex := DefaultLexicon()
	for _, s := range []string{"в 9 утра", "at 5 pm", "через час", "в 14:30", "tomorrow", "in 5 minutes"} {
		gt.Bool(t, HasTimeIndicator(s, lex)).True()
	}
	for _, s := range []string{"про воду", "вчера было", "in general"} {
		gt.Bool(t, HasTimeIndicator(s, lex)).False()
	}
}

func TestIndexPhrase(t *testing.T) {
	gt.Value(t, indexPhrase("запиши это", "запиши")).Equal(0)
	gt.Value(t, indexPhrase("перезапиши это", "запиши")).Equal(-1)
	gt.Value(t, indexPhrase("ok, remind me", "remind me")).Equal(4)
}
