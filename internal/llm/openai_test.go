package llm

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestOpenAIToolChoice(t *testing.T) {
	choice := openAIToolChoice("add_note")
	gt.Value(t, choice.OfFunctionToolChoice).NotNil().Required()
	gt.Value(t, choice.OfFunctionToolChoice.Function.Name).Equal("add_note")
}
