package quiz

import "strings"

const TypeSingleChoice = "single_choice"

type Option struct {
	Value string `json:"value"`
}

// Question is one extracted multiple-choice record.
type Question struct {
	Question    string   `json:"question"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Options     []Option `json:"options"`
	Answer      []int    `json:"answer"`
}

func newQuestion(text string) Question {
	return Question{
		Question:    text,
		Type:        TypeSingleChoice,
		Description: "",
		Options:     []Option{},
		Answer:      []int{0},
	}
}

// QuestionText drops the numeric prefix of a heading ("Q1. What is X?")
// by taking the segment after the first '.', trimmed. Markup without a
// '.' yields "". Further periods cut the text short.
func QuestionText(markup string) string {
	parts := strings.Split(markup, ".")
	if len(parts) < 2 {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// Complete reports whether q can be kept: at least two options and
// exactly one answer index that points into them.
func (q Question) Complete() bool {
	if len(q.Options) < 2 || len(q.Answer) != 1 {
		return false
	}

	return q.Answer[0] >= 0 && q.Answer[0] < len(q.Options)
}
