package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brogergvhs/skillquiz/internal/dom"
)

// ErrMissingElement marks input that breaks the expected markup shape.
var ErrMissingElement = errors.New("missing required element")

const (
	headingSelector  = "h1, h2, h3, h4, h5, h6"
	preSelector      = "pre"
	itemSelector     = "li"
	checkboxSelector = "input"
	checkedAttr      = "checked"
)

// accumulator is the state threaded through the fold over siblings.
// cursor is -1 until the first heading is seen.
type accumulator struct {
	records []Question
	cursor  int
}

func (a accumulator) current() (*Question, bool) {
	if a.cursor < 0 || a.cursor >= len(a.records) {
		return nil, false
	}

	return &a.records[a.cursor], true
}

// Extract groups the direct children of container into questions and
// drops those with fewer than two options. A missing pre, checklist item
// or checkbox fails the whole call.
func Extract(container dom.Node) ([]Question, error) {
	acc := accumulator{cursor: -1}

	for i, child := range container.Children() {
		next, err := step(acc, child)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		acc = next
	}

	return Filter(acc.records), nil
}

func step(acc accumulator, n dom.Node) (accumulator, error) {
	switch Classify(n) {
	case KindHeading:
		text, err := headingText(n)
		if err != nil {
			return acc, err
		}
		acc.records = append(acc.records, newQuestion(text))
		acc.cursor = len(acc.records) - 1

	case KindDescription:
		text, err := descriptionText(n)
		if err != nil {
			return acc, err
		}
		if q, ok := acc.current(); ok {
			q.Description = text
		}

	case KindChecklist:
		options, answer, err := checklist(n)
		if err != nil {
			return acc, err
		}
		if q, ok := acc.current(); ok {
			q.Options = options
			q.Answer = []int{answer}
		}
	}

	return acc, nil
}

// headingText is "" when the wrapper holds no heading element. Failing to
// render a heading that is present is an error.
func headingText(n dom.Node) (string, error) {
	h, ok := n.Find(headingSelector)
	if !ok {
		return "", nil
	}

	markup, err := h.HTML()
	if err != nil {
		return "", fmt.Errorf("heading markup: %w", err)
	}

	return QuestionText(markup), nil
}

func descriptionText(n dom.Node) (string, error) {
	pre, ok := n.Find(preSelector)
	if !ok {
		return "", fmt.Errorf("description block: %w: <%s>", ErrMissingElement, preSelector)
	}

	return pre.Text(), nil
}

func checklist(n dom.Node) ([]Option, int, error) {
	items := n.FindAll(itemSelector)
	options := make([]Option, 0, len(items))
	answer := 0

	for i, item := range items {
		box, ok := item.Find(checkboxSelector)
		if !ok {
			return nil, 0, fmt.Errorf("checklist item %d: %w: <%s>", i, ErrMissingElement, checkboxSelector)
		}

		if _, checked := box.Attr(checkedAttr); checked {
			answer = i
		}

		options = append(options, Option{Value: strings.TrimSpace(item.Text())})
	}

	return options, answer, nil
}

// Filter keeps complete questions in their original order.
func Filter(qs []Question) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.Complete() {
			out = append(out, q)
		}
	}

	return out
}
