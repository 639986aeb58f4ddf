package quiz

import (
	"strings"

	"github.com/brogergvhs/skillquiz/internal/dom"
)

const (
	HeadingClass     = "markdown-heading"
	DescriptionClass = "highlight"
	ChecklistClass   = "contains-task-list"
)

type Kind int

const (
	KindIgnored Kind = iota
	KindHeading
	KindDescription
	KindChecklist
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindDescription:
		return "description"
	case KindChecklist:
		return "checklist"
	default:
		return "ignored"
	}
}

// Classify maps a sibling block to its role by class attribute. The
// heading marker must match exactly; the other two match as substrings
// so decorated variants ("highlight highlight-source-js") still count.
func Classify(n dom.Node) Kind {
	class, ok := n.Attr("class")
	if !ok {
		return KindIgnored
	}

	return classifyClass(class)
}

func classifyClass(class string) Kind {
	switch {
	case class == HeadingClass:
		return KindHeading
	case strings.Contains(class, DescriptionClass):
		return KindDescription
	case strings.Contains(class, ChecklistClass):
		return KindChecklist
	default:
		return KindIgnored
	}
}
