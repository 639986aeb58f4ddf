package providers

import (
	"context"
	"errors"

	"github.com/brogergvhs/skillquiz/internal/dom"
)

// DefaultContainerSelector locates the rendered markdown body of a
// GitHub blob page.
const DefaultContainerSelector = "section > div > article"

var ErrNoContainer = errors.New("quiz container not found")

// QuizPage is one quiz markdown document discovered on an index page.
type QuizPage struct {
	URL   string
	Title string
	Label string
}

// Source yields the container element of a quiz page.
type Source interface {
	Container(ctx context.Context, pageURL string) (dom.Node, error)
}

// Indexer discovers quiz pages linked from an index page.
type Indexer interface {
	ListQuizzes(ctx context.Context, indexURL string) ([]QuizPage, error)
}
