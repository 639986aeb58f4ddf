package ui

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/brogergvhs/skillquiz/internal/dom"
)

// DumpMarkdown logs the container as Markdown in debug mode, which is far
// easier to eyeball against the source .md than raw GitHub markup.
func (l *Logger) DumpMarkdown(label string, n dom.Node) {
	if !l.Debug || n == nil {
		return
	}

	html, err := n.HTML()
	if err != nil {
		l.Debugf("Cannot dump %s: %v", label, err)
		return
	}

	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		l.Debugf("Cannot convert %s to markdown: %v", label, err)
		return
	}

	l.Debugf("======= %s START =======\n%s\n======= %s END =======", label, md, label)
}
