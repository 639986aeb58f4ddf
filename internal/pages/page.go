package pages

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/brogergvhs/skillquiz/internal/providers"
)

var ErrInvalidURL = errors.New("invalid quiz page url")

var reUnderscore = regexp.MustCompile(`_+`)

type Page struct {
	providers.QuizPage
}

func New(pageURL string) Page {
	return Page{QuizPage: providers.QuizPage{URL: pageURL}}
}

// ValidateURL accepts absolute http(s) URLs whose path names a .md file.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q is not an http(s) url", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".md") {
		return fmt.Errorf("%w: %q does not point to a .md file", ErrInvalidURL, raw)
	}
	return nil
}

func sanitize(s string) string {
	s = strings.ToLower(s)

	repl := []string{
		"•", "_",
		"-", "_",
		"—", "_",
		"–", "_",
		"/", "_",
		"\\", "_",
		".", "_",
		" ", "_",
		"(", "",
		")", "",
	}
	for i := 0; i < len(repl); i += 2 {
		s = strings.ReplaceAll(s, repl[i], repl[i+1])
	}

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			clean = append(clean, r)
		}
	}
	s = reUnderscore.ReplaceAllString(string(clean), "_")

	return strings.Trim(s, "_")
}

// baseName is the last path segment of the page URL without ".md".
// Pages without a usable segment fall back to their sanitized label
// or title.
func (p Page) baseName() string {
	if u, err := url.Parse(p.URL); err == nil {
		seg := path.Base(u.Path)
		seg = strings.TrimSuffix(seg, path.Ext(seg))
		if seg != "" && seg != "." && seg != "/" {
			return seg
		}
	}

	if lbl := sanitize(p.Label); lbl != "" {
		return lbl
	}
	if title := sanitize(p.Title); title != "" {
		return title
	}
	return "quiz"
}

func (p Page) OutputName(ext string) string {
	return p.baseName() + "-data." + strings.TrimPrefix(ext, ".")
}

func (p Page) OutputPath(out, ext string) string {
	return filepath.Join(out, p.OutputName(ext))
}

// DisplayName is what progress lines and logs show for the page.
func (p Page) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.baseName()
}
