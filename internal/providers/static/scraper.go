package static

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/skillquiz/internal/dom"
	"github.com/brogergvhs/skillquiz/internal/providers"
	"github.com/brogergvhs/skillquiz/internal/util"
)

type Scraper struct {
	client    *http.Client
	container string
	log       interface{ Debugf(string, ...any) }
}

func NewScraper(c *http.Client, containerSelector string, log interface{ Debugf(string, ...any) }) *Scraper {
	if containerSelector == "" {
		containerSelector = providers.DefaultContainerSelector
	}

	return &Scraper{
		client:    c,
		container: containerSelector,
		log:       log,
	}
}

var skipDocs = map[string]bool{
	"readme.md":          true,
	"contributing.md":    true,
	"license.md":         true,
	"code_of_conduct.md": true,
	"changelog.md":       true,
}

func (s *Scraper) fetchDOM(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := util.DoWithRetry(s.client, req, 3, 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", target, resp.StatusCode)
	}

	return dom.Parse(resp.Body)
}

func (s *Scraper) Container(ctx context.Context, pageURL string) (dom.Node, error) {
	doc, err := s.fetchDOM(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	n, ok := dom.Select(doc, s.container)
	if !ok {
		return nil, fmt.Errorf("%s: %w (selector %q)", pageURL, providers.ErrNoContainer, s.container)
	}

	if s.log != nil {
		s.log.Debugf("Container %q found on %s with %d blocks\n", s.container, pageURL, len(n.Children()))
	}

	return n, nil
}

func looksLikeQuizLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}

	base := strings.ToLower(path.Base(u.Path))
	if !strings.HasSuffix(base, ".md") {
		return false
	}

	return !skipDocs[base]
}

func resolveURL(baseURL, href string) string {
	if href == "" {
		return baseURL
	}

	u, err := url.Parse(href)
	if err == nil && u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(baseURL)
	if err != nil || u == nil {
		return href
	}

	return b.ResolveReference(u).String()
}

func labelFor(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return strings.TrimSuffix(path.Base(pageURL), ".md")
	}

	return strings.TrimSuffix(path.Base(u.Path), ".md")
}

// ListQuizzes returns the markdown documents linked from indexURL in
// document order, each URL once.
func (s *Scraper) ListQuizzes(ctx context.Context, indexURL string) ([]providers.QuizPage, error) {
	doc, err := s.fetchDOM(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	var out []providers.QuizPage
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !looksLikeQuizLink(href) {
			return
		}

		u := resolveURL(indexURL, href)
		u = strings.SplitN(u, "#", 2)[0]
		if seen[u] {
			return
		}
		seen[u] = true

		label := labelFor(u)
		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = label
		}

		out = append(out, providers.QuizPage{
			URL:   u,
			Title: title,
			Label: label,
		})
	})

	if s.log != nil {
		s.log.Debugf("Index %s: %d quiz links\n", indexURL, len(out))
	}

	return out, nil
}

var (
	_ providers.Source  = (*Scraper)(nil)
	_ providers.Indexer = (*Scraper)(nil)
)
