// Package harvester runs the extractor over many quiz pages with a bounded
// worker pool and writes one export file per page.
package harvester

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brogergvhs/skillquiz/internal/dom"
	"github.com/brogergvhs/skillquiz/internal/export"
	"github.com/brogergvhs/skillquiz/internal/pages"
	"github.com/brogergvhs/skillquiz/internal/providers"
	"github.com/brogergvhs/skillquiz/internal/quiz"
	"github.com/brogergvhs/skillquiz/internal/ui"
)

type Options struct {
	// OutputDir receives one file per page. Empty keeps results in memory
	// only, which is what --stdout and --dry-run use.
	OutputDir  string
	Format     export.Format
	Workers    int
	SkipBroken bool

	// Attempts bounds how often a page's container is requested before the
	// page counts as failed. Values below 1 mean a single attempt.
	Attempts int
	Backoff  time.Duration
}

type Harvester struct {
	source providers.Source
	log    *ui.Logger
	stats  *ui.Stats
	opts   Options
}

func New(src providers.Source, log *ui.Logger, stats *ui.Stats, opts Options) *Harvester {
	if opts.Format == "" {
		opts.Format = export.NDJSON
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if stats == nil {
		stats = &ui.Stats{}
	}

	return &Harvester{
		source: src,
		log:    log,
		stats:  stats,
		opts:   opts,
	}
}

// Result is the outcome for one page. Results are returned in the order
// the pages were given, whatever order the workers finished in.
type Result struct {
	Page      pages.Page
	Questions []quiz.Question
	Path      string
	Bytes     int64
	Err       error
}

func (h *Harvester) Run(ctx context.Context, ps []pages.Page, ph *ui.ProgressHandle) ([]Result, error) {
	total := len(ps)
	results := make([]Result, total)

	workers := h.opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total && total > 0 {
		workers = total
	}

	if ph != nil {
		ph.SetTotal(total)
	}

	var mu sync.Mutex
	failed := 0

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			res := h.harvest(ctx, ps[i])
			results[i] = res

			h.stats.TotalPages.Add(1)
			if res.Err != nil {
				h.stats.FailedPages.Add(1)
				mu.Lock()
				failed++
				mu.Unlock()
			} else {
				h.stats.TotalQuestions.Add(int64(len(res.Questions)))
				h.stats.TotalBytes.Add(res.Bytes)
			}

			if ph != nil {
				ph.PageDone(len(res.Questions), res.Err != nil)
			}
		}
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go worker()
	}

	abort := func() ([]Result, error) {
		close(jobs)
		wg.Wait()
		if ph != nil {
			ph.MarkDone()
		}
		return results, ctx.Err()
	}

	for i := range ps {
		if ctx.Err() != nil {
			return abort()
		}

		select {
		case <-ctx.Done():
			return abort()
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	if ph != nil {
		ph.MarkDone()
	}

	if failed > 0 && !h.opts.SkipBroken {
		return results, fmt.Errorf("failed %d/%d pages (use --skip-broken to continue)", failed, total)
	}

	return results, nil
}

func (h *Harvester) harvest(ctx context.Context, p pages.Page) Result {
	res := Result{Page: p}
	log := h.log.With("page", p.DisplayName())

	container, err := h.containerWithRetry(ctx, p.URL)
	if err != nil {
		log.Errorf("Fetch failed: %v", err)
		res.Err = err
		return res
	}
	log.DumpMarkdown("CONTAINER", container)

	qs, err := quiz.Extract(container)
	if err != nil {
		log.Errorf("Extract failed: %v", err)
		res.Err = fmt.Errorf("%s: %w", p.URL, err)
		return res
	}
	res.Questions = qs
	log.Debugf("Extracted %d questions", len(qs))

	if h.opts.OutputDir == "" {
		return res
	}

	path := p.OutputPath(h.opts.OutputDir, h.opts.Format.Ext())
	n, err := export.WriteFile(path, h.opts.Format, qs)
	if err != nil {
		log.Errorf("Write failed: %v", err)
		res.Err = err
		return res
	}
	res.Path = path
	res.Bytes = n

	return res
}

func (h *Harvester) containerWithRetry(ctx context.Context, pageURL string) (dom.Node, error) {
	var err error
	for attempt := 1; attempt <= h.opts.Attempts; attempt++ {
		var n dom.Node
		n, err = h.source.Container(ctx, pageURL)
		if err == nil {
			return n, nil
		}
		if errors.Is(err, providers.ErrNoContainer) || ctx.Err() != nil || attempt == h.opts.Attempts {
			break
		}

		h.log.Debugf("Attempt %d for %s failed: %v", attempt, pageURL, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * h.opts.Backoff):
		}
	}

	return nil, err
}
