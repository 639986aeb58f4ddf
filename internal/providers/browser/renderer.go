// Package browser renders quiz pages in headless Chromium through
// playwright-go and hands the rendered markup to goquery.
package browser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/brogergvhs/skillquiz/internal/dom"
	"github.com/brogergvhs/skillquiz/internal/providers"
)

type Options struct {
	ExecutablePath    string
	ContainerSelector string
	Timeout           time.Duration
	// InstallDriver fetches the playwright driver on first use; browsers
	// are never downloaded, the local Chrome at ExecutablePath is used.
	InstallDriver bool
	DebugLogger   interface {
		Debugf(string, ...any)
	}
}

// ErrClosed is returned by Container after Close.
var ErrClosed = errors.New("browser renderer closed")

// Renderer is a providers.Source sharing one browser across pages.
// Call Close when done; it may run concurrently with Container.
type Renderer struct {
	opts Options

	mu       sync.Mutex
	closed   bool
	startErr error
	pw       *pw.Playwright
	browser  pw.Browser
}

// DefaultExecutablePath is where Google Chrome usually lives on this OS.
func DefaultExecutablePath() string {
	switch runtime.GOOS {
	case "windows":
		return `C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	default:
		return "/usr/bin/google-chrome"
	}
}

func New(opts Options) *Renderer {
	if opts.ContainerSelector == "" {
		opts.ContainerSelector = providers.DefaultContainerSelector
	}
	if opts.ExecutablePath == "" {
		opts.ExecutablePath = DefaultExecutablePath()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	return &Renderer{opts: opts}
}

func (r *Renderer) debugf(format string, args ...any) {
	if r.opts.DebugLogger != nil {
		r.opts.DebugLogger.Debugf(format, args...)
	}
}

// start launches the browser on first use and returns it. Launch runs
// under mu, so Close waits for a launch in progress instead of racing it.
func (r *Renderer) start() (pw.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.browser != nil || r.startErr != nil {
		return r.browser, r.startErr
	}

	if r.opts.InstallDriver {
		if err := pw.Install(&pw.RunOptions{SkipInstallBrowsers: true}); err != nil {
			r.startErr = fmt.Errorf("install playwright driver: %w", err)
			return nil, r.startErr
		}
	}

	inst, err := pw.Run()
	if err != nil {
		r.startErr = fmt.Errorf("start playwright: %w", err)
		return nil, r.startErr
	}

	b, err := inst.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless:       pw.Bool(true),
		ExecutablePath: pw.String(r.opts.ExecutablePath),
	})
	if err != nil {
		_ = inst.Stop()
		r.startErr = fmt.Errorf("launch %s: %w", r.opts.ExecutablePath, err)
		return nil, r.startErr
	}

	r.pw = inst
	r.browser = b
	r.debugf("Browser started (%s)\n", r.opts.ExecutablePath)

	return b, nil
}

func (r *Renderer) render(b pw.Browser, pageURL string) (string, error) {
	page, err := b.NewPage()
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			r.debugf("Warning: failed to close page %s: %v\n", pageURL, cerr)
		}
	}()

	page.SetDefaultTimeout(float64(r.opts.Timeout.Milliseconds()))

	if _, err := page.Goto(pageURL, pw.PageGotoOptions{WaitUntil: pw.WaitUntilStateLoad}); err != nil {
		return "", fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	return page.Content()
}

func (r *Renderer) Container(ctx context.Context, pageURL string) (dom.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := r.start()
	if err != nil {
		return nil, err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		html, err := r.render(b, pageURL)
		done <- result{html: html, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, res.err
	}

	doc, err := dom.ParseString(res.html)
	if err != nil {
		return nil, err
	}

	n, ok := dom.Select(doc, r.opts.ContainerSelector)
	if !ok {
		return nil, fmt.Errorf("%s: %w (selector %q)", pageURL, providers.ErrNoContainer, r.opts.ContainerSelector)
	}

	r.debugf("Rendered %s: %d blocks in container\n", pageURL, len(n.Children()))
	return n, nil
}

// Close shuts the browser and driver down. Safe on a renderer that never
// started and when called more than once; later Container calls fail
// with ErrClosed. Pages still rendering fail with a closed-browser error.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	b, inst := r.browser, r.pw
	r.browser, r.pw = nil, nil
	r.mu.Unlock()

	if b != nil {
		if err := b.Close(); err != nil {
			return err
		}
	}
	if inst != nil {
		return inst.Stop()
	}

	return nil
}

var _ providers.Source = (*Renderer)(nil)
