package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type MPBProgressManager struct {
	p *mpb.Progress
}

// NewProgressManager renders bars to out; a nil out disables rendering.
func NewProgressManager(out io.Writer) *MPBProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &MPBProgressManager{p: p}
}

func (pm *MPBProgressManager) Close() {
	pm.p.Wait()
}

func (pm *MPBProgressManager) Register(prefix string) *ProgressHandle {
	h := &ProgressHandle{
		pm:     pm,
		prefix: prefix,
	}
	h.initBar()
	return h
}

type ProgressHandle struct {
	pm     *MPBProgressManager
	prefix string
	bar    *mpb.Bar

	total     atomic.Int64
	done      atomic.Int64
	questions atomic.Int64
	failed    atomic.Int64

	start   time.Time
	elapsed atomic.Int64

	final atomic.Bool
}

func (h *ProgressHandle) initBar() {
	h.start = time.Now()

	h.bar = h.pm.p.New(
		0,
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name(h.prefix+"  "),
		),

		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" | %d questions", h.questions.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				if n := h.failed.Load(); n > 0 {
					return fmt.Sprintf(" | %d failed", n)
				}
				return ""
			}),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %ds", h.elapsed.Load())
				}

				return fmt.Sprintf(" | %ds", int(time.Since(h.start).Seconds()))
			}),
		),
	)
}

func (h *ProgressHandle) SetTotal(total int) {
	if h.final.Load() {
		return
	}

	h.total.Store(int64(total))
	h.bar.SetTotal(int64(total), false)
}

// PageDone records one finished page and the questions it produced.
func (h *ProgressHandle) PageDone(questions int, failed bool) {
	if h.final.Load() {
		return
	}

	h.questions.Add(int64(questions))
	if failed {
		h.failed.Add(1)
	}
	h.bar.SetCurrent(h.done.Add(1))
}

func (h *ProgressHandle) MarkDone() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))

	total := h.total.Load()
	h.bar.SetCurrent(total)
	h.bar.SetTotal(total, true)
}
