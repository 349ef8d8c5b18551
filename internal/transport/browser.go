package transport

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"uae_edu/internal/domain"
)

// Browser drives a headless Chrome session for sources that only expose
// their data after client-side rendering. The allocator is the scoped
// resource: one per adapter run, released by Close on every exit path.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	pageTimeout time.Duration
	settleDelay time.Duration
}

// NewBrowser starts a headless allocator under parent. Cancelling parent
// tears the browser process down with it.
func NewBrowser(parent context.Context, pageTimeout time.Duration) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.UserAgent(userAgents[0]),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	if pageTimeout <= 0 {
		pageTimeout = 30 * time.Second
	}
	return &Browser{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		pageTimeout: pageTimeout,
		settleDelay: 2 * time.Second,
	}
}

// Render navigates to target in a fresh tab, waits for the document to
// settle, scrolls to trigger lazy loading, and returns the rendered markup.
// Cancelling ctx tears the tab down mid-render. A challenge page is
// surfaced as a BlockedError so the adapter can keep whatever it already
// collected.
func (b *Browser) Render(ctx context.Context, target string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()
	// The tab descends from the allocator, not from ctx; propagate the
	// caller's cancellation by hand.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()
	runCtx, cancelRun := context.WithTimeout(tabCtx, b.pageTimeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.settleDelay),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight/2)`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &domain.TransportError{URL: target, Err: err}
	}
	if reason := blockReason([]byte(html)); reason != "" {
		log.Warn().Str("url", target).Str("reason", reason).Msg("anti-automation block detected")
		return "", &domain.BlockedError{URL: target, Reason: reason}
	}
	return html, nil
}

// Close terminates the browser process. Safe to call more than once.
func (b *Browser) Close() {
	b.allocCancel()
}
