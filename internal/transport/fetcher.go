package transport

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"uae_edu/internal/adapters/observability"
	"uae_edu/internal/domain"
)

// Rotated per attempt so a retried request does not present the same
// fingerprint that just failed.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// Markers that distinguish an active anti-automation refusal from an
// ordinary error page.
var blockMarkers = []string{
	"just a moment",
	"checking your browser",
	"verify you are human",
	"captcha",
	"access denied",
	"attention required",
}

type Options struct {
	Timeout     time.Duration // per-request timeout
	MaxRetries  int           // retries after the first attempt
	BackoffBase time.Duration // doubled each retry, jittered
	HostDelay   time.Duration // minimum interval between calls to one host
}

func DefaultOptions() Options {
	return Options{
		Timeout:     15 * time.Second,
		MaxRetries:  2,
		BackoffBase: 500 * time.Millisecond,
		HostDelay:   time.Second,
	}
}

// Fetcher is the only component that touches the network on the static
// path. It holds one rate-limit clock per target host.
type Fetcher struct {
	hc    *http.Client
	opts  Options
	cache domain.PageCache // optional

	mu      sync.Mutex
	hosts   map[string]*rate.Limiter
	attempt uint64
}

func NewFetcher(opts Options, cache domain.PageCache) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultOptions().BackoffBase
	}
	if opts.HostDelay <= 0 {
		opts.HostDelay = DefaultOptions().HostDelay
	}
	return &Fetcher{
		hc:    &http.Client{Timeout: opts.Timeout},
		opts:  opts,
		cache: cache,
		hosts: make(map[string]*rate.Limiter),
	}
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.hosts[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(f.opts.HostDelay), 1)
	f.hosts[host] = l
	return l
}

func (f *Fetcher) nextUserAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt++
	return userAgents[f.attempt%uint64(len(userAgents))]
}

// Fetch performs a GET with per-host rate limiting, retries on transient
// failures, and block detection. A consumed page cache hit bypasses both
// the limiter and the network.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	if f.cache != nil {
		if body, ok, err := f.cache.GetPage(ctx, target); err == nil && ok {
			return body, nil
		}
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, &domain.TransportError{URL: target, Err: err}
	}
	// Rate-limit before every call, not just retries.
	if err := f.limiter(u.Host).Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i <= f.opts.MaxRetries; i++ {
		start := time.Now()
		body, retryable, err := f.once(ctx, target)
		observability.ObserveExternal(u.Host, err == nil, time.Since(start))
		if err == nil {
			if f.cache != nil {
				_ = f.cache.SetPage(ctx, target, body)
			}
			return body, nil
		}
		if domain.IsBlocked(err) || !retryable {
			return nil, err
		}
		lastErr = err
		if i < f.opts.MaxRetries {
			log.Debug().Str("url", target).Int("attempt", i+1).Err(err).Msg("retrying fetch")
			if !sleepCtx(ctx, backoff(i, f.opts.BackoffBase)) {
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// once runs a single attempt. The second return value reports whether the
// failure is worth retrying.
func (f *Fetcher) once(ctx context.Context, target string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, &domain.TransportError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, &domain.TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, &domain.TransportError{URL: target, Err: err}
		}
		if reason := blockReason(body); reason != "" {
			return nil, false, &domain.BlockedError{URL: target, Reason: reason}
		}
		return body, false, nil

	case resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, false, &domain.BlockedError{URL: target, Reason: "HTTP 403"}

	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		// Honor server-provided Retry-After before our own backoff.
		if wait := retryAfter(resp); wait > 0 {
			sleepCtx(ctx, wait)
		}
		io.Copy(io.Discard, resp.Body)
		return nil, true, &domain.TransportError{URL: target, Status: resp.StatusCode}

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, false, &domain.TransportError{
			URL:    target,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}
}

func blockReason(body []byte) string {
	low := bytes.ToLower(body[:min(len(body), 8192)])
	for _, m := range blockMarkers {
		if bytes.Contains(low, []byte(m)) {
			return m
		}
	}
	return ""
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns base*2^i with up to +50% jitter to avoid lockstep retries.
func backoff(i int, base time.Duration) time.Duration {
	d := time.Duration(1<<i) * base
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return d
	}
	f := float64(b[0]) / 255.0
	return d + time.Duration(0.5*f*float64(d))
}
