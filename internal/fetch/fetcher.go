// Package fetch downloads playlist pages.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly"
	"github.com/smoodsie/beatsync-codex/config"
)

const maxBodySize = 64 << 20

// Fetcher retrieves page markup with browser-like headers, retrying
// transient failures.
type Fetcher struct {
	userAgents []string
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	cache      *pageCache
	transport  http.RoundTripper
}

func New(cfg config.FetchConfig) *Fetcher {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Fetcher{
		userAgents: cfg.UserAgents,
		timeout:    cfg.Timeout,
		maxRetries: maxRetries,
		baseDelay:  cfg.BaseDelay,
		cache:      newPageCache(cfg.CacheDir, cfg.CacheTTL),
		transport:  http.DefaultTransport,
	}
}

// FetchPage returns the full response body of pageURL as text. Failures are
// reported as *NetworkError or *HTTPError.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if err := validateURL(pageURL); err != nil {
		return "", err
	}

	if f.cache != nil {
		if markup, err := f.cache.load(pageURL); err == nil {
			slog.Debug("Using cached page", "url", pageURL)
			return markup, nil
		}
	}

	markup, err := f.visitWithRetries(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		if err := f.cache.save(pageURL, markup); err != nil {
			slog.Warn("Failed to cache page", "url", pageURL, "error", err)
		}
	}

	return markup, nil
}

func validateURL(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, pageURL)
	}
	return nil
}

func (f *Fetcher) visitWithRetries(ctx context.Context, pageURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.baseDelay * time.Duration(1<<uint(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
			totalDelay := delay + jitter
			slog.Info("Retrying request", "attempt", attempt+1, "delay", totalDelay.String(), "url", pageURL)

			timer := time.NewTimer(totalDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("fetch cancelled: %w", ctx.Err())
			case <-timer.C:
			}
		}

		markup, err := f.visit(ctx, pageURL)
		if err == nil {
			return markup, nil
		}
		lastErr = err
		slog.Warn("Request failed", "attempt", attempt+1, "url", pageURL, "error", err)

		if ctx.Err() != nil || !retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

// visit performs one request with a fresh collector.
func (f *Fetcher) visit(ctx context.Context, pageURL string) (string, error) {
	options := []func(*colly.Collector){
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
		colly.MaxBodySize(maxBodySize),
	}
	if len(f.userAgents) > 0 {
		options = append(options, colly.UserAgent(f.userAgents[rand.Intn(len(f.userAgents))]))
	}
	c := colly.NewCollector(options...)

	// Non-2xx responses reach OnResponse instead of surfacing as bare errors.
	c.ParseHTTPErrorResponse = true
	c.WithTransport(&contextTransport{ctx: ctx, base: f.transport})
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
		r.Headers.Set("Connection", "keep-alive")
		r.Headers.Set("Upgrade-Insecure-Requests", "1")
		r.Headers.Set("Referer", "https://www.google.com/")
		r.Headers.Set("Cache-Control", "max-age=0")
	})

	var (
		status int
		body   []byte
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(pageURL); err != nil {
		return "", &NetworkError{URL: pageURL, Err: err}
	}
	if status == 0 {
		return "", &NetworkError{URL: pageURL, Err: fmt.Errorf("no response received")}
	}
	if status < 200 || status > 299 {
		return "", &HTTPError{URL: pageURL, StatusCode: status}
	}

	slog.Debug("Fetched page", "url", pageURL, "status", status, "bytes", len(body))
	return string(body), nil
}

// contextTransport binds every request to ctx so cancellation aborts
// in-flight fetches.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
