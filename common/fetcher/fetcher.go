package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Page is a fetched and parsed HTML page.
type Page struct {
	Document   *document.Document
	FinalURL   string
	StatusCode int
	Body       []byte
}

type requestOptions struct {
	headers  map[string]string
	timeout  time.Duration
	language string
}

// Option overrides request settings for a single Fetch.
type Option func(*requestOptions)

func WithHeaders(headers map[string]string) Option {
	return func(o *requestOptions) {
		o.headers = headers
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *requestOptions) {
		o.timeout = d
	}
}

// WithLanguage replaces the Accept-Language header.
func WithLanguage(lang string) Option {
	return func(o *requestOptions) {
		o.language = lang
	}
}

// Fetcher performs polite GET requests: robots.txt first, then the per-host
// rate limiter, then the request itself.
type Fetcher struct {
	client         *resty.Client
	robots         *RobotsChecker
	limiter        *RateLimiter
	userAgent      string
	acceptLanguage string
	timeout        time.Duration
}

type FetcherOption func(*Fetcher)

// WithRateLimiter shares a limiter between fetchers or injects one with a fake clock.
func WithRateLimiter(l *RateLimiter) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithRobotsCache caches robots.txt bodies, typically in Redis.
func WithRobotsCache(cache RobotsCache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.robots.WithCache(cache, ttl)
	}
}

func New(cfg config.ScraperConfig, opts ...FetcherOption) *Fetcher {
	client := resty.New().
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(int(cfg.MaxRedirects))).
		SetHeader("User-Agent", cfg.UserAgent)

	f := &Fetcher{
		client:         client,
		robots:         NewRobotsChecker(client, cfg.UserAgent, cfg.RobotsTimeout),
		limiter:        NewRateLimiter(cfg.RateInterval),
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		timeout:        cfg.FetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Limiter() *RateLimiter {
	return f.limiter
}

// Fetch retrieves rawURL. Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts ...Option) (*Page, error) {
	o := requestOptions{
		timeout:  f.timeout,
		language: f.acceptLanguage,
	}
	for _, opt := range opts {
		opt(&o)
	}

	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" {
		if err == nil {
			err = errors.New("missing host")
		}
		return nil, transportFailure(rawURL, err)
	}

	if !f.robots.Allowed(ctx, target) {
		return nil, policyDenied(rawURL)
	}

	if err := f.limiter.Wait(ctx, target.Host); err != nil {
		return nil, transportFailure(rawURL, err)
	}

	reqCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	req := f.client.R().
		SetContext(reqCtx).
		SetHeader("User-Agent", f.userAgent).
		SetHeader("Accept", acceptHeader).
		SetHeader("Accept-Language", o.language).
		SetHeaders(o.headers)

	log.Debug().Str("url", rawURL).Msg("Fetching page")
	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, transportFailure(rawURL, err)
	}
	if resp.IsError() {
		return nil, transportFailure(rawURL, fmt.Errorf("request failed with status code %d", resp.StatusCode()))
	}

	finalURL := rawURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	body := resp.Body()
	doc, err := document.Parse(bytes.NewReader(body), finalURL)
	if err != nil {
		return nil, parseFailure(rawURL, err)
	}

	return &Page{
		Document:   doc,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode(),
		Body:       body,
	}, nil
}
