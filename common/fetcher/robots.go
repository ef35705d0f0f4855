package fetcher

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

const robotsCacheKeyPrefix = "robots:"

// RobotsCache stores robots.txt bodies between process runs. *redis.RedisClient satisfies it.
type RobotsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// RobotsChecker evaluates robots.txt for one user-agent. It fails open:
// an unreachable, non-200 or unparseable robots.txt allows the fetch.
type RobotsChecker struct {
	client    *resty.Client
	userAgent string
	timeout   time.Duration
	cache     RobotsCache
	cacheTTL  time.Duration
}

func NewRobotsChecker(client *resty.Client, userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// WithCache enables the robots.txt body cache. A zero ttl disables it.
func (c *RobotsChecker) WithCache(cache RobotsCache, ttl time.Duration) *RobotsChecker {
	if ttl > 0 {
		c.cache = cache
		c.cacheTTL = ttl
	}
	return c
}

// Allowed reports whether target may be fetched.
func (c *RobotsChecker) Allowed(ctx context.Context, target *url.URL) bool {
	origin := target.Scheme + "://" + target.Host

	body, ok := c.cached(ctx, origin)
	if !ok {
		body, ok = c.download(ctx, origin)
		if !ok {
			return true
		}
		c.store(ctx, origin, body)
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		log.Debug().Err(err).Str("origin", origin).Msg("Unparseable robots.txt, allowing")
		return true
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}
	return robots.TestAgent(path, c.userAgent)
}

func (c *RobotsChecker) download(ctx context.Context, origin string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", c.userAgent).
		Get(origin + "/robots.txt")
	if err != nil {
		log.Debug().Err(err).Str("origin", origin).Msg("robots.txt unreachable, allowing")
		return nil, false
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, false
	}
	return resp.Body(), true
}

func (c *RobotsChecker) cached(ctx context.Context, origin string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, err := c.cache.Get(ctx, robotsCacheKeyPrefix+origin)
	if err != nil {
		return nil, false
	}
	return []byte(body), true
}

func (c *RobotsChecker) store(ctx context.Context, origin string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, robotsCacheKeyPrefix+origin, string(body), c.cacheTTL); err != nil {
		log.Warn().Err(err).Str("origin", origin).Msg("Failed to cache robots.txt")
	}
}
