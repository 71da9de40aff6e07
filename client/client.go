// Package client is the Go rendition of the site's front-end data layer:
// a TTL record cache in front of a fallback chain of API endpoints, plus
// adjacent-date preloading.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/onthisday/server/internal/auth"
	"github.com/onthisday/server/internal/domain/history"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultCacheTTL     = 5 * time.Minute
	defaultPreloadDelay = time.Second
)

// Config configures a Client. BaseURL is required; everything else has a
// sensible default.
type Config struct {
	BaseURL string

	// Secret mints tokens locally for the authenticated fallback. Leave
	// empty to skip that step of the chain.
	Secret string

	// HomePage marks the client as serving the landing view; only then is
	// the /api/today endpoint eligible for today's date.
	HomePage bool

	Timeout      time.Duration
	CacheTTL     time.Duration
	PreloadDelay time.Duration

	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client fetches per-date records with caching and graceful degradation.
// DataForDate never returns an error: UI rendering always gets a record,
// possibly stale or empty.
type Client struct {
	baseURL      string
	secret       string
	homePage     bool
	timeout      time.Duration
	preloadDelay time.Duration
	http         *http.Client
	log          zerolog.Logger
	cache        *recordCache
	now          func() time.Time
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.PreloadDelay <= 0 {
		cfg.PreloadDelay = defaultPreloadDelay
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	now := time.Now
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		secret:       cfg.Secret,
		homePage:     cfg.HomePage,
		timeout:      cfg.Timeout,
		preloadDelay: cfg.PreloadDelay,
		http:         cfg.HTTPClient,
		log:          cfg.Logger,
		cache:        newRecordCache(cfg.CacheTTL, now),
		now:          now,
	}
}

// WithClock replaces the client's clock. Tests drive cache expiry with it.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	c.cache.now = now
	return c
}

// DataForDate returns the record for the given calendar date. Resolution
// order: fresh cache entry, /api/today (today + home page only), the public
// per-date endpoint, the token-authenticated endpoint. If every attempt
// fails, a stale cache entry is returned when one exists, an empty record
// otherwise.
func (c *Client) DataForDate(ctx context.Context, month, day int) history.Record {
	key := history.DateKey(month, day)

	if rec, ok := c.cache.fresh(key); ok {
		return rec
	}

	if rec, ok := c.fetchChain(ctx, key, month, day); ok {
		c.cache.put(key, rec)
		c.preloadAdjacent(month, day)
		return rec
	}

	if rec, ok := c.cache.stale(key); ok {
		c.log.Warn().Str("date", key).Msg("all endpoints failed, serving stale cache entry")
		return rec
	}

	c.log.Warn().Str("date", key).Msg("all endpoints failed with no cached fallback")
	return history.EmptyRecord()
}

func (c *Client) fetchChain(ctx context.Context, key string, month, day int) (history.Record, bool) {
	if c.homePage && key == history.TodayKey(c.now()) {
		if rec, err := c.fetch(ctx, "/api/today", false); err == nil {
			return rec, true
		} else {
			c.log.Debug().Err(err).Msg("today endpoint failed, trying public endpoint")
		}
	}

	publicPath := "/api/public-history/" + history.URLDate(month, day)
	if rec, err := c.fetch(ctx, publicPath, false); err == nil {
		return rec, true
	} else {
		c.log.Debug().Err(err).Msg("public endpoint failed, trying authenticated endpoint")
	}

	if c.secret != "" {
		if rec, err := c.fetch(ctx, "/api/history/"+key, true); err == nil {
			return rec, true
		} else {
			c.log.Debug().Err(err).Msg("authenticated endpoint failed")
		}
	}

	return history.Record{}, false
}

func (c *Client) fetch(ctx context.Context, path string, authed bool) (history.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return history.Record{}, err
	}
	req.Header.Set("Accept", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+auth.Token(c.secret, c.now()))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return history.Record{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return history.Record{}, fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    history.Record `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return history.Record{}, fmt.Errorf("%s: decode: %w", path, err)
	}
	if !envelope.Success {
		return history.Record{}, fmt.Errorf("%s: unsuccessful response", path)
	}
	return envelope.Data, nil
}

// preloadAdjacent warms the cache for the previous and next calendar day.
// It runs detached from the caller after a fixed delay so the visible load
// always wins the bandwidth race.
func (c *Client) preloadAdjacent(month, day int) {
	go func() {
		time.Sleep(c.preloadDelay)

		// Reference year 2024 so Feb 29 neighbors resolve.
		base := time.Date(2024, time.Month(month), day, 0, 0, 0, 0, time.UTC)

		var g errgroup.Group
		for _, d := range []time.Time{base.AddDate(0, 0, -1), base.AddDate(0, 0, 1)} {
			g.Go(func() error {
				key := history.DateKey(int(d.Month()), d.Day())
				if _, ok := c.cache.fresh(key); ok {
					return nil
				}
				if rec, ok := c.fetchChain(context.Background(), key, int(d.Month()), d.Day()); ok {
					c.cache.put(key, rec)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}
