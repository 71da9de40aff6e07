package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onthisday/server/internal/auth"
	"github.com/onthisday/server/internal/domain/history"
)

const clientSecret = "client-secret"

type fakeServer struct {
	*httptest.Server
	todayHits  atomic.Int64
	publicHits atomic.Int64
	authedHits atomic.Int64

	failPublic bool
	failToday  bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}

	record := history.Record{
		Events:    []history.Event{{Year: "1991", Description: history.Plain("Linux announced")}},
		Birthdays: []history.Person{},
		Deaths:    []history.Person{},
	}
	envelope := map[string]any{"success": true, "data": record}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/today", func(w http.ResponseWriter, r *http.Request) {
		fs.todayHits.Add(1)
		if fs.failToday {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(envelope)
	})
	mux.HandleFunc("/api/public-history/", func(w http.ResponseWriter, r *http.Request) {
		fs.publicHits.Add(1)
		if fs.failPublic {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(envelope)
	})
	mux.HandleFunc("/api/history/", func(w http.ResponseWriter, r *http.Request) {
		fs.authedHits.Add(1)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if err := auth.NewVerifier(clientSecret, 5*time.Minute).Verify(token); err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(envelope)
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func newTestClient(fs *fakeServer) *Client {
	return New(Config{
		BaseURL: fs.URL,
		Secret:  clientSecret,
		// Keep preloading out of the hit counts.
		PreloadDelay: time.Hour,
	})
}

func TestDataForDate_FetchesPublicEndpoint(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs)

	rec := c.DataForDate(context.Background(), 8, 25)

	require.Len(t, rec.Events, 1)
	assert.Equal(t, "1991", rec.Events[0].Year)
	assert.EqualValues(t, 1, fs.publicHits.Load())
	assert.EqualValues(t, 0, fs.todayHits.Load())
	assert.EqualValues(t, 0, fs.authedHits.Load())
}

func TestDataForDate_CachedWithinTTL(t *testing.T) {
	fs := newFakeServer(t)
	base := time.Now()
	clock := base
	c := newTestClient(fs).WithClock(func() time.Time { return clock })

	c.DataForDate(context.Background(), 8, 25)
	clock = base.Add(4 * time.Minute)
	c.DataForDate(context.Background(), 8, 25)

	assert.EqualValues(t, 1, fs.publicHits.Load(), "second call within TTL must hit the cache")

	clock = base.Add(6 * time.Minute)
	c.DataForDate(context.Background(), 8, 25)
	assert.EqualValues(t, 2, fs.publicHits.Load(), "call after TTL expiry must refetch")
}

func TestDataForDate_TodayEndpointOnHomePage(t *testing.T) {
	fs := newFakeServer(t)
	c := New(Config{
		BaseURL:      fs.URL,
		Secret:       clientSecret,
		HomePage:     true,
		PreloadDelay: time.Hour,
	})

	now := time.Now()
	c.DataForDate(context.Background(), int(now.Month()), now.Day())

	assert.EqualValues(t, 1, fs.todayHits.Load())
	assert.EqualValues(t, 0, fs.publicHits.Load())
}

func TestDataForDate_TodayNotUsedOffHomePage(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs)

	now := time.Now()
	c.DataForDate(context.Background(), int(now.Month()), now.Day())

	assert.EqualValues(t, 0, fs.todayHits.Load())
	assert.EqualValues(t, 1, fs.publicHits.Load())
}

func TestDataForDate_FallsBackToAuthenticated(t *testing.T) {
	fs := newFakeServer(t)
	fs.failPublic = true
	c := newTestClient(fs)

	rec := c.DataForDate(context.Background(), 8, 25)

	require.Len(t, rec.Events, 1)
	assert.EqualValues(t, 1, fs.publicHits.Load())
	assert.EqualValues(t, 1, fs.authedHits.Load())
}

func TestDataForDate_StaleFallbackOnTotalFailure(t *testing.T) {
	fs := newFakeServer(t)
	base := time.Now()
	clock := base
	c := newTestClient(fs).WithClock(func() time.Time { return clock })

	rec := c.DataForDate(context.Background(), 8, 25)
	require.Len(t, rec.Events, 1)

	// Expire the cache and make every endpoint fail.
	clock = base.Add(10 * time.Minute)
	fs.failPublic = true
	c.secret = ""

	rec = c.DataForDate(context.Background(), 8, 25)
	assert.Len(t, rec.Events, 1, "stale cache entry should be served")
}

func TestDataForDate_EmptyRecordWhenNothingWorks(t *testing.T) {
	fs := newFakeServer(t)
	fs.failPublic = true
	c := newTestClient(fs)
	c.secret = ""

	rec := c.DataForDate(context.Background(), 8, 25)

	assert.NotNil(t, rec.Events)
	assert.Empty(t, rec.Events)
	assert.Empty(t, rec.Birthdays)
	assert.Empty(t, rec.Deaths)
}

func TestPreloadAdjacentDates(t *testing.T) {
	fs := newFakeServer(t)
	c := New(Config{
		BaseURL:      fs.URL,
		Secret:       clientSecret,
		PreloadDelay: 10 * time.Millisecond,
	})

	c.DataForDate(context.Background(), 8, 25)

	// The 24th and 26th get warmed in the background.
	assert.Eventually(t, func() bool {
		_, prev := c.cache.fresh("08-24")
		_, next := c.cache.fresh("08-26")
		return prev && next
	}, 2*time.Second, 20*time.Millisecond)

	assert.EqualValues(t, 3, fs.publicHits.Load())
}
