// Package loadtest drives synthetic traffic against a running server.
//
// Requests cover the public read surface (per-date lookups, the today
// endpoint, SSR pages, og-images) plus the token-authenticated API, in the
// mix real browser traffic produces. A slice of the traffic goes through the
// client package so its cache and fallback chain get exercised too.
package loadtest

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onthisday/server/client"
	"github.com/onthisday/server/internal/auth"
	"github.com/onthisday/server/internal/domain/history"
)

// LoadProfile names a predefined traffic scenario.
type LoadProfile string

const (
	ProfileLight  LoadProfile = "light"  // 5 req/s, 1 minute
	ProfileMedium LoadProfile = "medium" // 20 req/s, 2 minutes
	ProfileHeavy  LoadProfile = "heavy"  // 50 req/s, 5 minutes
	ProfileStress LoadProfile = "stress" // 100 req/s, 10 minutes
)

// ProfileConfig defines the parameters for a load test.
type ProfileConfig struct {
	RequestsPerSecond int
	Duration          time.Duration
	RampUpTime        time.Duration // time to gradually reach target RPS
}

// LoadProfiles contains the predefined scenarios.
var LoadProfiles = map[LoadProfile]ProfileConfig{
	ProfileLight: {
		RequestsPerSecond: 5,
		Duration:          1 * time.Minute,
		RampUpTime:        10 * time.Second,
	},
	ProfileMedium: {
		RequestsPerSecond: 20,
		Duration:          2 * time.Minute,
		RampUpTime:        20 * time.Second,
	},
	ProfileHeavy: {
		RequestsPerSecond: 50,
		Duration:          5 * time.Minute,
		RampUpTime:        30 * time.Second,
	},
	ProfileStress: {
		RequestsPerSecond: 100,
		Duration:          10 * time.Minute,
		RampUpTime:        1 * time.Minute,
	},
}

// LoadTester orchestrates a load test against one server.
type LoadTester struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	apiClient  *client.Client
	stats      *Statistics
	rng        *rand.Rand
	rngMu      sync.Mutex
}

// NewLoadTester targets the given base URL. A non-empty secret enables the
// authenticated endpoint in the traffic mix.
func NewLoadTester(baseURL, secret string) *LoadTester {
	baseURL = strings.TrimRight(baseURL, "/")
	return &LoadTester{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiClient: client.New(client.Config{
			BaseURL: baseURL,
			Secret:  secret,
			Timeout: 30 * time.Second,
			// Adjacent-date preloads would distort the request counters.
			PreloadDelay: 24 * time.Hour,
		}),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes a load test with the named profile.
func (lt *LoadTester) Run(ctx context.Context, profile LoadProfile) (*Statistics, error) {
	config, exists := LoadProfiles[profile]
	if !exists {
		return nil, fmt.Errorf("unknown profile: %s", profile)
	}
	return lt.RunCustom(ctx, config)
}

// RunCustom executes a load test with a custom configuration.
func (lt *LoadTester) RunCustom(ctx context.Context, config ProfileConfig) (*Statistics, error) {
	if config.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("requests per second must be positive, got %d", config.RequestsPerSecond)
	}
	lt.stats = &Statistics{
		errors:        make(map[int]int64),
		endpointStats: make(map[string]*endpointStats),
		startTime:     time.Now(),
	}

	fmt.Printf("Starting load test...\n")
	fmt.Printf("  Target: %s\n", lt.baseURL)
	fmt.Printf("  RPS: %d\n", config.RequestsPerSecond)
	fmt.Printf("  Duration: %s\n", config.Duration)
	fmt.Printf("  Ramp-up: %s\n", config.RampUpTime)
	fmt.Println()

	workers := config.RequestsPerSecond * 2
	if workers < 10 {
		workers = 10
	}

	workChan := make(chan workItem, workers*2)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for work := range workChan {
				lt.executeRequest(ctx, work)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(workChan)
		lt.generateWork(ctx, config, workChan)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	lt.stats.endTime = time.Now()
	return lt.stats, nil
}

type workItem struct {
	endpoint string
	path     string
	authed   bool
	// via the client package instead of a raw GET
	chain      bool
	month, day int
}

func (lt *LoadTester) generateWork(ctx context.Context, config ProfileConfig, workChan chan<- workItem) {
	deadline := time.After(config.Duration)
	start := time.Now()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-ticker.C:
			rps := lt.currentRPS(time.Since(start), config)
			// Ten ticks per second.
			n := rps / 10
			if n < 1 {
				n = 1
			}
			for i := 0; i < n; i++ {
				select {
				case workChan <- lt.generateRequest():
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (lt *LoadTester) currentRPS(elapsed time.Duration, config ProfileConfig) int {
	if config.RampUpTime > 0 && elapsed < config.RampUpTime {
		frac := float64(elapsed) / float64(config.RampUpTime)
		rps := int(frac * float64(config.RequestsPerSecond))
		if rps < 1 {
			rps = 1
		}
		return rps
	}
	return config.RequestsPerSecond
}

// generateRequest picks a random calendar date and an endpoint according to
// the production traffic mix: mostly public JSON reads, with SSR pages,
// og-images, today, the authenticated API, and client-chain lookups behind.
func (lt *LoadTester) generateRequest() workItem {
	lt.rngMu.Lock()
	month := 1 + lt.rng.Intn(12)
	day := 1 + lt.rng.Intn(28)
	roll := lt.rng.Float64()
	lt.rngMu.Unlock()

	key := history.DateKey(month, day)
	switch {
	case roll < 0.40:
		return workItem{endpoint: "public-history", path: "/api/public-history/" + key}
	case roll < 0.55:
		return workItem{endpoint: "page", path: "/history/" + history.URLDate(month, day) + "/"}
	case roll < 0.70:
		return workItem{endpoint: "og-image", path: "/api/og-image/" + key}
	case roll < 0.80:
		return workItem{endpoint: "today", path: "/api/today"}
	case roll < 0.90 && lt.secret != "":
		return workItem{endpoint: "history", path: "/api/history/" + key, authed: true}
	default:
		return workItem{endpoint: "client-chain", chain: true, month: month, day: day}
	}
}

func (lt *LoadTester) executeRequest(ctx context.Context, work workItem) {
	start := time.Now()

	if work.chain {
		rec := lt.apiClient.DataForDate(ctx, work.month, work.day)
		status := http.StatusOK
		if rec.IsEmpty() {
			// The chain swallows transport errors and degrades to an
			// empty record; count that as a failure here.
			status = http.StatusServiceUnavailable
		}
		lt.record(status, time.Since(start).Milliseconds(), work.endpoint)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lt.baseURL+work.path, nil)
	if err != nil {
		lt.record(0, time.Since(start).Milliseconds(), work.endpoint)
		return
	}
	if work.authed {
		req.Header.Set("Authorization", "Bearer "+auth.Token(lt.secret, time.Now()))
	}

	resp, err := lt.httpClient.Do(req)
	if err != nil {
		lt.record(0, time.Since(start).Milliseconds(), work.endpoint)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	lt.record(resp.StatusCode, time.Since(start).Milliseconds(), work.endpoint)
}

// Statistics aggregates results across all workers.
type Statistics struct {
	mu sync.Mutex

	totalRequests   int64
	successRequests int64
	failedRequests  int64

	responseTimes []int64 // milliseconds

	errors        map[int]int64 // status code -> count; 0 means transport error
	endpointStats map[string]*endpointStats

	startTime time.Time
	endTime   time.Time
}

type endpointStats struct {
	count   int64
	total   int64 // summed response time in ms
	errors  int64
	minTime int64
	maxTime int64
}

func (lt *LoadTester) record(statusCode int, durationMs int64, endpoint string) {
	s := lt.stats
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.responseTimes = append(s.responseTimes, durationMs)

	ok := statusCode >= 200 && statusCode < 400
	if ok {
		s.successRequests++
	} else {
		s.failedRequests++
		s.errors[statusCode]++
	}

	es, exists := s.endpointStats[endpoint]
	if !exists {
		es = &endpointStats{minTime: durationMs, maxTime: durationMs}
		s.endpointStats[endpoint] = es
	}
	es.count++
	es.total += durationMs
	if !ok {
		es.errors++
	}
	if durationMs < es.minTime {
		es.minTime = durationMs
	}
	if durationMs > es.maxTime {
		es.maxTime = durationMs
	}
}

// Report renders a human-readable summary of the run.
func (s *Statistics) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	elapsed := s.endTime.Sub(s.startTime)

	fmt.Fprintf(&b, "Load Test Results\n")
	fmt.Fprintf(&b, "=================\n\n")
	fmt.Fprintf(&b, "Duration:        %s\n", elapsed.Round(time.Second))
	fmt.Fprintf(&b, "Total requests:  %d\n", s.totalRequests)
	fmt.Fprintf(&b, "Successful:      %d\n", s.successRequests)
	fmt.Fprintf(&b, "Failed:          %d\n", s.failedRequests)
	if elapsed > 0 {
		fmt.Fprintf(&b, "Achieved RPS:    %.1f\n", float64(s.totalRequests)/elapsed.Seconds())
	}

	if len(s.responseTimes) > 0 {
		p50, p95, p99 := s.percentiles()
		fmt.Fprintf(&b, "\nResponse times (ms)\n")
		fmt.Fprintf(&b, "  avg: %d  p50: %d  p95: %d  p99: %d\n", s.average(), p50, p95, p99)
	}

	if len(s.endpointStats) > 0 {
		fmt.Fprintf(&b, "\nPer endpoint\n")
		names := make([]string, 0, len(s.endpointStats))
		for name := range s.endpointStats {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			es := s.endpointStats[name]
			avg := int64(0)
			if es.count > 0 {
				avg = es.total / es.count
			}
			fmt.Fprintf(&b, "  %-16s %6d reqs  %4d errors  avg %4dms  min %4dms  max %4dms\n",
				name, es.count, es.errors, avg, es.minTime, es.maxTime)
		}
	}

	if len(s.errors) > 0 {
		fmt.Fprintf(&b, "\nErrors by status\n")
		codes := make([]int, 0, len(s.errors))
		for code := range s.errors {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			label := fmt.Sprintf("%d", code)
			if code == 0 {
				label = "transport"
			}
			fmt.Fprintf(&b, "  %-10s %d\n", label, s.errors[code])
		}
	}

	return b.String()
}

func (s *Statistics) percentiles() (p50, p95, p99 int64) {
	times := make([]int64, len(s.responseTimes))
	copy(times, s.responseTimes)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	return percentile(times, 0.50), percentile(times, 0.95), percentile(times, 0.99)
}

func (s *Statistics) average() int64 {
	if len(s.responseTimes) == 0 {
		return 0
	}
	var total int64
	for _, t := range s.responseTimes {
		total += t
	}
	return total / int64(len(s.responseTimes))
}

func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
