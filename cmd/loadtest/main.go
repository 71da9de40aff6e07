// Command loadtest generates synthetic traffic against a running server
// and reports latency and error statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onthisday/server/internal/loadtest"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the server to test")
		profile  = flag.String("profile", "light", "Load profile: light, medium, heavy, stress")
		secret   = flag.String("secret", os.Getenv("API_SECRET"), "API secret for authenticated traffic (empty skips it)")
		rps      = flag.Int("rps", 0, "Custom requests per second (overrides profile)")
		duration = flag.Duration("duration", 0, "Custom test duration (overrides profile)")
		noRamp   = flag.Bool("no-ramp", false, "Disable ramp-up (instant start)")
	)
	flag.Parse()

	tester := loadtest.NewLoadTester(*baseURL, *secret)
	ctx := contextWithSignal()

	var (
		stats *loadtest.Statistics
		err   error
	)
	if *rps > 0 || *duration > 0 || *noRamp {
		config := loadtest.LoadProfiles[loadtest.ProfileLight]
		if *rps > 0 {
			config.RequestsPerSecond = *rps
		}
		if *duration > 0 {
			config.Duration = *duration
		}
		if *noRamp {
			config.RampUpTime = 0
		}
		fmt.Printf("Running custom load test configuration\n\n")
		stats, err = tester.RunCustom(ctx, config)
	} else {
		fmt.Printf("Running load profile: %s\n\n", *profile)
		stats, err = tester.Run(ctx, loadtest.LoadProfile(*profile))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(stats.Report())
}

// contextWithSignal cancels on SIGINT/SIGTERM so an interrupted run still
// prints the statistics gathered so far.
func contextWithSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, shutting down...")
		cancel()
		// Give workers a moment to drain before a second signal kills us.
		time.Sleep(100 * time.Millisecond)
	}()

	return ctx
}
