package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/onthisday/server/internal/domain/history"
	"github.com/onthisday/server/internal/seo"
)

var (
	webfilesBaseURL string
	webfilesOutput  string
)

// webfilesCmd writes sitemap.xml and robots.txt to disk for static hosting
// setups that serve them from a CDN instead of the Go server.
var webfilesCmd = &cobra.Command{
	Use:   "webfiles",
	Short: "Generate sitemap.xml and robots.txt for deployment",
	Long: `Generate sitemap.xml and robots.txt from the embedded dataset with
environment-specific base URLs.

Examples:
  # Generate for production
  server webfiles --base-url https://onthisday.app

  # Custom output directory
  server webfiles --base-url https://staging.onthisday.app --output ./build/web`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWebfiles()
	},
}

func init() {
	rootCmd.AddCommand(webfilesCmd)

	webfilesCmd.Flags().StringVar(&webfilesBaseURL, "base-url", "", "base URL for generated links (required)")
	webfilesCmd.Flags().StringVar(&webfilesOutput, "output", "./web", "output directory for generated files")
	_ = webfilesCmd.MarkFlagRequired("base-url")
}

func runWebfiles() error {
	store, err := history.NewStore()
	if err != nil {
		return fmt.Errorf("load history dataset: %w", err)
	}

	if err := os.MkdirAll(webfilesOutput, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sitemapPath := filepath.Join(webfilesOutput, "sitemap.xml")
	sitemap := seo.Sitemap(webfilesBaseURL, store.Keys(), time.Now())
	if err := os.WriteFile(sitemapPath, []byte(sitemap), 0644); err != nil {
		return fmt.Errorf("write sitemap.xml: %w", err)
	}

	robotsPath := filepath.Join(webfilesOutput, "robots.txt")
	if err := os.WriteFile(robotsPath, []byte(seo.Robots(webfilesBaseURL)), 0644); err != nil {
		return fmt.Errorf("write robots.txt: %w", err)
	}

	fmt.Printf("Generated web files for %s\n", webfilesBaseURL)
	fmt.Printf("  sitemap.xml: %s\n", sitemapPath)
	fmt.Printf("  robots.txt:  %s\n", robotsPath)
	return nil
}
