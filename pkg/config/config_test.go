package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.Feed.Limit != 0 {
		t.Errorf("Expected default limit to be 0 (whole feed), got %d", config.Feed.Limit)
	}

	if !config.Browser.Headless {
		t.Error("Expected default browser mode to be headless")
	}

	if config.Scroll.WaitStrategy != WaitStrategyHeightSettle {
		t.Errorf("Expected default wait strategy to be height_settle, got %s", config.Scroll.WaitStrategy)
	}

	if config.Scroll.MaxEmptyPasses != 2 {
		t.Errorf("Expected default max empty passes to be 2, got %d", config.Scroll.MaxEmptyPasses)
	}

	if config.Download.Workers != 8 {
		t.Errorf("Expected default download workers to be 8, got %d", config.Download.Workers)
	}

	if config.RateLimit.DownloadsPerMinute != 60 {
		t.Errorf("Expected default downloads per minute to be 60, got %d", config.RateLimit.DownloadsPerMinute)
	}

	if config.RateLimit.Strategy != RateLimitTokenBucket {
		t.Errorf("Expected default rate limit strategy to be token_bucket, got %s", config.RateLimit.Strategy)
	}

	if config.Output.Notifications {
		t.Error("Expected notifications to be disabled by default")
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set test environment variables
	os.Setenv("REDSCRAPE_FEED_URL", "https://www.reddit.com/r/golang")
	os.Setenv("REDSCRAPE_LIMIT", "250")
	os.Setenv("REDSCRAPE_HEADLESS", "false")
	os.Setenv("REDSCRAPE_MEDIA_DIR", "/tmp/test-media")
	os.Setenv("REDSCRAPE_WORKERS", "4")
	os.Setenv("REDSCRAPE_DOWNLOADS_PER_MINUTE", "30")
	os.Setenv("REDSCRAPE_INDEX_FILE", "/tmp/posts.ndjson")
	os.Setenv("REDSCRAPE_NOTIFICATIONS", "true")
	os.Setenv("REDSCRAPE_RATE_LIMIT_STRATEGY", "sliding_window")
	os.Setenv("REDSCRAPE_LOG_LEVEL", "debug")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("REDSCRAPE_FEED_URL")
		os.Unsetenv("REDSCRAPE_LIMIT")
		os.Unsetenv("REDSCRAPE_HEADLESS")
		os.Unsetenv("REDSCRAPE_MEDIA_DIR")
		os.Unsetenv("REDSCRAPE_WORKERS")
		os.Unsetenv("REDSCRAPE_DOWNLOADS_PER_MINUTE")
		os.Unsetenv("REDSCRAPE_INDEX_FILE")
		os.Unsetenv("REDSCRAPE_NOTIFICATIONS")
		os.Unsetenv("REDSCRAPE_RATE_LIMIT_STRATEGY")
		os.Unsetenv("REDSCRAPE_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if config.Feed.URL != "https://www.reddit.com/r/golang" {
		t.Errorf("Expected feed URL from env, got %s", config.Feed.URL)
	}
	if config.Feed.Limit != 250 {
		t.Errorf("Expected limit 250, got %d", config.Feed.Limit)
	}
	if config.Browser.Headless {
		t.Error("Expected headless to be false")
	}
	if config.Download.MediaDir != "/tmp/test-media" {
		t.Errorf("Expected media dir from env, got %s", config.Download.MediaDir)
	}
	if config.Download.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", config.Download.Workers)
	}
	if config.RateLimit.DownloadsPerMinute != 30 {
		t.Errorf("Expected 30 downloads/minute, got %d", config.RateLimit.DownloadsPerMinute)
	}
	if config.Output.IndexFile != "/tmp/posts.ndjson" {
		t.Errorf("Expected index file from env, got %s", config.Output.IndexFile)
	}
	if !config.Output.Notifications {
		t.Error("Expected notifications enabled from env")
	}
	if config.RateLimit.Strategy != RateLimitSlidingWindow {
		t.Errorf("Expected sliding_window strategy from env, got %s", config.RateLimit.Strategy)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
feed:
  url: "https://www.reddit.com/r/pics/top"
  limit: 100
scroll:
  wait_strategy: "random_delay"
  min_wait: 2s
  max_wait: 5s
download:
  media_dir: "./media"
  workers: 2
logging:
  level: "warn"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Feed.URL != "https://www.reddit.com/r/pics/top" {
		t.Errorf("Expected feed URL from file, got %s", config.Feed.URL)
	}
	if config.Feed.Limit != 100 {
		t.Errorf("Expected limit 100, got %d", config.Feed.Limit)
	}
	if config.Scroll.WaitStrategy != WaitStrategyRandomDelay {
		t.Errorf("Expected random_delay, got %s", config.Scroll.WaitStrategy)
	}
	if config.Scroll.MinWait != 2*time.Second {
		t.Errorf("Expected min wait 2s, got %v", config.Scroll.MinWait)
	}
	if config.Download.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", config.Download.Workers)
	}
	// Untouched sections keep their defaults.
	if config.RateLimit.DownloadsPerMinute != 60 {
		t.Errorf("Expected default downloads/minute, got %d", config.RateLimit.DownloadsPerMinute)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("feed: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"negative limit", func(c *Config) { c.Feed.Limit = -1 }, true},
		{"zero window width", func(c *Config) { c.Browser.WindowWidth = 0 }, true},
		{"unknown wait strategy", func(c *Config) { c.Scroll.WaitStrategy = "guess" }, true},
		{"max wait below min wait", func(c *Config) {
			c.Scroll.MinWait = 5 * time.Second
			c.Scroll.MaxWait = 1 * time.Second
		}, true},
		{"zero max empty passes", func(c *Config) { c.Scroll.MaxEmptyPasses = 0 }, true},
		{"zero scrolls per minute", func(c *Config) { c.Scroll.ScrollsPerMinute = 0 }, true},
		{"zero workers", func(c *Config) { c.Download.Workers = 0 }, true},
		{"negative retry attempts", func(c *Config) { c.Download.RetryAttempts = -1 }, true},
		{"zero burst size", func(c *Config) { c.RateLimit.BurstSize = 0 }, true},
		{"unknown rate limit strategy", func(c *Config) { c.RateLimit.Strategy = "leaky_bucket" }, true},
		{"sliding window strategy", func(c *Config) { c.RateLimit.Strategy = RateLimitSlidingWindow }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, true},
		{"random delay strategy", func(c *Config) { c.Scroll.WaitStrategy = WaitStrategyRandomDelay }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"url":           "https://www.reddit.com/r/golang/new",
		"limit":         50,
		"comments":      true,
		"headless":      false,
		"media-dir":     "/tmp/media",
		"workers":       16,
		"output":        "index.ndjson",
		"wait-strategy": WaitStrategyRandomDelay,
		"log-level":     "error",
		"notify":        true,
	}
	config.MergeCommandLineFlags(flags)

	if config.Feed.URL != "https://www.reddit.com/r/golang/new" {
		t.Errorf("Expected feed URL from flags, got %s", config.Feed.URL)
	}
	if config.Feed.Limit != 50 {
		t.Errorf("Expected limit 50, got %d", config.Feed.Limit)
	}
	if !config.Feed.GetComments {
		t.Error("Expected get_comments true")
	}
	if config.Browser.Headless {
		t.Error("Expected headless false")
	}
	if config.Download.MediaDir != "/tmp/media" {
		t.Errorf("Expected media dir from flags, got %s", config.Download.MediaDir)
	}
	if config.Download.Workers != 16 {
		t.Errorf("Expected 16 workers, got %d", config.Download.Workers)
	}
	if config.Output.IndexFile != "index.ndjson" {
		t.Errorf("Expected index file from flags, got %s", config.Output.IndexFile)
	}
	if config.Scroll.WaitStrategy != WaitStrategyRandomDelay {
		t.Errorf("Expected wait strategy from flags, got %s", config.Scroll.WaitStrategy)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level error, got %s", config.Logging.Level)
	}
	if !config.Output.Notifications {
		t.Error("Expected notifications enabled from flags")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	config := DefaultConfig()
	config.Feed.URL = "https://www.reddit.com/r/golang"
	config.Feed.Limit = 75

	if err := config.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if reloaded.Feed.URL != config.Feed.URL {
		t.Errorf("Expected URL %s, got %s", config.Feed.URL, reloaded.Feed.URL)
	}
	if reloaded.Feed.Limit != 75 {
		t.Errorf("Expected limit 75, got %d", reloaded.Feed.Limit)
	}
}
