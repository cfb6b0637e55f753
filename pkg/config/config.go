package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Wait strategy names accepted by Scroll.WaitStrategy
const (
	WaitStrategyHeightSettle = "height_settle"
	WaitStrategyRandomDelay  = "random_delay"
)

// Download limiter names accepted by RateLimit.Strategy
const (
	RateLimitTokenBucket   = "token_bucket"
	RateLimitSlidingWindow = "sliding_window"
)

// Config holds all configuration options for the Reddit feed scraper
type Config struct {
	// Feed selection
	Feed FeedConfig `yaml:"feed" json:"feed"`

	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Scroll loop settings
	Scroll ScrollConfig `yaml:"scroll" json:"scroll"`

	// Media download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FeedConfig holds the feed target and collection bounds
type FeedConfig struct {
	URL string `yaml:"url" json:"url"`
	// Limit is the maximum number of posts to collect. 0 means the
	// entire feed: the loop only stops once the feed is exhausted.
	Limit int `yaml:"limit" json:"limit"`
	// GetComments is accepted but unsupported. The scraper warns and
	// tags every record with CommentsNotFetched.
	GetComments bool `yaml:"get_comments" json:"get_comments"`
}

// BrowserConfig holds browser session configuration
type BrowserConfig struct {
	Headless bool `yaml:"headless" json:"headless"`
	// RandomUserAgent picks a random desktop UA for headless sessions,
	// mirroring what a visible browser would send.
	RandomUserAgent   bool          `yaml:"random_user_agent" json:"random_user_agent"`
	WindowWidth       int           `yaml:"window_width" json:"window_width"`
	WindowHeight      int           `yaml:"window_height" json:"window_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
}

// ScrollConfig holds scroll/wait loop configuration
type ScrollConfig struct {
	// WaitStrategy selects how the loop waits for lazy-loaded content
	// after a scroll: "height_settle" polls until the page height grows,
	// "random_delay" sleeps a jittered interval.
	WaitStrategy string        `yaml:"wait_strategy" json:"wait_strategy"`
	MinWait      time.Duration `yaml:"min_wait" json:"min_wait"`
	MaxWait      time.Duration `yaml:"max_wait" json:"max_wait"`
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
	// MaxEmptyPasses is the number of consecutive passes yielding no new
	// posts before the feed is considered exhausted.
	MaxEmptyPasses int `yaml:"max_empty_passes" json:"max_empty_passes"`
	// ScrollsPerMinute paces scroll commands against the single tab.
	ScrollsPerMinute int `yaml:"scrolls_per_minute" json:"scrolls_per_minute"`
}

// DownloadConfig holds media download configuration
type DownloadConfig struct {
	// MediaDir enables media downloads when set.
	MediaDir        string        `yaml:"media_dir" json:"media_dir"`
	Workers         int           `yaml:"workers" json:"workers"`
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
	RetryAttempts   int           `yaml:"retry_attempts" json:"retry_attempts"`
}

// OutputConfig holds result output configuration
type OutputConfig struct {
	// IndexFile, when set, receives the scraped posts as NDJSON, one
	// post per line.
	IndexFile string `yaml:"index_file" json:"index_file"`
	// Notifications sends a desktop notification when the scrape
	// finishes or fails.
	Notifications bool `yaml:"notifications" json:"notifications"`
}

// RateLimitConfig holds rate limiting configuration for media fetches
type RateLimitConfig struct {
	// Strategy selects the limiter gating the download workers:
	// "token_bucket" allows bursts up to BurstSize, "sliding_window"
	// spreads requests evenly over the minute.
	Strategy           string `yaml:"strategy" json:"strategy"`
	DownloadsPerMinute int    `yaml:"downloads_per_minute" json:"downloads_per_minute"`
	BurstSize          int    `yaml:"burst_size" json:"burst_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			Limit:       0,
			GetComments: false,
		},
		Browser: BrowserConfig{
			Headless:          true,
			RandomUserAgent:   true,
			WindowWidth:       1920,
			WindowHeight:      1080,
			NavigationTimeout: 30 * time.Second,
		},
		Scroll: ScrollConfig{
			WaitStrategy:     WaitStrategyHeightSettle,
			MinWait:          1 * time.Second,
			MaxWait:          4 * time.Second,
			PollInterval:     250 * time.Millisecond,
			MaxEmptyPasses:   2,
			ScrollsPerMinute: 30,
		},
		Download: DownloadConfig{
			MediaDir:        "",
			Workers:         8,
			DownloadTimeout: 30 * time.Second,
			RetryAttempts:   3,
		},
		Output: OutputConfig{
			IndexFile: "",
		},
		RateLimit: RateLimitConfig{
			Strategy:           RateLimitTokenBucket,
			DownloadsPerMinute: 60,
			BurstSize:          10,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if feedURL := os.Getenv("REDSCRAPE_FEED_URL"); feedURL != "" {
		c.Feed.URL = feedURL
	}
	if limit := os.Getenv("REDSCRAPE_LIMIT"); limit != "" {
		var val int
		fmt.Sscanf(limit, "%d", &val)
		if val > 0 {
			c.Feed.Limit = val
		}
	}
	if headless := os.Getenv("REDSCRAPE_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if mediaDir := os.Getenv("REDSCRAPE_MEDIA_DIR"); mediaDir != "" {
		c.Download.MediaDir = mediaDir
	}
	if workers := os.Getenv("REDSCRAPE_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Download.Workers = val
		}
	}
	if dpm := os.Getenv("REDSCRAPE_DOWNLOADS_PER_MINUTE"); dpm != "" {
		var val int
		fmt.Sscanf(dpm, "%d", &val)
		if val > 0 {
			c.RateLimit.DownloadsPerMinute = val
		}
	}
	if indexFile := os.Getenv("REDSCRAPE_INDEX_FILE"); indexFile != "" {
		c.Output.IndexFile = indexFile
	}
	if notify := os.Getenv("REDSCRAPE_NOTIFICATIONS"); notify != "" {
		c.Output.Notifications = strings.ToLower(notify) == "true"
	}
	if strategy := os.Getenv("REDSCRAPE_RATE_LIMIT_STRATEGY"); strategy != "" {
		c.RateLimit.Strategy = strategy
	}
	if logLevel := os.Getenv("REDSCRAPE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".redscrape.yaml",
		".redscrape.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "redscrape", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "redscrape", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".redscrape.yaml"),
		filepath.Join(os.Getenv("HOME"), ".redscrape.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Feed URL syntax is
// validated separately by the scraper against the subreddit URL rules.
func (c *Config) Validate() error {
	var errs []error

	if c.Feed.Limit < 0 {
		errs = append(errs, errors.New("limit cannot be negative"))
	}

	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		errs = append(errs, errors.New("browser window size must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}

	switch c.Scroll.WaitStrategy {
	case WaitStrategyHeightSettle, WaitStrategyRandomDelay:
	default:
		errs = append(errs, fmt.Errorf("unknown wait strategy: %s", c.Scroll.WaitStrategy))
	}
	if c.Scroll.MinWait <= 0 {
		errs = append(errs, errors.New("min wait must be positive"))
	}
	if c.Scroll.MaxWait < c.Scroll.MinWait {
		errs = append(errs, errors.New("max wait cannot be shorter than min wait"))
	}
	if c.Scroll.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.Scroll.MaxEmptyPasses < 1 {
		errs = append(errs, errors.New("max empty passes must be at least 1"))
	}
	if c.Scroll.ScrollsPerMinute <= 0 {
		errs = append(errs, errors.New("scrolls per minute must be positive"))
	}

	if c.Download.Workers < 1 {
		errs = append(errs, errors.New("download workers must be at least 1"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}

	switch c.RateLimit.Strategy {
	case RateLimitTokenBucket, RateLimitSlidingWindow:
	default:
		errs = append(errs, fmt.Errorf("unknown rate limit strategy: %s", c.RateLimit.Strategy))
	}
	if c.RateLimit.DownloadsPerMinute <= 0 {
		errs = append(errs, errors.New("downloads per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if feedURL, ok := flags["url"].(string); ok && feedURL != "" {
		c.Feed.URL = feedURL
	}
	if limit, ok := flags["limit"].(int); ok && limit >= 0 {
		c.Feed.Limit = limit
	}
	if getComments, ok := flags["comments"].(bool); ok {
		c.Feed.GetComments = getComments
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if mediaDir, ok := flags["media-dir"].(string); ok && mediaDir != "" {
		c.Download.MediaDir = mediaDir
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Download.Workers = workers
	}
	if indexFile, ok := flags["output"].(string); ok && indexFile != "" {
		c.Output.IndexFile = indexFile
	}
	if notify, ok := flags["notify"].(bool); ok {
		c.Output.Notifications = notify
	}
	if waitStrategy, ok := flags["wait-strategy"].(string); ok && waitStrategy != "" {
		c.Scroll.WaitStrategy = waitStrategy
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".redscrape.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
