package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"redscrape/pkg/config"
	"redscrape/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage redscrape configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (REDSCRAPE_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.redscrape.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = ".redscrape.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# redscrape Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with REDSCRAPE_
# For example: REDSCRAPE_FEED_URL, REDSCRAPE_MEDIA_DIR

# Feed selection
feed:
  # Subreddit listing URL (required)
  # Format: https://www.reddit.com/r/<subreddit>[/hot|/new|/top|/rising]
  url: ""

  # Maximum number of posts to collect
  # 0 means the whole feed
  limit: 0

  # Request comment retrieval (accepted but unsupported; records are
  # tagged comments=not_fetched)
  get_comments: false

# Browser session settings
browser:
  # Run Chrome headless
  headless: true

  # Pick a random desktop user agent for headless sessions
  random_user_agent: true

  # Browser window size
  window_width: 1920
  window_height: 1080

  # Navigation timeout
  navigation_timeout: 30s

# Scroll loop settings
scroll:
  # Wait strategy after each scroll: height_settle, random_delay
  wait_strategy: "height_settle"

  # Jittered sleep bounds for random_delay
  min_wait: 1s
  max_wait: 4s

  # Height polling interval for height_settle
  poll_interval: 250ms

  # Consecutive passes with no new posts before the feed counts as
  # exhausted
  max_empty_passes: 2

  # Scroll commands per minute against the single tab
  scrolls_per_minute: 30

# Media download settings
download:
  # Directory for media downloads; empty disables downloads
  media_dir: ""

  # Number of concurrent download workers
  workers: 8

  # Per-download timeout
  download_timeout: 30s

  # Maximum retry attempts per download
  retry_attempts: 3

# Output settings
output:
  # NDJSON index file for collected posts; empty disables the index
  index_file: ""

  # Send a desktop notification when the scrape finishes or fails
  notifications: false

# Rate limiting for media fetches
rate_limit:
  # Limiter strategy: token_bucket (bursts up to burst_size) or
  # sliding_window (spread evenly over the minute)
  strategy: "token_bucket"
  downloads_per_minute: 60
  burst_size: 10

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stdout only
  file: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file and set the feed URL")
	fmt.Println("2. Run 'redscrape config validate' to check the configuration")
	fmt.Println("3. Start collecting with 'redscrape scrape <feed-url>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		ui.PrintError("Failed to load environment variables", err.Error())
		os.Exit(1)
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (REDSCRAPE_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			".redscrape.yaml",
			".redscrape.yml",
			filepath.Join(os.Getenv("HOME"), ".redscrape.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "redscrape", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	if cfg.Feed.URL == "" {
		warnings = append(warnings, "feed URL not configured; pass it on the command line")
	}
	if cfg.Feed.GetComments {
		warnings = append(warnings, "get_comments is accepted but unsupported; records will be tagged not_fetched")
	}

	// Check paths
	if cfg.Download.MediaDir != "" {
		if err := os.MkdirAll(cfg.Download.MediaDir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create media directory: %v", err))
		}
	}

	// Check logging file path
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	// Check value ranges beyond the structural validation
	if cfg.Download.Workers > 32 {
		warnings = append(warnings, "more than 32 download workers is unlikely to help")
	}
	if cfg.RateLimit.DownloadsPerMinute > 120 {
		warnings = append(warnings, "downloads_per_minute above 120 risks being blocked")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Feed URL: %s\n", cfg.Feed.URL)
	fmt.Printf("  Post limit: %d\n", cfg.Feed.Limit)
	fmt.Printf("  Media directory: %s\n", cfg.Download.MediaDir)
	fmt.Printf("  Download workers: %d\n", cfg.Download.Workers)
	fmt.Printf("  Rate limit: %d downloads/minute\n", cfg.RateLimit.DownloadsPerMinute)
	fmt.Printf("  Wait strategy: %s\n", cfg.Scroll.WaitStrategy)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
