package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"redscrape/internal/downloader"
	"redscrape/pkg/config"
	"redscrape/pkg/logger"
	"redscrape/pkg/scraper"
	"redscrape/pkg/ui"
	"redscrape/pkg/ui/tui"
)

var (
	// Scrape command flags
	limit           int
	getComments     bool
	mediaDir        string
	workers         int
	indexFile       string
	waitStrategy    string
	headless        bool
	downloadTimeout int
	retryAttempts   int
	useTUI          bool
	notify          bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <feed-url>",
	Short: "Collect posts from a subreddit listing page",
	Long: `Collect posts from a subreddit listing page by scrolling it the way
a reader would.

The feed URL must be a www.reddit.com subreddit listing, optionally
with a sort segment:

  https://www.reddit.com/r/<subreddit>[/hot|/new|/top|/rising]

Posts are collected in discovery order. With --media-dir set, posts
linking directly to an image are downloaded concurrently while the
feed is still being scrolled.`,
	Example: `  # Collect 100 posts from r/golang
  redscrape scrape https://www.reddit.com/r/golang --limit 100

  # Collect the whole feed and download linked images
  redscrape scrape https://www.reddit.com/r/pics --media-dir ./media

  # Write the post index as NDJSON
  redscrape scrape https://www.reddit.com/r/programming/top --limit 50 --output posts.ndjson

  # Watch progress in the interactive dashboard
  redscrape scrape https://www.reddit.com/r/pics --media-dir ./media --tui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Local flags for scrape command
	scrapeCmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of posts to collect (0 = whole feed)")
	scrapeCmd.Flags().BoolVar(&getComments, "comments", false, "request comment retrieval (accepted but unsupported)")
	scrapeCmd.Flags().StringVarP(&mediaDir, "media-dir", "m", "", "directory for media downloads (downloads disabled when empty)")
	scrapeCmd.Flags().IntVar(&workers, "workers", 8, "number of concurrent download workers")
	scrapeCmd.Flags().StringVarP(&indexFile, "output", "o", "", "NDJSON index file for collected posts")
	scrapeCmd.Flags().StringVar(&waitStrategy, "wait-strategy", "", "wait strategy after each scroll (height_settle, random_delay)")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().IntVar(&downloadTimeout, "download-timeout", 30, "media download timeout in seconds")
	scrapeCmd.Flags().IntVar(&retryAttempts, "retries", 3, "maximum download retry attempts")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
	scrapeCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the scrape finishes")
}

func runScrape(cmd *cobra.Command, args []string) {
	feedURL := strings.TrimSpace(args[0])

	if !useTUI {
		ui.PrintInfo("Target Feed", feedURL)
	}

	// Build flags map from command line
	flags := map[string]interface{}{
		"url": feedURL,
	}
	if cmd.Flags().Changed("limit") {
		flags["limit"] = limit
	}
	if cmd.Flags().Changed("comments") {
		flags["comments"] = getComments
	}
	if mediaDir != "" {
		flags["media-dir"] = mediaDir
	}
	if cmd.Flags().Changed("workers") {
		flags["workers"] = workers
	}
	if indexFile != "" {
		flags["output"] = indexFile
	}
	if waitStrategy != "" {
		flags["wait-strategy"] = waitStrategy
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if cmd.Flags().Changed("notify") {
		flags["notify"] = notify
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if cmd.Flags().Changed("download-timeout") {
		cfg.Download.DownloadTimeout = durationSeconds(downloadTimeout)
	}
	if cmd.Flags().Changed("retries") {
		cfg.Download.RetryAttempts = retryAttempts
	}

	// Initialize logger
	setupLogging(cfg)
	logger.WithField("version", version).Info("redscrape starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if useTUI {
		runScrapeWithTUI(ctx, cfg)
		return
	}

	// Plain progress flow
	ui.PrintHighlight("[INITIATING FEED COLLECTION]")

	display := ui.NewProgressDisplay(subredditFromURL(cfg.Feed.URL), cfg.Feed.Limit, logLevel == "debug")

	s, err := scraper.New(cfg,
		scraper.WithProgress(func(p scraper.Progress) {
			display.PassCompleted(p.Pass, p.NewPosts, p.TotalPosts)
		}),
		scraper.WithDownloadEvents(func(ev downloader.Event) {
			switch ev.Type {
			case downloader.EventCompleted:
				display.CompleteDownload(ev.Task.PostID, int64(ev.Size))
			case downloader.EventFailed:
				display.FailDownload(ev.Task.PostID, ev.Err)
			}
		}),
	)
	if err != nil {
		ui.PrintError("Failed to initialize scraper", err.Error())
		os.Exit(1)
	}

	result, err := s.GetPosts(ctx)
	if err != nil {
		logger.WithError(err).WithField("feed", cfg.Feed.URL).Error("Collection failed")
		ui.PrintError("COLLECTION FAILED", err.Error())
		notifyOutcome(cfg, result, err)
		os.Exit(1)
	}

	display.Complete()
	printSummary(result)
	notifyOutcome(cfg, result, nil)
	logger.WithField("feed", cfg.Feed.URL).Info("Collection completed successfully")
	ui.PrintSuccess("[COLLECTION COMPLETED SUCCESSFULLY]")
}

func runScrapeWithTUI(ctx context.Context, cfg *config.Config) {
	terminal := tui.NewTUI(subredditFromURL(cfg.Feed.URL), cfg.Feed.Limit)

	s, err := scraper.New(cfg,
		scraper.WithProgress(func(p scraper.Progress) {
			terminal.PassCompleted(p.Pass, p.NewPosts, p.TotalPosts, p.Limit)
		}),
		scraper.WithDownloadEvents(forwardDownloadEvents(terminal)),
	)
	if err != nil {
		ui.PrintError("Failed to initialize scraper", err.Error())
		os.Exit(1)
	}

	// Run scraper in a goroutine
	scraperDone := make(chan error, 1)
	go func() {
		result, err := s.GetPosts(ctx)
		if err == nil {
			terminal.LogSuccess("Collected %d posts in %d passes", len(result.Posts), result.Passes)
			if result.Downloads.Submitted > 0 {
				terminal.LogInfo("Media: %d ok, %d failed, %d skipped",
					result.Downloads.Succeeded, result.Downloads.Failed, result.Downloads.Skipped)
			}
		}
		notifyOutcome(cfg, result, err)
		scraperDone <- err
	}()

	// Run TUI in main thread
	tuiDone := make(chan error, 1)
	go func() {
		tuiDone <- terminal.Start()
	}()

	// Wait for either to finish
	select {
	case err := <-scraperDone:
		terminal.Stop()
		<-tuiDone // Wait for TUI to finish
		if err != nil {
			logger.WithError(err).WithField("feed", cfg.Feed.URL).Error("Collection failed")
			os.Exit(1)
		}
	case err := <-tuiDone:
		if err != nil {
			logger.WithError(err).Error("TUI failed")
			os.Exit(1)
		}
	}

	logger.WithField("feed", cfg.Feed.URL).Info("Collection completed successfully")
}

// setupLogging initializes the global logger. When the configured log file
// cannot be opened the scrape still proceeds: the file is dropped and
// logging falls back to console output.
func setupLogging(cfg *config.Config) {
	err := logger.Initialize(&cfg.Logging)
	if err == nil {
		return
	}
	ui.PrintWarning("Log file unavailable, falling back to console", err)

	cfg.Logging.File = ""
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
}

// forwardDownloadEvents adapts pool download events onto a terminal UI.
func forwardDownloadEvents(terminal ui.TUI) func(downloader.Event) {
	return func(ev downloader.Event) {
		id := ev.Task.PostID + "/" + ev.Task.Name
		switch ev.Type {
		case downloader.EventStarted:
			terminal.StartDownload(id, ev.Task.PostID, ev.Task.Name)
		case downloader.EventCompleted:
			terminal.CompleteDownload(id, int64(ev.Size))
		case downloader.EventFailed:
			terminal.FailDownload(id, ev.Err)
		}
	}
}

// notifyOutcome sends the end-of-scrape desktop notification when enabled.
func notifyOutcome(cfg *config.Config, result *scraper.Result, err error) {
	if !cfg.Output.Notifications {
		return
	}

	notifier := ui.NewNotifier()
	if err != nil {
		notifier.SendError("redscrape", fmt.Sprintf("Collection failed: %v", err))
		return
	}

	message := fmt.Sprintf("Collected %d posts from r/%s", len(result.Posts), result.Subreddit)
	if result.Downloads.Submitted > 0 {
		message += fmt.Sprintf(", %d media files saved", result.Downloads.Succeeded)
	}
	notifier.SendSuccess("redscrape", message)
}

func printSummary(result *scraper.Result) {
	if ui.IsQuietMode() {
		return
	}

	fmt.Println()
	ui.PrintInfo("Posts collected", fmt.Sprintf("%d", len(result.Posts)))
	ui.PrintInfo("Passes", fmt.Sprintf("%d", result.Passes))
	if result.Downloads.Submitted > 0 {
		ui.PrintInfo("Media downloads", fmt.Sprintf("%d ok, %d failed, %d skipped",
			result.Downloads.Succeeded, result.Downloads.Failed, result.Downloads.Skipped))
	}
}

func durationSeconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}

// subredditFromURL extracts the subreddit segment for display only; the
// scraper performs the real validation.
func subredditFromURL(feedURL string) string {
	parts := strings.Split(strings.Trim(feedURL, "/"), "/")
	for i, p := range parts {
		if p == "r" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return feedURL
}
