// Package scraper orchestrates the scroll-driven feed scrape: it owns the
// browser session, runs the extract/scroll loop, deduplicates posts across
// passes, and feeds media tasks to the download pool.
//
// The loop is strictly sequential on one goroutine because the browser tab
// is a single non-thread-safe resource. Download I/O overlaps with the
// scroll/wait cycle through the pool; discovery order is preserved in the
// results regardless of download completion order.
//
// The controller walks a small state machine: it starts in the init state,
// alternates between extracting and scrolling, and ends in one of three
// terminal states (limit reached, feed exhausted, failed). Snapshot and
// extraction errors count as empty passes; scroll transport errors are
// fatal and abort the loop after the download pool has drained.
package scraper
