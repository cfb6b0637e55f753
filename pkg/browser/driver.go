package browser

import "context"

// Driver is the minimal browser surface the scroll controller needs.
// Implementations are not safe for concurrent use; the controller owns the
// session for the lifetime of a scrape.
type Driver interface {
	// Navigate loads the given URL in the tab.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector is rendered.
	WaitVisible(ctx context.Context, selector string) error
	// PageHeight reports document.body.scrollHeight.
	PageHeight(ctx context.Context) (int64, error)
	// ScrollToBottom issues window.scrollTo to the current page bottom.
	ScrollToBottom(ctx context.Context) error
	// HTML returns a full outer-HTML snapshot of the document.
	HTML(ctx context.Context) (string, error)
	// Close tears the browser session down.
	Close() error
}
