package reddit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// BaseURL is the canonical host for feed pages and permalinks.
	BaseURL = "https://www.reddit.com"

	feedHost = "www.reddit.com"
)

var (
	feedPathRegex  = regexp.MustCompile(`^/r/([A-Za-z0-9_]{3,21})(/(hot|new|top|rising))?/?$`)
	permalinkRegex = regexp.MustCompile(`/comments/([a-z0-9]+)/`)
)

// ValidateFeedURL checks that rawURL is a subreddit listing page this
// scraper knows how to walk and returns the subreddit name.
func ValidateFeedURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q, expected http or https", u.Scheme)
	}

	if u.Host != feedHost {
		return "", fmt.Errorf("unsupported host %q, expected %s", u.Host, feedHost)
	}

	m := feedPathRegex.FindStringSubmatch(u.Path)
	if m == nil {
		return "", fmt.Errorf("path %q is not a subreddit feed (expected /r/<subreddit>[/hot|new|top|rising])", u.Path)
	}

	return m[1], nil
}

// IDFromPermalink derives the canonical post fullname from a permalink.
// Permalinks embed the base36 post ID: /r/<sub>/comments/<id>/<slug>/.
// Returns "" when the permalink carries no ID.
func IDFromPermalink(permalink string) string {
	m := permalinkRegex.FindStringSubmatch(permalink)
	if m == nil {
		return ""
	}
	return "t3_" + m[1]
}

// AbsoluteURL resolves a possibly host-relative href against the reddit
// base URL. Already-absolute URLs pass through unchanged.
func AbsoluteURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return BaseURL + href
	}
	return BaseURL + "/" + href
}
