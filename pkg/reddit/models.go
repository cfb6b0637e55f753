package reddit

import "time"

// MediaKind classifies what, if anything, a post links to that the
// downloader can handle.
type MediaKind string

const (
	// MediaNone means the post has no downloadable media (self post,
	// external link, video, etc).
	MediaNone MediaKind = "none"
	// MediaImage means the content URL points at a single image file.
	MediaImage MediaKind = "image"
	// MediaGallery means the content URL is a reddit gallery page.
	// Galleries are recognized but never downloaded.
	MediaGallery MediaKind = "gallery"
)

// CommentsState records whether comments were fetched for a post.
type CommentsState string

const (
	// CommentsNotFetched is the only state the scraper produces: comment
	// retrieval requires per-post navigation and is not supported.
	CommentsNotFetched CommentsState = "not_fetched"
)

// MediaRef is a single downloadable media URL with its derived file name
// (extension excluded; the downloader picks that from Content-Type).
type MediaRef struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Post is one extracted feed record. ID is the sole dedup key for the
// session: re-rendered DOM nodes of the same post carry the same ID.
type Post struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	Score        int           `json:"score"`
	CommentCount int           `json:"comment_count"`
	Permalink    string        `json:"permalink"`
	ContentURL   string        `json:"content_url,omitempty"`
	Kind         string        `json:"kind,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
	FeedIndex    int           `json:"feed_index"`
	NotBrandSafe bool          `json:"not_brand_safe,omitempty"`
	BodyPreview  string        `json:"body_preview,omitempty"`
	MediaURLs    []MediaRef    `json:"media_urls,omitempty"`
	Media        MediaKind     `json:"media"`
	Comments     CommentsState `json:"comments"`
	SeenAt       time.Time     `json:"timestamp_seen"`

	// Provisional marks an ID that was synthesized from content-href or
	// feed position because the element carried no usable identity. The
	// dedup tracker only trusts these after two consecutive snapshots
	// agree on the same value.
	Provisional bool `json:"-"`
}
