package reddit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"redscrape/pkg/logger"
)

// maxBodyPreview caps the feed body text carried on a record.
const maxBodyPreview = 300

// ExtractPosts parses a rendered listing-page snapshot and returns every
// post element in document order (top-to-bottom equals discovery order).
// It is a pure function of the snapshot: no network, no browser access.
//
// A malformed element with no usable identity is skipped with a debug log;
// it never aborts the pass and never drops sibling records. Numeric
// attributes parse leniently to zero.
func ExtractPosts(html string) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	now := time.Now()
	var posts []Post

	doc.Find("shreddit-post").Each(func(i int, sel *goquery.Selection) {
		post, ok := extractPost(i, sel, now)
		if !ok {
			logger.GetLogger().DebugWithFields("skipping malformed post element", map[string]interface{}{
				"position": i,
			})
			return
		}
		posts = append(posts, post)
	})

	return posts, nil
}

// extractPost builds a Post from a single shreddit-post element. The
// second return is false when the element carries no usable identity.
func extractPost(position int, sel *goquery.Selection, seenAt time.Time) (Post, bool) {
	permalink := AbsoluteURL(sel.AttrOr("permalink", ""))
	contentURL := AbsoluteURL(sel.AttrOr("content-href", ""))

	id, provisional := deriveID(sel, permalink, contentURL)
	if id == "" {
		return Post{}, false
	}

	kind, refs := Classify(contentURL, id)

	post := Post{
		ID:           id,
		Title:        strings.TrimSpace(sel.AttrOr("post-title", "")),
		Author:       sel.AttrOr("author", ""),
		Score:        lenientInt(sel.AttrOr("score", "")),
		CommentCount: lenientInt(sel.AttrOr("comment-count", "")),
		Permalink:    permalink,
		ContentURL:   contentURL,
		Kind:         sel.AttrOr("post-type", ""),
		CreatedAt:    sel.AttrOr("created-timestamp", ""),
		FeedIndex:    feedIndex(sel, position),
		NotBrandSafe: boolAttr(sel, "is-not-brand-safe"),
		BodyPreview:  bodyPreview(sel),
		MediaURLs:    refs,
		Media:        kind,
		Comments:     CommentsNotFetched,
		SeenAt:       seenAt,
		Provisional:  provisional,
	}

	return post, true
}

// deriveID resolves a post's dedup key. Precedence: id attribute, then the
// permalink's embedded base36 ID, then a provisional value synthesized from
// the content URL or the feed position. Returns "" for elements with no
// identity at all.
func deriveID(sel *goquery.Selection, permalink, contentURL string) (string, bool) {
	if id := strings.TrimSpace(sel.AttrOr("id", "")); id != "" {
		return id, false
	}

	if id := IDFromPermalink(permalink); id != "" {
		return id, false
	}

	if contentURL != "" {
		return "prov:" + contentURL, true
	}

	if idx, ok := sel.Attr("feedindex"); ok {
		return "prov:index:" + idx, true
	}

	return "", false
}

// feedIndex reads the element's feedindex attribute, falling back to its
// document position when the attribute is absent or unparseable.
func feedIndex(sel *goquery.Selection, position int) int {
	raw, ok := sel.Attr("feedindex")
	if !ok {
		return position
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return position
	}
	return n
}

// bodyPreview extracts the rendered feed body text, when present.
func bodyPreview(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.Find(`[slot="text-body"]`).Text())
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxBodyPreview {
		text = string(runes[:maxBodyPreview])
	}
	return text
}

// boolAttr reads a boolean custom-element attribute. The attribute is true
// when present without a value or set to "true".
func boolAttr(sel *goquery.Selection, name string) bool {
	raw, ok := sel.Attr(name)
	if !ok {
		return false
	}
	raw = strings.TrimSpace(raw)
	return raw == "" || strings.EqualFold(raw, "true")
}

// lenientInt parses a numeric attribute, treating anything unparseable
// as zero so one broken counter never drops a record.
func lenientInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
