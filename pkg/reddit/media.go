package reddit

import "regexp"

var (
	galleryRegex = regexp.MustCompile(`^https?://(www\.)?reddit\.com/gallery/[A-Za-z0-9_]+$`)
	mediaRegex   = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|bmp|webp)(\?.*)?$`)
	nameRegex    = regexp.MustCompile(`.*-(.*?)\.`)
)

// Classify inspects a post's content URL and reports what the downloader
// can do with it. Single images produce one MediaRef named after the URL's
// trailing -<name>. segment, falling back to the post ID. Galleries are
// recognized but produce no refs.
func Classify(contentURL, postID string) (MediaKind, []MediaRef) {
	if contentURL == "" {
		return MediaNone, nil
	}

	if galleryRegex.MatchString(contentURL) {
		return MediaGallery, nil
	}

	if mediaRegex.MatchString(contentURL) {
		name := mediaName(contentURL)
		if name == "" {
			name = postID
		}
		return MediaImage, []MediaRef{{URL: contentURL, Name: name}}
	}

	return MediaNone, nil
}

// mediaName pulls the name segment out of a CDN media URL,
// e.g. "https://i.redd.it/foo-abc123.jpg" yields "abc123".
func mediaName(mediaURL string) string {
	m := nameRegex.FindStringSubmatch(mediaURL)
	if m == nil {
		return ""
	}
	return m[1]
}
