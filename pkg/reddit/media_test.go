package reddit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		postID   string
		kind     MediaKind
		wantRefs []MediaRef
	}{
		{
			name:     "single image with name segment",
			url:      "https://i.redd.it/sunset-x7k2p9.jpg",
			postID:   "t3_1abc2d",
			kind:     MediaImage,
			wantRefs: []MediaRef{{URL: "https://i.redd.it/sunset-x7k2p9.jpg", Name: "x7k2p9"}},
		},
		{
			name:     "image without name segment falls back to post ID",
			url:      "https://i.redd.it/x7k2p9.png",
			postID:   "t3_1abc2d",
			kind:     MediaImage,
			wantRefs: []MediaRef{{URL: "https://i.redd.it/x7k2p9.png", Name: "t3_1abc2d"}},
		},
		{
			name:     "uppercase extension",
			url:      "https://i.redd.it/photo-abc.JPG",
			postID:   "t3_x",
			kind:     MediaImage,
			wantRefs: []MediaRef{{URL: "https://i.redd.it/photo-abc.JPG", Name: "abc"}},
		},
		{
			name:     "image with query string",
			url:      "https://preview.redd.it/photo-abc.webp?width=640",
			postID:   "t3_x",
			kind:     MediaImage,
			wantRefs: []MediaRef{{URL: "https://preview.redd.it/photo-abc.webp?width=640", Name: "abc"}},
		},
		{
			name:   "gallery recognized but not downloadable",
			url:    "https://www.reddit.com/gallery/1abc2d",
			postID: "t3_1abc2d",
			kind:   MediaGallery,
		},
		{
			name:   "gallery without www",
			url:    "https://reddit.com/gallery/1abc2d",
			postID: "t3_1abc2d",
			kind:   MediaGallery,
		},
		{
			name:   "external link",
			url:    "https://example.com/article",
			postID: "t3_x",
			kind:   MediaNone,
		},
		{
			name:   "video not supported",
			url:    "https://v.redd.it/abc123",
			postID: "t3_x",
			kind:   MediaNone,
		},
		{
			name:   "empty content URL",
			url:    "",
			postID: "t3_x",
			kind:   MediaNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, refs := Classify(tt.url, tt.postID)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.wantRefs, refs)
		})
	}
}
