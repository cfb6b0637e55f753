package reddit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFeedURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		subreddit string
		wantErr   bool
	}{
		{
			name:      "bare subreddit",
			url:       "https://www.reddit.com/r/golang",
			subreddit: "golang",
		},
		{
			name:      "trailing slash",
			url:       "https://www.reddit.com/r/golang/",
			subreddit: "golang",
		},
		{
			name:      "hot sort",
			url:       "https://www.reddit.com/r/golang/hot",
			subreddit: "golang",
		},
		{
			name:      "new sort with trailing slash",
			url:       "https://www.reddit.com/r/pics/new/",
			subreddit: "pics",
		},
		{
			name:      "top sort",
			url:       "https://www.reddit.com/r/EarthPorn/top",
			subreddit: "EarthPorn",
		},
		{
			name:      "rising sort",
			url:       "https://www.reddit.com/r/wallpapers/rising",
			subreddit: "wallpapers",
		},
		{
			name:    "unsupported sort",
			url:     "https://www.reddit.com/r/golang/controversial",
			wantErr: true,
		},
		{
			name:    "wrong host",
			url:     "https://old.reddit.com/r/golang",
			wantErr: true,
		},
		{
			name:    "no www",
			url:     "https://reddit.com/r/golang",
			wantErr: true,
		},
		{
			name:    "not a feed path",
			url:     "https://www.reddit.com/user/spez",
			wantErr: true,
		},
		{
			name:    "subreddit too short",
			url:     "https://www.reddit.com/r/ab",
			wantErr: true,
		},
		{
			name:    "subreddit too long",
			url:     "https://www.reddit.com/r/abcdefghijklmnopqrstuv",
			wantErr: true,
		},
		{
			name:    "post page not a feed",
			url:     "https://www.reddit.com/r/golang/comments/1abc2d/title",
			wantErr: true,
		},
		{
			name:    "bad scheme",
			url:     "ftp://www.reddit.com/r/golang",
			wantErr: true,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := ValidateFeedURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.subreddit, sub)
		})
	}
}

func TestIDFromPermalink(t *testing.T) {
	tests := []struct {
		permalink string
		want      string
	}{
		{"https://www.reddit.com/r/golang/comments/1abc2d/some_title/", "t3_1abc2d"},
		{"/r/golang/comments/1abc2d/some_title/", "t3_1abc2d"},
		{"https://www.reddit.com/r/golang/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IDFromPermalink(tt.permalink), "permalink %q", tt.permalink)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://i.redd.it/abc.jpg", "https://i.redd.it/abc.jpg"},
		{"http://example.com/x", "http://example.com/x"},
		{"/r/golang/comments/1abc2d/title/", "https://www.reddit.com/r/golang/comments/1abc2d/title/"},
		{"r/golang", "https://www.reddit.com/r/golang"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AbsoluteURL(tt.href), "href %q", tt.href)
	}
}
