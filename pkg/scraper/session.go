package scraper

import (
	"time"

	"github.com/google/uuid"
)

// session carries per-scrape identity and counters for logging.
type session struct {
	ID        string
	Subreddit string
	StartedAt time.Time

	Passes      int
	EmptyPasses int
}

func newSession(subreddit string) *session {
	return &session{
		ID:        uuid.NewString(),
		Subreddit: subreddit,
		StartedAt: time.Now(),
	}
}

// Fields returns the session's standard log fields.
func (s *session) Fields() map[string]interface{} {
	return map[string]interface{}{
		"session_id": s.ID,
		"subreddit":  s.Subreddit,
	}
}

// Elapsed reports time since the session started.
func (s *session) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}
