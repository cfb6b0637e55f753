package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"redscrape/pkg/reddit"
)

// IndexWriter appends scraped posts to an NDJSON file, one post per line.
// Lines are written in the order posts are passed in, so the file preserves
// discovery order.
type IndexWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewIndexWriter creates (or truncates) the index file at path.
func NewIndexWriter(path string) (*IndexWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create index file: %w", err)
	}

	return &IndexWriter{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// WritePost appends one post as a JSON line.
func (w *IndexWriter) WritePost(post reddit.Post) error {
	if err := w.enc.Encode(post); err != nil {
		return fmt.Errorf("failed to encode post %s: %w", post.ID, err)
	}
	return nil
}

// WriteAll appends every post in order.
func (w *IndexWriter) WriteAll(posts []reddit.Post) error {
	for _, p := range posts {
		if err := w.WritePost(p); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the index file.
func (w *IndexWriter) Close() error {
	return w.file.Close()
}
