package storage

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager writes downloaded media under <mediaDir>/<postID>/<name><ext>.
// Writes are atomic (temp file + rename); the same destination written
// twice overwrites silently, which is the collision policy for re-runs.
type Manager struct {
	mediaDir string
	saved    map[string]bool
	mu       sync.RWMutex
}

// NewManager creates a storage manager rooted at mediaDir. The directory is
// created and probed with a throwaway write so permission problems surface
// before any browser work starts.
func NewManager(mediaDir string) (*Manager, error) {
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	probe := filepath.Join(mediaDir, ".redscrape-probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return nil, fmt.Errorf("media directory is not writable: %w", err)
	}
	os.Remove(probe)

	return &Manager{
		mediaDir: mediaDir,
		saved:    make(map[string]bool),
	}, nil
}

// SaveMedia writes one media file for a post. ext must include the leading
// dot (as produced by ExtensionFor).
func (m *Manager) SaveMedia(r io.Reader, postID, name, ext string) error {
	dir := filepath.Join(m.mediaDir, sanitize(postID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create post directory: %w", err)
	}

	filename := filepath.Join(dir, sanitize(name)+ext)

	// Write to a temp file first so a failed download never leaves a
	// truncated media file behind.
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save media data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.saved[filename] = true
	m.mu.Unlock()

	return nil
}

// MediaDir returns the root media directory path.
func (m *Manager) MediaDir() string {
	return m.mediaDir
}

// SavedCount returns the number of files written this session.
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

// curated fallbacks for types where mime.ExtensionsByType is unhelpful or
// platform-dependent
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ExtensionFor picks a file extension from the response Content-Type,
// falling back to the source URL's path when the type is missing or
// unknown. Always returns something usable, ".bin" at worst.
func ExtensionFor(contentType, sourceURL string) string {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.HasPrefix(mediaType, "image/") {
			if ext, ok := extByContentType[mediaType]; ok {
				return ext
			}
			if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
				return exts[0]
			}
		}
	}

	if u, err := url.Parse(sourceURL); err == nil {
		if ext := strings.ToLower(filepath.Ext(u.Path)); ext != "" && ext != "." {
			return ext
		}
	}

	return ".bin"
}

// sanitize strips path separators out of externally derived name segments.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, string(filepath.Separator), "_")
	s = strings.ReplaceAll(s, "..", "_")
	if s == "" {
		return "_"
	}
	return s
}
