// Package storage provides file management for downloaded media and the
// optional post index.
//
// The Manager type writes media files under a per-post subdirectory
// (<media-dir>/<postID>/<name><ext>) with atomic temp-file + rename writes,
// so an interrupted download never leaves a truncated file behind. The
// media directory is probed for writability at construction time.
//
// The IndexWriter type appends scraped posts to an NDJSON file, one post
// per line, preserving discovery order.
//
// Usage:
//
//	manager, err := storage.NewManager("media")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ext := storage.ExtensionFor("image/png", mediaURL)
//	err = manager.SaveMedia(bytes.NewReader(data), "t3_1abc2d", "x7k2p9", ext)
package storage
