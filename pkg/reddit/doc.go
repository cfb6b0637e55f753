// Package reddit contains the Reddit-specific domain logic: feed URL
// validation, post extraction from rendered listing-page HTML, media
// classification, and the HTTP client used to fetch media files.
//
// Extraction is a pure function of an HTML snapshot. The package never
// drives the browser; that is pkg/browser's job. Snapshots come from the
// shreddit web app, where every post in a listing is a <shreddit-post>
// custom element carrying its metadata as attributes.
package reddit
