package scraper

import "redscrape/pkg/reddit"

// dedupTracker keeps the session's seen-ID set. A virtual-scroller feed
// re-renders the same posts on every snapshot, so most candidates in a pass
// are repeats; filterNew suppresses them in extraction order, which keeps
// suppression order-stable and surfaces each ID at most once per session.
//
// Provisional IDs (synthesized when an element carries no real identity)
// are held in a pending map and surface only on their second consecutive
// sighting with an unchanged value. A provisional ID that disappears for a
// pass starts over.
type dedupTracker struct {
	seen    map[string]bool
	pending map[string]int
	pass    int
}

func newDedupTracker() *dedupTracker {
	return &dedupTracker{
		seen:    make(map[string]bool),
		pending: make(map[string]int),
	}
}

// beginPass advances the pass counter; call once per snapshot.
func (d *dedupTracker) beginPass() {
	d.pass++
}

// filterNew returns the candidates not yet surfaced this session, in their
// original order, and marks them seen.
func (d *dedupTracker) filterNew(candidates []reddit.Post) []reddit.Post {
	var fresh []reddit.Post

	for _, p := range candidates {
		if d.seen[p.ID] {
			continue
		}

		if p.Provisional {
			lastSeen, ok := d.pending[p.ID]
			if !ok || lastSeen != d.pass-1 {
				// First sighting, or the sightings were not consecutive:
				// hold the candidate back.
				d.pending[p.ID] = d.pass
				continue
			}
			delete(d.pending, p.ID)
		}

		d.seen[p.ID] = true
		fresh = append(fresh, p)
	}

	return fresh
}

// seenCount reports how many distinct IDs have surfaced.
func (d *dedupTracker) seenCount() int {
	return len(d.seen)
}
