package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redscrape/pkg/reddit"
)

func post(id string) reddit.Post {
	return reddit.Post{ID: id}
}

func provisionalPost(id string) reddit.Post {
	return reddit.Post{ID: id, Provisional: true}
}

func TestDedupSuppressesRepeats(t *testing.T) {
	d := newDedupTracker()

	d.beginPass()
	fresh := d.filterNew([]reddit.Post{post("t3_a"), post("t3_b")})
	require.Len(t, fresh, 2)

	// The virtual scroller re-renders old posts alongside new ones.
	d.beginPass()
	fresh = d.filterNew([]reddit.Post{post("t3_a"), post("t3_b"), post("t3_c")})
	require.Len(t, fresh, 1)
	assert.Equal(t, "t3_c", fresh[0].ID)

	assert.Equal(t, 3, d.seenCount())
}

func TestDedupOrderStable(t *testing.T) {
	d := newDedupTracker()

	d.beginPass()
	fresh := d.filterNew([]reddit.Post{post("t3_x"), post("t3_y"), post("t3_z")})

	require.Len(t, fresh, 3)
	for i, want := range []string{"t3_x", "t3_y", "t3_z"} {
		assert.Equal(t, want, fresh[i].ID)
	}
}

func TestDedupDuplicateWithinOnePass(t *testing.T) {
	d := newDedupTracker()

	d.beginPass()
	fresh := d.filterNew([]reddit.Post{post("t3_a"), post("t3_a")})
	assert.Len(t, fresh, 1)
}

func TestDedupNoDuplicateIDsAcrossManyPasses(t *testing.T) {
	d := newDedupTracker()
	surfaced := make(map[string]int)

	for pass := 0; pass < 5; pass++ {
		d.beginPass()
		var candidates []reddit.Post
		for i := 0; i <= pass*3+3; i++ {
			candidates = append(candidates, post(fmt.Sprintf("t3_p%d", i)))
		}
		for _, p := range d.filterNew(candidates) {
			surfaced[p.ID]++
		}
	}

	for id, count := range surfaced {
		assert.Equal(t, 1, count, "ID %s surfaced %d times", id, count)
	}
}

func TestProvisionalHeldUntilSecondConsecutiveSighting(t *testing.T) {
	d := newDedupTracker()

	// First sighting: held back.
	d.beginPass()
	fresh := d.filterNew([]reddit.Post{provisionalPost("prov:x")})
	assert.Empty(t, fresh)

	// Second consecutive sighting with the same ID: surfaces once.
	d.beginPass()
	fresh = d.filterNew([]reddit.Post{provisionalPost("prov:x")})
	require.Len(t, fresh, 1)
	assert.Equal(t, "prov:x", fresh[0].ID)

	// Never again.
	d.beginPass()
	fresh = d.filterNew([]reddit.Post{provisionalPost("prov:x")})
	assert.Empty(t, fresh)
}

func TestProvisionalNonConsecutiveSightingsStartOver(t *testing.T) {
	d := newDedupTracker()

	d.beginPass()
	assert.Empty(t, d.filterNew([]reddit.Post{provisionalPost("prov:x")}))

	// The provisional ID disappears for a pass.
	d.beginPass()
	assert.Empty(t, d.filterNew(nil))

	// Reappearing is a first sighting again.
	d.beginPass()
	assert.Empty(t, d.filterNew([]reddit.Post{provisionalPost("prov:x")}))

	d.beginPass()
	fresh := d.filterNew([]reddit.Post{provisionalPost("prov:x")})
	assert.Len(t, fresh, 1)
}

func TestProvisionalDoesNotBlockStableIDs(t *testing.T) {
	d := newDedupTracker()

	d.beginPass()
	fresh := d.filterNew([]reddit.Post{post("t3_a"), provisionalPost("prov:x"), post("t3_b")})

	require.Len(t, fresh, 2)
	assert.Equal(t, "t3_a", fresh[0].ID)
	assert.Equal(t, "t3_b", fresh[1].ID)
}
