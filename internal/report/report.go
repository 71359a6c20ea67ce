// Package report provides read-only rollups over the entity store. It never
// writes; it is a consumer of the other components' read contracts.
package report

import (
	"sort"

	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/model"
)

// UnknownBucket labels assignments whose store reference no location source
// can place. Records with no store reference at all are excluded from the
// rollup entirely.
const UnknownBucket = "Unknown"

type Reporter struct {
	store *db.Store
	dir   *location.Directory
}

func New(store *db.Store, dir *location.Directory) *Reporter {
	return &Reporter{store: store, dir: dir}
}

// AssignmentsByState counts active assignments per state. Cached states are
// trusted; uncached ones are resolved on the fly without writing back.
func (r *Reporter) AssignmentsByState() (map[string]int, error) {
	all, err := r.store.ListAssignments()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, a := range all {
		if !a.Active {
			continue
		}
		if a.State != "" {
			out[a.State]++
			continue
		}
		res := r.dir.Resolve(a.StoreID, "")
		switch res.Kind {
		case location.Resolved:
			out[res.State]++
		case location.Unknown:
			out[UnknownBucket]++
		case location.Unassigned:
			// no store reference, stays out of the rollup
		}
	}
	return out, nil
}

// PlaylistsByStatus counts playlists per effective status, with live ones
// broken out under "live".
func (r *Reporter) PlaylistsByStatus() (map[string]int, error) {
	all, err := r.store.ListPlaylists()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, p := range all {
		out[p.EffectiveStatus()]++
		if p.Live() {
			out["live"]++
		}
	}
	return out, nil
}

// Overlap pairs two live playlists whose resolved store sets and date
// ranges intersect. Overlap is legal (it happens mid-rollout) but worth
// auditing.
type Overlap struct {
	A, B   int
	Stores []string
}

// LiveOverlaps reports every pair of live playlists targeting at least one
// common store over an intersecting date range.
func (r *Reporter) LiveOverlaps() ([]Overlap, error) {
	all, err := r.store.ListPlaylists()
	if err != nil {
		return nil, err
	}
	var live []model.Playlist
	for _, p := range all {
		if p.Live() {
			live = append(live, p)
		}
	}

	var out []Overlap
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			a, b := live[i], live[j]
			if a.StartDate.After(b.EndDate) || b.StartDate.After(a.EndDate) {
				continue
			}
			shared := intersect(a.Territory.ResolvedStores, b.Territory.ResolvedStores)
			if len(shared) == 0 {
				continue
			}
			sort.Strings(shared)
			out = append(out, Overlap{A: a.ID, B: b.ID, Stores: shared})
		}
	}
	return out, nil
}

func intersect(a, b []string) []string {
	in := make(map[string]bool, len(a))
	for _, id := range a {
		in[id] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, id := range b {
		if in[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
