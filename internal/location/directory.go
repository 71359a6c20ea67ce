// Package location loads the two store-location hierarchies and resolves
// store references to states with fixed precedence: the flat directory is
// authoritative, the nested legacy tree is consulted only when the flat
// directory is silent.
package location

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/model"
)

// Reference file names under the reference directory.
const (
	StoresFile    = "stores.json"
	HierarchyFile = "hierarchy.json"
)

// snapshot is one immutable load of both sources. Lookups never mutate it;
// reloads swap the whole thing.
type snapshot struct {
	stores    []model.StoreLocation
	byID      map[string]model.StoreLocation
	byName    map[string]model.StoreLocation
	hierarchy model.Hierarchy
}

// Directory holds the current reference-data snapshot.
type Directory struct {
	mu   sync.RWMutex
	dir  string
	snap *snapshot
}

// Load reads stores.json and hierarchy.json from dir. A missing hierarchy
// file leaves the legacy tree empty; a missing flat directory is an error
// since it is the authoritative source.
func Load(dir string) (*Directory, error) {
	d := &Directory{dir: dir}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads both files and swaps the snapshot in.
func (d *Directory) Reload() error {
	raw, err := os.ReadFile(filepath.Join(d.dir, StoresFile))
	if err != nil {
		return err
	}
	var stores []model.StoreLocation
	if err := json.Unmarshal(raw, &stores); err != nil {
		return err
	}

	var hier model.Hierarchy
	hraw, err := os.ReadFile(filepath.Join(d.dir, HierarchyFile))
	switch {
	case os.IsNotExist(err):
		log.Warn().Str("dir", d.dir).Msg("no hierarchy file; legacy lookups disabled")
	case err != nil:
		return err
	default:
		if err := json.Unmarshal(hraw, &hier); err != nil {
			return err
		}
	}

	snap := &snapshot{
		stores:    stores,
		byID:      make(map[string]model.StoreLocation, len(stores)),
		byName:    make(map[string]model.StoreLocation, len(stores)),
		hierarchy: hier,
	}
	for _, st := range stores {
		id := NormalizeID(st.ID)
		if id == "" {
			continue
		}
		if _, dup := snap.byID[id]; !dup {
			snap.byID[id] = st
		}
		name := normalizeName(st.Name)
		if name != "" {
			if _, dup := snap.byName[name]; !dup {
				snap.byName[name] = st
			}
		}
	}

	d.mu.Lock()
	d.snap = snap
	d.mu.Unlock()
	log.Info().Int("stores", len(stores)).Msg("location reference data loaded")
	return nil
}

func (d *Directory) current() *snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Stores returns the flat directory in file order.
func (d *Directory) Stores() []model.StoreLocation {
	return d.current().stores
}

// StoreByID looks a store up by normalized id in the flat directory.
func (d *Directory) StoreByID(id string) (model.StoreLocation, bool) {
	st, ok := d.current().byID[NormalizeID(id)]
	return st, ok
}

// StoreByName looks a store up by trimmed, case-insensitive name in the flat
// directory.
func (d *Directory) StoreByName(name string) (model.StoreLocation, bool) {
	st, ok := d.current().byName[normalizeName(name)]
	return st, ok
}

// StoreInState returns the first flat-directory store in the given state,
// file order. Used for deriving region-code segments.
func (d *Directory) StoreInState(state string) (model.StoreLocation, bool) {
	want := normalizeName(state)
	for _, st := range d.current().stores {
		if normalizeName(st.State) == want {
			return st, true
		}
	}
	return model.StoreLocation{}, false
}

// StoreInCity returns the first flat-directory store in the given city.
func (d *Directory) StoreInCity(city string) (model.StoreLocation, bool) {
	want := normalizeName(city)
	for _, st := range d.current().stores {
		if normalizeName(st.City) == want {
			return st, true
		}
	}
	return model.StoreLocation{}, false
}

// StoresInStates returns ids of flat-directory stores in any of the given
// states, file order.
func (d *Directory) StoresInStates(states []string) []string {
	want := make(map[string]bool, len(states))
	for _, s := range states {
		want[normalizeName(s)] = true
	}
	var out []string
	for _, st := range d.current().stores {
		if want[normalizeName(st.State)] {
			out = append(out, st.ID)
		}
	}
	return out
}

// StoresInCities returns ids of flat-directory stores in any of the given
// cities, file order.
func (d *Directory) StoresInCities(cities []string) []string {
	want := make(map[string]bool, len(cities))
	for _, c := range cities {
		want[normalizeName(c)] = true
	}
	var out []string
	for _, st := range d.current().stores {
		if want[normalizeName(st.City)] {
			out = append(out, st.ID)
		}
	}
	return out
}

// NormalizeID trims and uppercases a store id for comparison.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
