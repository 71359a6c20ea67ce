// Package territory turns a playlist's territory selection into the
// canonical region code pushed to displays.
//
// Store ids carry fixed-position segments: "IN", a 2-char state code at
// [2:4] and a 3-char city code at [4:7] (e.g. INTN00001, INKABLR07). The
// encoder prefers those segments and falls back to name prefixes only when
// no store id is known for the state or city.
package territory

import (
	"regexp"
	"strings"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/model"
)

const countryCode = "IN"

// Encode produces the comma-separated region code for a selection. The
// output is deterministic: selection order is preserved everywhere and
// de-duplication keeps first-seen order, never map iteration order.
func Encode(sel model.TerritorySelection, dir *location.Directory) (string, error) {
	switch sel.Type {
	case model.TerritoryCountry:
		return countryCode, nil

	case model.TerritoryState:
		codes := make([]string, 0, len(sel.States))
		for _, state := range sel.States {
			codes = append(codes, countryCode+stateCode(state, dir))
		}
		return strings.Join(codes, ","), nil

	case model.TerritoryCity:
		return encodeCities(sel, dir), nil

	case model.TerritoryStore:
		ids := orderedUnion(sel.PickedStores, sel.ManualStores)
		if len(ids) == 0 {
			return encodeCities(sel, dir), nil
		}
		return strings.Join(ids, ","), nil

	default:
		return "", errs.Invalid("territory", "unknown territory type "+sel.Type)
	}
}

// encodeCities renders the cross product of selected states and cities, in
// selection order on both axes.
func encodeCities(sel model.TerritorySelection, dir *location.Directory) string {
	codes := make([]string, 0, len(sel.States)*len(sel.Cities))
	for _, state := range sel.States {
		sc := stateCode(state, dir)
		for _, city := range sel.Cities {
			codes = append(codes, countryCode+sc+cityCode(city, dir))
		}
	}
	return strings.Join(codes, ",")
}

// stateCode is the [2:4] segment of any known store id in the state, or the
// first two uppercased letters of the state name.
func stateCode(state string, dir *location.Directory) string {
	if st, ok := dir.StoreInState(state); ok {
		id := location.NormalizeID(st.ID)
		if len(id) >= 4 {
			return id[2:4]
		}
	}
	return prefix(state, 2)
}

// cityCode is the [4:7] segment of any known store id in the city, or the
// first three uppercased letters of the city name.
func cityCode(city string, dir *location.Directory) string {
	if st, ok := dir.StoreInCity(city); ok {
		id := location.NormalizeID(st.ID)
		if len(id) >= 7 {
			return id[4:7]
		}
	}
	return prefix(city, 3)
}

func prefix(name string, n int) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// orderedUnion de-duplicates the concatenation of both lists, keeping
// first-seen order. Ids are rendered verbatim.
func orderedUnion(picked, manual []string) []string {
	seen := make(map[string]bool, len(picked)+len(manual))
	var out []string
	for _, id := range append(append([]string{}, picked...), manual...) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

var manualIDPattern = regexp.MustCompile(`^IN[A-Za-z0-9]+$`)

// ValidateManualID gates a manually typed store id before it is accepted
// into a selection. Malformed ids and well-formed-but-unknown ids fail for
// distinct reasons.
func ValidateManualID(id string, dir *location.Directory) error {
	id = strings.TrimSpace(id)
	if len(id) < 6 || !manualIDPattern.MatchString(id) {
		return errs.Invalid("store_id", "malformed store id: want IN followed by at least 4 alphanumerics")
	}
	if _, ok := dir.StoreByID(id); !ok {
		return errs.Invalid("store_id", "store id not present in the store directory")
	}
	return nil
}

// ResolveStores expands a selection into the concrete store ids it targets,
// flat-directory file order for geographic selections, selection order for
// explicit store picks.
func ResolveStores(sel model.TerritorySelection, dir *location.Directory) []string {
	switch sel.Type {
	case model.TerritoryCountry:
		stores := dir.Stores()
		out := make([]string, 0, len(stores))
		for _, st := range stores {
			out = append(out, st.ID)
		}
		return out
	case model.TerritoryState:
		return dir.StoresInStates(sel.States)
	case model.TerritoryCity:
		return dir.StoresInCities(sel.Cities)
	case model.TerritoryStore:
		ids := orderedUnion(sel.PickedStores, sel.ManualStores)
		if len(ids) == 0 {
			return dir.StoresInCities(sel.Cities)
		}
		return ids
	default:
		return nil
	}
}
