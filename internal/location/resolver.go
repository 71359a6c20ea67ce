package location

// Kind classifies a resolution result. Unknown and Unassigned are distinct
// on purpose: Unassigned records carry no store reference at all and are
// excluded from state rollups, Unknown ones reference a store no source can
// place and get an explicit bucket.
type Kind int

const (
	Resolved Kind = iota
	Unknown
	Unassigned
)

// Resolution is the outcome of a store-to-state lookup.
type Resolution struct {
	Kind  Kind
	State string
}

// Resolve maps a store reference to a state. Precedence is fixed:
//
//	1. exact id match in the flat directory, when it carries a state
//	2. depth-first walk of the nested legacy tree, nearest enclosing state
//	3. with no id at all, name equality against the flat directory
//
// The flat directory always wins when the two sources disagree.
func (d *Directory) Resolve(storeID, name string) Resolution {
	id := NormalizeID(storeID)

	if id != "" {
		if st, ok := d.StoreByID(id); ok && st.State != "" {
			return Resolution{Kind: Resolved, State: st.State}
		}
		if state, ok := d.hierarchyStateOf(id); ok {
			return Resolution{Kind: Resolved, State: state}
		}
		return Resolution{Kind: Unknown}
	}

	if normalizeName(name) != "" {
		if st, ok := d.StoreByName(name); ok && st.State != "" {
			return Resolution{Kind: Resolved, State: st.State}
		}
		return Resolution{Kind: Unknown}
	}

	return Resolution{Kind: Unassigned}
}

// hierarchyStateOf walks the nested tree depth-first looking for a store
// leaf with the given normalized id, returning the enclosing state name.
func (d *Directory) hierarchyStateOf(id string) (string, bool) {
	for _, country := range d.current().hierarchy.Countries {
		for _, state := range country.States {
			for _, city := range state.Cities {
				for _, store := range city.Stores {
					if NormalizeID(store.ID) == id {
						return state.Name, true
					}
				}
			}
		}
	}
	return "", false
}
