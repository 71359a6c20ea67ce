package model

// StoreLocation is one entry of the flat, authoritative store directory.
type StoreLocation struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Hierarchy mirrors the legacy nested location tree. It is maintained
// independently of the flat directory and occasionally disagrees with it;
// the flat directory always wins on conflict.
type Hierarchy struct {
	Countries []HierarchyCountry `json:"countries"`
}

type HierarchyCountry struct {
	Name   string           `json:"name"`
	States []HierarchyState `json:"states"`
}

type HierarchyState struct {
	Name   string          `json:"name"`
	Cities []HierarchyCity `json:"cities"`
}

type HierarchyCity struct {
	Name   string           `json:"name"`
	Stores []HierarchyStore `json:"stores"`
}

type HierarchyStore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
