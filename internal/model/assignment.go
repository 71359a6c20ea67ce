package model

import "time"

// Assignment links a physical display (by MAC) to a store. Keys are
// caller-supplied assignment ids.
type Assignment struct {
	ID           string  `json:"id"`
	StoreID      string  `json:"store_id"`
	DeviceTypeID string  `json:"device_type_id"`
	DeviceMAC    string  `json:"device_mac"`
	POSMAC       *string `json:"pos_mac,omitempty"`
	Orientation  string  `json:"orientation"`
	Active       bool    `json:"active"`
	// State is derived from the location resolver and cached write-through.
	// Empty means not yet resolved.
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
