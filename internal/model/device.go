package model

import "time"

// Device orientations.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
	OrientationBoth       = "both"
)

type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DeviceType describes a class of display hardware. Names are unique among
// active device types, case-insensitive. Keys are caller-supplied.
type DeviceType struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Orientation string     `json:"orientation"`
	Resolution  Resolution `json:"resolution"`
	Active      bool       `json:"active"`
	// Terminal, same rule as content.
	PermanentlyDisabled bool      `json:"permanently_disabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
