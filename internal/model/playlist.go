package model

import "time"

// Playlist statuses. An unset status is observed as pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Playlist types.
const (
	PlaylistRegular = "regular"
	PlaylistTrigger = "trigger"
)

// Trigger subtypes.
const (
	TriggerTime   = "time"
	TriggerMotion = "motion"
)

// Territory selection types.
const (
	TerritoryCountry = "country"
	TerritoryState   = "state"
	TerritoryCity    = "city"
	TerritoryStore   = "store"
)

// TerritorySelection is the geographic targeting scope of a playlist.
// Slice order is selection order and is significant for region-code
// encoding.
type TerritorySelection struct {
	Type           string   `json:"type"`
	States         []string `json:"states,omitempty"`
	Cities         []string `json:"cities,omitempty"`
	PickedStores   []string `json:"picked_stores,omitempty"`
	ManualStores   []string `json:"manual_stores,omitempty"`
	ResolvedStores []string `json:"resolved_stores,omitempty"`
}

type PlaylistItem struct {
	ContentID int `json:"content_id"`
	// Duration in seconds the item stays on screen.
	Duration int `json:"duration"`
}

// Trigger carries the sub-parameters of a trigger-type playlist. Times use
// the clock format "03:04 PM" and must fall within one calendar day.
type Trigger struct {
	Subtype         string `json:"subtype"`
	StartTime       string `json:"start_time,omitempty"`
	StopTime        string `json:"stop_time,omitempty"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
}

type Playlist struct {
	ID        int                `json:"id"`
	Name      string             `json:"name"`
	Territory TerritorySelection `json:"territory"`
	// RegionCode is the canonical encoding of Territory, computed at
	// create/edit time.
	RegionCode string         `json:"region_code"`
	Items      []PlaylistItem `json:"items"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	Type       string         `json:"type"`
	Trigger    *Trigger       `json:"trigger,omitempty"`
	Status     string         `json:"status,omitempty"`
	// Inactive is a terminal soft-disable, settable only from approved.
	Inactive bool `json:"inactive"`
	// Fork linkage. DraftOf points a pending draft at its approved source;
	// PendingDraftID marks the approved source while a draft is
	// outstanding.
	DraftOf              *int      `json:"draft_of,omitempty"`
	PendingDraftID       *int      `json:"pending_draft_id,omitempty"`
	ReplacedBy           *int      `json:"replaced_by,omitempty"`
	DisabledWhileEditing bool      `json:"disabled_while_editing,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// EffectiveStatus maps an unset status to pending.
func (p *Playlist) EffectiveStatus() string {
	if p.Status == "" {
		return StatusPending
	}
	return p.Status
}

// Live reports whether the playlist is currently eligible to play.
func (p *Playlist) Live() bool {
	return p.EffectiveStatus() == StatusApproved && !p.Inactive
}
