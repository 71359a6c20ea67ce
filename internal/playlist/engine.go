// Package playlist owns the playlist approval state machine. Transitions
// are validated in full before the first store call; after that they run as
// explicit sequences of single-record writes, since the store offers no
// cross-record transactions. Intermediate states are documented on each
// method.
package playlist

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/bus"
	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/model"
	"github.com/retailcast/retailcast/internal/territory"
)

// Engine drives playlist lifecycle transitions.
type Engine struct {
	store *db.Store
	dir   *location.Directory
	bus   *bus.Bus
	now   func() time.Time
}

func NewEngine(store *db.Store, dir *location.Directory, b *bus.Bus) *Engine {
	return &Engine{store: store, dir: dir, bus: b, now: time.Now}
}

// Create validates and persists a new playlist in pending status.
func (e *Engine) Create(p model.Playlist) (model.Playlist, error) {
	if err := e.validate(&p); err != nil {
		return model.Playlist{}, err
	}

	code, err := territory.Encode(p.Territory, e.dir)
	if err != nil {
		return model.Playlist{}, err
	}
	p.RegionCode = code
	p.Territory.ResolvedStores = territory.ResolveStores(p.Territory, e.dir)

	p.Status = model.StatusPending
	p.Inactive = false
	p.DraftOf = nil
	p.PendingDraftID = nil
	p.ReplacedBy = nil
	p.DisabledWhileEditing = false

	created, err := e.store.CreatePlaylist(p)
	if err != nil {
		return model.Playlist{}, err
	}
	log.Info().Int("playlist", created.ID).Str("region", created.RegionCode).Msg("playlist created")
	return created, nil
}

// Approve moves a pending playlist to approved. For a draft the sequence is:
// first the draft itself is approved, then its source is superseded with
// {inactive, replacedBy, pendingDraftId cleared}. Between the two writes the
// draft and its source are both live; that window is accepted (single local
// writer).
func (e *Engine) Approve(id int) (model.Playlist, error) {
	p, err := e.store.GetPlaylist(id)
	if err != nil {
		return model.Playlist{}, err
	}
	if p.EffectiveStatus() != model.StatusPending {
		return model.Playlist{}, errs.Invalid("status", "only a pending playlist can be approved")
	}

	p.Status = model.StatusApproved
	p, err = e.store.UpdatePlaylist(p)
	if err != nil {
		return model.Playlist{}, err
	}

	if p.DraftOf != nil {
		if err := e.supersede(*p.DraftOf, p.ID); err != nil {
			return model.Playlist{}, err
		}
	}

	e.bus.Publish(bus.TopicContentUpdate, p)
	log.Info().Int("playlist", p.ID).Msg("playlist approved")
	return p, nil
}

// supersede retires the approved source of a just-approved draft.
func (e *Engine) supersede(sourceID, draftID int) error {
	src, err := e.store.GetPlaylist(sourceID)
	if err != nil {
		return err
	}
	src.Inactive = true
	src.ReplacedBy = &draftID
	src.PendingDraftID = nil
	src.DisabledWhileEditing = false
	if _, err := e.store.UpdatePlaylist(src); err != nil {
		return err
	}
	log.Info().Int("playlist", sourceID).Int("replaced_by", draftID).Msg("playlist superseded")
	return nil
}

// Reject moves a pending playlist to rejected. Rejecting a draft restores
// its source: the source stays live, untouched except for clearing the fork
// linkage.
func (e *Engine) Reject(id int) (model.Playlist, error) {
	p, err := e.store.GetPlaylist(id)
	if err != nil {
		return model.Playlist{}, err
	}
	if p.EffectiveStatus() != model.StatusPending {
		return model.Playlist{}, errs.Invalid("status", "only a pending playlist can be rejected")
	}

	p.Status = model.StatusRejected
	p, err = e.store.UpdatePlaylist(p)
	if err != nil {
		return model.Playlist{}, err
	}

	if p.DraftOf != nil {
		src, err := e.store.GetPlaylist(*p.DraftOf)
		if err != nil {
			return model.Playlist{}, err
		}
		src.PendingDraftID = nil
		src.DisabledWhileEditing = false
		if _, err := e.store.UpdatePlaylist(src); err != nil {
			return model.Playlist{}, err
		}
	}

	log.Info().Int("playlist", p.ID).Msg("playlist rejected")
	return p, nil
}

// CloneRejected copies a rejected playlist into a fresh pending record with
// new dates. The original is never resurrected.
func (e *Engine) CloneRejected(id int, startDate, endDate time.Time) (model.Playlist, error) {
	src, err := e.store.GetPlaylist(id)
	if err != nil {
		return model.Playlist{}, err
	}
	if src.EffectiveStatus() != model.StatusRejected {
		return model.Playlist{}, errs.Invalid("status", "only a rejected playlist can be cloned")
	}

	clone := src
	clone.ID = 0
	clone.Status = ""
	clone.StartDate = startDate
	clone.EndDate = endDate
	clone.DraftOf = nil
	clone.PendingDraftID = nil
	clone.ReplacedBy = nil
	clone.Inactive = false
	clone.DisabledWhileEditing = false
	return e.Create(clone)
}

// EditApproved forks an approved playlist. The approved record is never
// mutated in place; instead a pending draft is created and the source is
// marked. Sequence: (1) read source, (2) create draft, (3) mark source with
// {pendingDraftId, disabledWhileEditing}. A crash between (2) and (3)
// leaves an unlinked draft, which is visible and harmless.
//
// At most one outstanding draft is allowed per approved playlist.
func (e *Engine) EditApproved(id int, edited model.Playlist) (model.Playlist, error) {
	src, err := e.store.GetPlaylist(id)
	if err != nil {
		return model.Playlist{}, err
	}
	if src.EffectiveStatus() != model.StatusApproved || src.Inactive {
		return model.Playlist{}, errs.Invalid("status", "only a live approved playlist can be edited")
	}
	if src.PendingDraftID != nil {
		return model.Playlist{}, errs.Invalid("pending_draft", "a draft is already outstanding for this playlist")
	}

	if err := e.validate(&edited); err != nil {
		return model.Playlist{}, err
	}

	code, err := territory.Encode(edited.Territory, e.dir)
	if err != nil {
		return model.Playlist{}, err
	}
	edited.RegionCode = code
	edited.Territory.ResolvedStores = territory.ResolveStores(edited.Territory, e.dir)

	edited.ID = 0
	edited.Status = model.StatusPending
	edited.DraftOf = &src.ID
	edited.PendingDraftID = nil
	edited.ReplacedBy = nil
	edited.Inactive = false
	edited.DisabledWhileEditing = false

	draft, err := e.store.CreatePlaylist(edited)
	if err != nil {
		return model.Playlist{}, err
	}

	src.PendingDraftID = &draft.ID
	src.DisabledWhileEditing = true
	if _, err := e.store.UpdatePlaylist(src); err != nil {
		return model.Playlist{}, err
	}

	log.Info().Int("playlist", src.ID).Int("draft", draft.ID).Msg("approved playlist forked for editing")
	return draft, nil
}

// Disable soft-disables a live approved playlist. Terminal: there is no
// reverse transition.
func (e *Engine) Disable(id int) (model.Playlist, error) {
	p, err := e.store.GetPlaylist(id)
	if err != nil {
		return model.Playlist{}, err
	}
	if p.EffectiveStatus() != model.StatusApproved {
		return model.Playlist{}, errs.Invalid("status", "only an approved playlist can be disabled")
	}
	if p.Inactive {
		return p, nil
	}

	p.Inactive = true
	p, err = e.store.UpdatePlaylist(p)
	if err != nil {
		return model.Playlist{}, err
	}
	e.bus.Publish(bus.TopicContentUpdate, p)
	log.Info().Int("playlist", p.ID).Msg("playlist disabled")
	return p, nil
}
