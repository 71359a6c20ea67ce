package playlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcast/retailcast/internal/bus"
	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/model"
)

const storesFixture = `[
	{"id": "INTN00001", "name": "Warangal One", "city": "Warangal", "state": "Telangana"},
	{"id": "INKA00002", "name": "Bengaluru Two", "city": "Bengaluru", "state": "Karnataka"}
]`

type harness struct {
	engine  *Engine
	store   *db.Store
	imageID int
	videoID int
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store, err := db.Open(t.TempDir(), 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	refDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(refDir, location.StoresFile), []byte(storesFixture), 0o644))
	dir, err := location.Load(refDir)
	require.NoError(t, err)

	engine := NewEngine(store, dir, bus.New())
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }

	image, err := store.CreateContent(model.Content{
		Title:  "poster",
		Slides: []model.Slide{{Type: model.SlideImage, Payload: "poster.png"}},
	})
	require.NoError(t, err)
	video, err := store.CreateContent(model.Content{
		Title:  "spot",
		Slides: []model.Slide{{Type: model.SlideVideo, Payload: "spot.mp4", Length: 30}},
	})
	require.NoError(t, err)

	return &harness{engine: engine, store: store, imageID: image.ID, videoID: video.ID, now: now}
}

func (h *harness) draft(name string) model.Playlist {
	return model.Playlist{
		Name: name,
		Type: model.PlaylistRegular,
		Territory: model.TerritorySelection{
			Type:   model.TerritoryState,
			States: []string{"Telangana"},
		},
		Items:     []model.PlaylistItem{{ContentID: h.imageID, Duration: 10}},
		StartDate: h.now,
		EndDate:   h.now.AddDate(0, 0, 7),
	}
}

func TestCreateStartsPending(t *testing.T) {
	h := newHarness(t)

	p, err := h.engine.Create(h.draft("summer promo"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, p.EffectiveStatus())
	assert.Equal(t, "INTN", p.RegionCode)
	assert.Equal(t, []string{"INTN00001"}, p.Territory.ResolvedStores)
	assert.False(t, p.Live())
}

func TestValidationBlocksWithoutWrites(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name   string
		mutate func(*model.Playlist)
	}{
		{"empty name", func(p *model.Playlist) { p.Name = "" }},
		{"no items", func(p *model.Playlist) { p.Items = nil }},
		{"missing content", func(p *model.Playlist) { p.Items = []model.PlaylistItem{{ContentID: 999, Duration: 5}} }},
		{"start after end", func(p *model.Playlist) { p.StartDate = p.EndDate.AddDate(0, 0, 1) }},
		{"range over a year", func(p *model.Playlist) { p.EndDate = p.StartDate.AddDate(1, 0, 1) }},
		{"ended in the past", func(p *model.Playlist) {
			p.StartDate = p.StartDate.AddDate(0, 0, -30)
			p.EndDate = p.EndDate.AddDate(0, 0, -30)
		}},
		{"trigger without subtype", func(p *model.Playlist) { p.Type = model.PlaylistTrigger }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := h.draft("bad " + tc.name)
			tc.mutate(&p)
			_, err := h.engine.Create(p)
			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	all, err := h.store.ListPlaylists()
	require.NoError(t, err)
	assert.Empty(t, all, "failed validations must leave no records behind")
}

func TestVideoDurationCap(t *testing.T) {
	h := newHarness(t)

	p := h.draft("video loop")
	p.Items = []model.PlaylistItem{{ContentID: h.videoID, Duration: 60}}
	_, err := h.engine.Create(p)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)

	p.Items[0].Duration = 20
	_, err = h.engine.Create(p)
	assert.NoError(t, err)
}

func TestManualStoreIDsGateCreate(t *testing.T) {
	h := newHarness(t)

	withManual := func(ids ...string) model.Playlist {
		p := h.draft("hand picked")
		p.Territory = model.TerritorySelection{
			Type:         model.TerritoryStore,
			ManualStores: ids,
		}
		return p
	}

	t.Run("malformed id is rejected before any write", func(t *testing.T) {
		_, err := h.engine.Create(withManual("BAD1"))
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Reason, "malformed")
	})

	t.Run("well-formed but unknown id is rejected distinctly", func(t *testing.T) {
		_, err := h.engine.Create(withManual("INZZ99999"))
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Reason, "not present")
	})

	all, err := h.store.ListPlaylists()
	require.NoError(t, err)
	assert.Empty(t, all)

	t.Run("known id passes and lands in the region code", func(t *testing.T) {
		p, err := h.engine.Create(withManual("INTN00001"))
		require.NoError(t, err)
		assert.Equal(t, "INTN00001", p.RegionCode)
	})
}

func TestForkApproveChain(t *testing.T) {
	h := newHarness(t)

	p1, err := h.engine.Create(h.draft("window display"))
	require.NoError(t, err)

	p1, err = h.engine.Approve(p1.ID)
	require.NoError(t, err)
	assert.True(t, p1.Live())

	edited := h.draft("window display v2")
	p2, err := h.engine.EditApproved(p1.ID, edited)
	require.NoError(t, err)
	require.NotNil(t, p2.DraftOf)
	assert.Equal(t, p1.ID, *p2.DraftOf)
	assert.Equal(t, model.StatusPending, p2.EffectiveStatus())

	p1, err = h.store.GetPlaylist(p1.ID)
	require.NoError(t, err)
	require.NotNil(t, p1.PendingDraftID)
	assert.Equal(t, p2.ID, *p1.PendingDraftID)
	assert.True(t, p1.DisabledWhileEditing)
	assert.True(t, p1.Live(), "source stays live while the draft is pending")

	p2, err = h.engine.Approve(p2.ID)
	require.NoError(t, err)
	assert.True(t, p2.Live())

	p1, err = h.store.GetPlaylist(p1.ID)
	require.NoError(t, err)
	assert.True(t, p1.Inactive)
	require.NotNil(t, p1.ReplacedBy)
	assert.Equal(t, p2.ID, *p1.ReplacedBy)
	assert.Nil(t, p1.PendingDraftID)
	assert.False(t, p1.DisabledWhileEditing)
}

func TestForkRejectRestoresSource(t *testing.T) {
	h := newHarness(t)

	p1, err := h.engine.Create(h.draft("holiday loop"))
	require.NoError(t, err)
	p1, err = h.engine.Approve(p1.ID)
	require.NoError(t, err)

	p2, err := h.engine.EditApproved(p1.ID, h.draft("holiday loop draft"))
	require.NoError(t, err)

	_, err = h.engine.Reject(p2.ID)
	require.NoError(t, err)

	p1, err = h.store.GetPlaylist(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, p1.EffectiveStatus())
	assert.False(t, p1.Inactive)
	assert.Nil(t, p1.PendingDraftID)
	assert.False(t, p1.DisabledWhileEditing)
}

func TestSecondForkIsBlocked(t *testing.T) {
	h := newHarness(t)

	p1, err := h.engine.Create(h.draft("single fork"))
	require.NoError(t, err)
	p1, err = h.engine.Approve(p1.ID)
	require.NoError(t, err)

	_, err = h.engine.EditApproved(p1.ID, h.draft("fork one"))
	require.NoError(t, err)

	_, err = h.engine.EditApproved(p1.ID, h.draft("fork two"))
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "already outstanding")
}

func TestRejectedCanOnlyBeCloned(t *testing.T) {
	h := newHarness(t)

	p, err := h.engine.Create(h.draft("doomed"))
	require.NoError(t, err)
	p, err = h.engine.Reject(p.ID)
	require.NoError(t, err)

	_, err = h.engine.Approve(p.ID)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)

	clone, err := h.engine.CloneRejected(p.ID, h.now, h.now.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, clone.ID)
	assert.Equal(t, p.Name, clone.Name)
	assert.Equal(t, model.StatusPending, clone.EffectiveStatus())

	// The original stays rejected.
	p, err = h.store.GetPlaylist(p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, p.EffectiveStatus())
}

func TestDisableIsTerminal(t *testing.T) {
	h := newHarness(t)

	p, err := h.engine.Create(h.draft("short lived"))
	require.NoError(t, err)
	p, err = h.engine.Approve(p.ID)
	require.NoError(t, err)

	p, err = h.engine.Disable(p.ID)
	require.NoError(t, err)
	assert.True(t, p.Inactive)
	assert.False(t, p.Live())

	// Disabling again is a no-op, and a disabled playlist can't be edited.
	_, err = h.engine.Disable(p.ID)
	require.NoError(t, err)
	_, err = h.engine.EditApproved(p.ID, h.draft("too late"))
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestTimeTriggerValidation(t *testing.T) {
	h := newHarness(t)

	trigger := func(start, stop string, interval int) model.Playlist {
		p := h.draft("trigger loop")
		p.Type = model.PlaylistTrigger
		p.Trigger = &model.Trigger{
			Subtype:         model.TriggerTime,
			StartTime:       start,
			StopTime:        stop,
			IntervalMinutes: interval,
		}
		return p
	}

	t.Run("start must precede stop", func(t *testing.T) {
		_, err := h.engine.Create(trigger("08:00 AM", "08:00 AM", 15))
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Reason, "before stop")

		_, err = h.engine.Create(trigger("08:00 AM", "06:00 PM", 15))
		assert.NoError(t, err)
	})

	t.Run("interval normalizes to multiples of five", func(t *testing.T) {
		for raw, want := range map[int]int{3: 5, 5: 5, 12: 10, 17: 15} {
			p, err := h.engine.Create(trigger("09:00 AM", "05:00 PM", raw))
			require.NoError(t, err)
			assert.Equal(t, want, p.Trigger.IntervalMinutes, "raw interval %d", raw)
		}
	})
}
