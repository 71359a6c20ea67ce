package playlist

import (
	"fmt"
	"time"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/model"
	"github.com/retailcast/retailcast/internal/territory"
)

// clockLayout is the operator-facing time-of-day format for time triggers.
const clockLayout = "03:04 PM"

// validate checks every precondition before any store call happens. A
// failure here means no state changed anywhere. The trigger interval is
// normalized in place (clamp below 5, floor to a multiple of 5).
func (e *Engine) validate(p *model.Playlist) error {
	if p.Name == "" {
		return errs.Invalid("name", "playlist name is required")
	}

	if len(p.Items) == 0 {
		return errs.Invalid("items", "playlist needs at least one content item")
	}
	for i, item := range p.Items {
		if item.Duration <= 0 {
			return errs.Invalid("items", fmt.Sprintf("item %d: duration must be positive", i+1))
		}
		c, err := e.store.GetContent(item.ContentID)
		if err != nil {
			return errs.Invalid("items", fmt.Sprintf("item %d: content %d does not exist", i+1, item.ContentID))
		}
		if !c.Active {
			return errs.Invalid("items", fmt.Sprintf("item %d: content %q is disabled", i+1, c.Title))
		}
		if natural := videoLength(c); natural > 0 && item.Duration > natural {
			return errs.Invalid("items", fmt.Sprintf("item %d: duration %ds exceeds video length %ds", i+1, item.Duration, natural))
		}
	}

	if err := e.validateDates(p); err != nil {
		return err
	}

	// Manually typed store ids are gated before the selection is accepted.
	if p.Territory.Type == model.TerritoryStore {
		for _, id := range p.Territory.ManualStores {
			if err := territory.ValidateManualID(id, e.dir); err != nil {
				return err
			}
		}
	}

	if p.Type == model.PlaylistTrigger {
		return validateTrigger(p.Trigger)
	}
	return nil
}

func (e *Engine) validateDates(p *model.Playlist) error {
	if p.StartDate.After(p.EndDate) {
		return errs.Invalid("dates", "start date must not be after end date")
	}
	if p.EndDate.After(p.StartDate.AddDate(1, 0, 0)) {
		return errs.Invalid("dates", "date range must not exceed one year")
	}
	today := e.now().UTC().Truncate(24 * time.Hour)
	if p.EndDate.Before(today) {
		return errs.Invalid("dates", "end date must not be in the past")
	}
	return nil
}

func validateTrigger(t *model.Trigger) error {
	if t == nil || t.Subtype == "" {
		return errs.Invalid("trigger", "trigger playlists need a trigger subtype")
	}
	if t.Subtype != model.TriggerTime {
		return nil
	}

	start, err := time.Parse(clockLayout, t.StartTime)
	if err != nil {
		return errs.Invalid("trigger", "start time must look like 08:00 AM")
	}
	stop, err := time.Parse(clockLayout, t.StopTime)
	if err != nil {
		return errs.Invalid("trigger", "stop time must look like 06:00 PM")
	}
	// Both times land on the same reference day, so this also rules out
	// any midnight rollover.
	if !start.Before(stop) {
		return errs.Invalid("trigger", "start time must be before stop time")
	}

	if t.IntervalMinutes < 5 {
		t.IntervalMinutes = 5
	}
	t.IntervalMinutes -= t.IntervalMinutes % 5
	return nil
}

// videoLength returns the longest video slide length of a content record,
// zero when it has no video slides.
func videoLength(c model.Content) int {
	longest := 0
	for _, s := range c.Slides {
		if s.Type == model.SlideVideo && s.Length > longest {
			longest = s.Length
		}
	}
	return longest
}
