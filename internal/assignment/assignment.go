// Package assignment manages device-to-store assignments, including the
// write-through `state` enrichment and bulk import.
package assignment

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/bus"
	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/location"
	"github.com/retailcast/retailcast/internal/model"
)

// Service wraps the assignments collection with enrichment and events.
type Service struct {
	store *db.Store
	dir   *location.Directory
	bus   *bus.Bus
}

func NewService(store *db.Store, dir *location.Directory, b *bus.Bus) *Service {
	return &Service{store: store, dir: dir, bus: b}
}

// Put upserts one assignment, resolving its state first when absent. Every
// write is a fresh chance to fill the cache.
func (s *Service) Put(a model.Assignment) (model.Assignment, error) {
	s.enrich(&a)
	saved, err := s.store.PutAssignment(a)
	if err != nil {
		return model.Assignment{}, err
	}
	s.bus.Publish(bus.TopicDeviceUpdate, saved)
	return saved, nil
}

// Get fetches one assignment without touching the cache.
func (s *Service) Get(id string) (model.Assignment, error) {
	return s.store.GetAssignment(id)
}

// List returns all assignments, resolving and persisting any missing state
// on the way out. The cache is only ever as stale as the last write or full
// read.
func (s *Service) List() ([]model.Assignment, error) {
	all, err := s.store.ListAssignments()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].State != "" {
			continue
		}
		if !s.enrich(&all[i]) {
			continue
		}
		saved, err := s.store.PutAssignment(all[i])
		if err != nil {
			log.Error().Err(err).Str("assignment", all[i].ID).Msg("failed to persist resolved state")
			continue
		}
		all[i] = saved
	}
	return all, nil
}

// Delete removes an assignment outright.
func (s *Service) Delete(id string) error {
	if err := s.store.DeleteAssignment(id); err != nil {
		return err
	}
	s.bus.Publish(bus.TopicDeviceUpdate, map[string]string{"deleted": id})
	return nil
}

// enrich fills the derived state field from the location resolver. Only a
// concrete state is cached; Unknown and Unassigned stay empty so later
// reference-data fixes can still land.
func (s *Service) enrich(a *model.Assignment) bool {
	if a.State != "" {
		return false
	}
	res := s.dir.Resolve(a.StoreID, "")
	if res.Kind != location.Resolved {
		return false
	}
	a.State = res.State
	return true
}

// normalizeMAC trims and uppercases a MAC for use as an assignment key.
func normalizeMAC(mac string) string {
	return strings.ToUpper(strings.TrimSpace(mac))
}
