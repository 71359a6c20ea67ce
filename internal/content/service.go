// Package content wraps the content collection with push-channel events:
// every mutation publishes the changed record on the contentUpdate topic.
package content

import (
	"github.com/retailcast/retailcast/internal/bus"
	"github.com/retailcast/retailcast/internal/db"
	"github.com/retailcast/retailcast/internal/model"
)

// Service is the operator-facing surface for content records.
type Service struct {
	store *db.Store
	bus   *bus.Bus
}

func NewService(store *db.Store, b *bus.Bus) *Service {
	return &Service{store: store, bus: b}
}

// Create persists a new content record and announces it.
func (s *Service) Create(c model.Content) (model.Content, error) {
	saved, err := s.store.CreateContent(c)
	if err != nil {
		return model.Content{}, err
	}
	s.bus.Publish(bus.TopicContentUpdate, saved)
	return saved, nil
}

// Get fetches one content record.
func (s *Service) Get(id int) (model.Content, error) {
	return s.store.GetContent(id)
}

// List returns all content records.
func (s *Service) List() ([]model.Content, error) {
	return s.store.ListContent()
}

// Update upserts an existing content record and announces the new state.
func (s *Service) Update(c model.Content) (model.Content, error) {
	saved, err := s.store.UpdateContent(c)
	if err != nil {
		return model.Content{}, err
	}
	s.bus.Publish(bus.TopicContentUpdate, saved)
	return saved, nil
}

// Disable permanently disables content and announces it. A failed disable
// publishes nothing.
func (s *Service) Disable(id int) (model.Content, error) {
	disabled, err := s.store.DisableContent(id)
	if err != nil {
		return model.Content{}, err
	}
	s.bus.Publish(bus.TopicContentUpdate, disabled)
	return disabled, nil
}
