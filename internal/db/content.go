package db

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/model"
)

// CreateContent persists a new content record under an autogenerated key.
func (s *Store) CreateContent(c model.Content) (model.Content, error) {
	mu := s.lock(ColContent)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UTC()
	c.ID = 0
	c.Active = true
	c.PermanentlyDisabled = false
	c.CreatedAt = now
	c.UpdatedAt = now

	id, err := s.insertAuto(ColContent, c)
	if err != nil {
		log.Error().Err(err).Msg("failed to create content")
		return model.Content{}, err
	}
	c.ID = id
	if err := s.putDoc(ColContent, id, c); err != nil {
		return model.Content{}, err
	}
	s.logActivity(ColContent, itoa(id), "create")
	return c, nil
}

// GetContent fetches one content record.
func (s *Store) GetContent(id int) (model.Content, error) {
	var c model.Content
	if err := s.getDoc(ColContent, id, &c); err != nil {
		return model.Content{}, err
	}
	return c, nil
}

// ListContent returns all content records in key order.
func (s *Store) ListContent() ([]model.Content, error) {
	docs, err := s.allDocs(ColContent)
	if err != nil {
		return nil, err
	}
	out := make([]model.Content, 0, len(docs))
	for _, d := range docs {
		var c model.Content
		if err := json.Unmarshal([]byte(d), &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// UpdateContent upserts an existing content record. Re-activating a
// permanently disabled record is rejected; the disable flag is one-way.
func (s *Store) UpdateContent(c model.Content) (model.Content, error) {
	mu := s.lock(ColContent)
	mu.Lock()
	defer mu.Unlock()

	var stored model.Content
	if err := s.getDoc(ColContent, c.ID, &stored); err != nil {
		return model.Content{}, err
	}
	if stored.PermanentlyDisabled {
		if c.Active {
			return model.Content{}, errs.Invalid("active", "content is permanently disabled and cannot be re-enabled")
		}
		c.Active = false
		c.PermanentlyDisabled = true
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	if err := s.putDoc(ColContent, c.ID, c); err != nil {
		return model.Content{}, err
	}
	s.logActivity(ColContent, itoa(c.ID), "update")
	return c, nil
}

// DisableContent turns content off for good. Idempotent; there is no
// reverse operation.
func (s *Store) DisableContent(id int) (model.Content, error) {
	mu := s.lock(ColContent)
	mu.Lock()
	defer mu.Unlock()

	var c model.Content
	if err := s.getDoc(ColContent, id, &c); err != nil {
		return model.Content{}, err
	}
	c.Active = false
	c.PermanentlyDisabled = true
	c.UpdatedAt = time.Now().UTC()

	if err := s.putDoc(ColContent, id, c); err != nil {
		return model.Content{}, err
	}
	s.logActivity(ColContent, itoa(id), "disable")
	return c, nil
}
