package db

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/model"
)

// CreatePlaylist persists a new playlist under an autogenerated key. Status
// is left exactly as given; the lifecycle engine owns its meaning.
func (s *Store) CreatePlaylist(p model.Playlist) (model.Playlist, error) {
	mu := s.lock(ColPlaylists)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UTC()
	p.ID = 0
	p.CreatedAt = now
	p.UpdatedAt = now

	id, err := s.insertAuto(ColPlaylists, p)
	if err != nil {
		log.Error().Err(err).Msg("failed to create playlist")
		return model.Playlist{}, err
	}
	p.ID = id
	if err := s.putDoc(ColPlaylists, id, p); err != nil {
		return model.Playlist{}, err
	}
	s.logActivity(ColPlaylists, itoa(id), "create")
	return p, nil
}

// GetPlaylist fetches one playlist.
func (s *Store) GetPlaylist(id int) (model.Playlist, error) {
	var p model.Playlist
	if err := s.getDoc(ColPlaylists, id, &p); err != nil {
		return model.Playlist{}, err
	}
	return p, nil
}

// ListPlaylists returns all playlists in key order.
func (s *Store) ListPlaylists() ([]model.Playlist, error) {
	docs, err := s.allDocs(ColPlaylists)
	if err != nil {
		return nil, err
	}
	out := make([]model.Playlist, 0, len(docs))
	for _, d := range docs {
		var p model.Playlist
		if err := json.Unmarshal([]byte(d), &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// UpdatePlaylist upserts an existing playlist record. This is a raw store
// write; every lifecycle rule lives in the engine, which calls this as part
// of its documented single-record sequences.
func (s *Store) UpdatePlaylist(p model.Playlist) (model.Playlist, error) {
	mu := s.lock(ColPlaylists)
	mu.Lock()
	defer mu.Unlock()

	var stored model.Playlist
	if err := s.getDoc(ColPlaylists, p.ID, &stored); err != nil {
		return model.Playlist{}, err
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if err := s.putDoc(ColPlaylists, p.ID, p); err != nil {
		return model.Playlist{}, err
	}
	s.logActivity(ColPlaylists, itoa(p.ID), "update")
	return p, nil
}
