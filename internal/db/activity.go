package db

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// ActivityEntry is one line of the store's mutation log.
type ActivityEntry struct {
	ID         int       `json:"id"`
	At         time.Time `json:"at"`
	Collection string    `json:"collection"`
	Key        string    `json:"key"`
	Action     string    `json:"action"`
}

// logActivity appends a mutation record. Best effort: a failed append never
// fails the mutation it describes.
func (s *Store) logActivity(col, key, action string) {
	mu := s.lock(ColActivityLog)
	mu.Lock()
	defer mu.Unlock()

	e := ActivityEntry{At: time.Now().UTC(), Collection: col, Key: key, Action: action}
	id, err := s.insertAuto(ColActivityLog, e)
	if err != nil {
		log.Error().Err(err).Str("collection", col).Str("action", action).Msg("failed to append activity log")
		return
	}
	e.ID = id
	if err := s.putDoc(ColActivityLog, id, e); err != nil {
		log.Error().Err(err).Msg("failed to finalize activity entry")
	}
}

// ActivityLog returns every logged mutation in append order.
func (s *Store) ActivityLog() ([]ActivityEntry, error) {
	docs, err := s.allDocs(ColActivityLog)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityEntry, 0, len(docs))
	for _, d := range docs {
		var e ActivityEntry
		if err := json.Unmarshal([]byte(d), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
