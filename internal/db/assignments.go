package db

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/model"
)

// PutAssignment upserts an assignment under its caller-supplied id.
// Assignments are the one record kind that may also be deleted outright.
func (s *Store) PutAssignment(a model.Assignment) (model.Assignment, error) {
	mu := s.lock(ColAssignments)
	mu.Lock()
	defer mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return model.Assignment{}, errs.Invalid("id", "assignment id is required")
	}

	now := time.Now().UTC()
	var stored model.Assignment
	if err := s.getDoc(ColAssignments, a.ID, &stored); err == nil {
		a.CreatedAt = stored.CreatedAt
	} else {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	if err := s.putDoc(ColAssignments, a.ID, a); err != nil {
		log.Error().Err(err).Str("assignment", a.ID).Msg("failed to put assignment")
		return model.Assignment{}, err
	}
	s.logActivity(ColAssignments, a.ID, "put")
	return a, nil
}

// GetAssignment fetches one assignment.
func (s *Store) GetAssignment(id string) (model.Assignment, error) {
	var a model.Assignment
	if err := s.getDoc(ColAssignments, id, &a); err != nil {
		return model.Assignment{}, err
	}
	return a, nil
}

// ListAssignments returns all assignments in key order.
func (s *Store) ListAssignments() ([]model.Assignment, error) {
	docs, err := s.allDocs(ColAssignments)
	if err != nil {
		return nil, err
	}
	out := make([]model.Assignment, 0, len(docs))
	for _, d := range docs {
		var a model.Assignment
		if err := json.Unmarshal([]byte(d), &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// DeleteAssignment removes an assignment.
func (s *Store) DeleteAssignment(id string) error {
	mu := s.lock(ColAssignments)
	mu.Lock()
	defer mu.Unlock()

	if err := s.deleteDoc(ColAssignments, id); err != nil {
		return err
	}
	s.logActivity(ColAssignments, id, "delete")
	return nil
}
