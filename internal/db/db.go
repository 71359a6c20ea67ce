// Package db implements the console's persistent entity store: a set of
// named collections backed by a single local SQLite file, with forward-only
// versioned schema migration.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/retailcast/retailcast/internal/errs"
)

// Collection names.
const (
	ColContent     = "content"
	ColDevices     = "devices"
	ColAssignments = "assignments"
	ColPlaylists   = "playlists"
	ColActivityLog = "activity_log"
)

// collection describes one named record set. The schema is additive-only:
// a collection, once shipped at sinceVersion, is never altered or removed.
type collection struct {
	name    string
	autoKey bool
	since   int
}

var registry = []collection{
	{name: ColContent, autoKey: true, since: 1},
	{name: ColDevices, since: 1},
	{name: ColAssignments, since: 1},
	{name: ColPlaylists, autoKey: true, since: 1},
	{name: ColActivityLog, autoKey: true, since: 2},
}

// Store is a handle to the opened entity store. All writes to one collection
// are serialized behind that collection's mutex; reads go straight to SQLite.
type Store struct {
	db      *sqlx.DB
	version int
	mu      map[string]*sync.Mutex
}

// Open opens (or creates) the store at dir, migrating the schema forward to
// version. Opening is idempotent; requesting a version lower than the one
// already persisted is fatal and returns *errs.SchemaMigrationError.
func Open(dir string, version int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, "retailcast.db")

	conn, err := sqlx.Connect("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// SQLite allows a single writer at a time.
	conn.SetMaxOpenConns(1)

	s := &Store{
		db:      conn,
		version: version,
		mu:      make(map[string]*sync.Mutex, len(registry)),
	}
	for _, c := range registry {
		s.mu[c.name] = &sync.Mutex{}
	}

	if err := s.migrate(version); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Info().Str("path", path).Int("version", version).Msg("entity store open")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate brings the schema forward to the requested version. Never
// destructive, never a downgrade.
func (s *Store) migrate(requested int) error {
	if _, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_info (id INTEGER PRIMARY KEY CHECK (id = 1), version INTEGER NOT NULL)`,
	); err != nil {
		return fmt.Errorf("failed to create schema_info: %w", err)
	}

	var persisted int
	err := s.db.Get(&persisted, `SELECT version FROM schema_info WHERE id = 1`)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		persisted = 0
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if persisted > requested {
		return &errs.SchemaMigrationError{Persisted: persisted, Requested: requested}
	}

	for _, c := range registry {
		if c.since > requested {
			continue
		}
		keyType := "TEXT"
		if c.autoKey {
			keyType = "INTEGER"
		}
		ddl := fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (k %s PRIMARY KEY, doc TEXT NOT NULL)`,
			c.name, keyType,
		)
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", c.name, err)
		}
		if c.since > persisted {
			log.Info().Str("collection", c.name).Int("since", c.since).Msg("collection created by migration")
		}
	}

	if _, err := s.db.Exec(
		`INSERT INTO schema_info (id, version) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version`,
		requested,
	); err != nil {
		return fmt.Errorf("failed to persist schema version: %w", err)
	}
	return nil
}

// lock returns the write mutex for a collection.
func (s *Store) lock(col string) *sync.Mutex {
	return s.mu[col]
}

// getDoc fetches one record's JSON document into out.
func (s *Store) getDoc(col string, key any, out any) error {
	var doc string
	q := fmt.Sprintf(`SELECT doc FROM %s WHERE k = ?`, col)
	err := s.db.Get(&doc, q, key)
	if errors.Is(err, sql.ErrNoRows) {
		return &errs.NotFoundError{Collection: col, Key: fmt.Sprint(key)}
	}
	if err != nil {
		log.Error().Err(err).Str("collection", col).Msg("failed to get record")
		return err
	}
	return json.Unmarshal([]byte(doc), out)
}

// allDocs fetches every record's JSON document in key order.
func (s *Store) allDocs(col string) ([]string, error) {
	var docs []string
	q := fmt.Sprintf(`SELECT doc FROM %s ORDER BY k`, col)
	if err := s.db.Select(&docs, q); err != nil {
		log.Error().Err(err).Str("collection", col).Msg("failed to list records")
		return nil, err
	}
	return docs, nil
}

// putDoc upserts a record under a caller-supplied key. Caller must hold the
// collection lock.
func (s *Store) putDoc(col string, key any, rec any) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(
		`INSERT INTO %s (k, doc) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET doc = excluded.doc`,
		col,
	)
	if _, err := s.db.Exec(q, key, string(doc)); err != nil {
		log.Error().Err(err).Str("collection", col).Msg("failed to put record")
		return err
	}
	return nil
}

// insertAuto inserts a record into an auto-keyed collection and returns the
// generated numeric key. Caller must hold the collection lock and is expected
// to patch the key into the record and call putDoc again.
func (s *Store) insertAuto(col string, rec any) (int, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	var key int
	q := fmt.Sprintf(`INSERT INTO %s (doc) VALUES (?) RETURNING k`, col)
	if err := s.db.Get(&key, q, string(doc)); err != nil {
		log.Error().Err(err).Str("collection", col).Msg("failed to insert record")
		return 0, err
	}
	return key, nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// deleteDoc removes a record. Missing keys are a NotFoundError.
func (s *Store) deleteDoc(col string, key any) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE k = ?`, col)
	res, err := s.db.Exec(q, key)
	if err != nil {
		log.Error().Err(err).Str("collection", col).Msg("failed to delete record")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errs.NotFoundError{Collection: col, Key: fmt.Sprint(key)}
	}
	return nil
}
