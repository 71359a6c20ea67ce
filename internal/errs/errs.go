// Package errs defines the structured error taxonomy shared by the store,
// the resolver and the playlist engine.
package errs

import "fmt"

// ValidationError blocks a state transition. No store mutation happens once
// one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid is shorthand for a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a get/update against a missing key.
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no record with key %q", e.Collection, e.Key)
}

// DuplicateNameError reports a name collision among active device types.
// Comparison is case-insensitive.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an active device type named %q already exists", e.Name)
}

// SchemaMigrationError is fatal at startup: the on-disk schema is newer than
// the version the caller asked to open.
type SchemaMigrationError struct {
	Persisted int
	Requested int
}

func (e *SchemaMigrationError) Error() string {
	return fmt.Sprintf("schema downgrade refused: store is at version %d, requested %d", e.Persisted, e.Requested)
}

// ImportRowError is collected per row during bulk import; it never aborts the
// batch.
type ImportRowError struct {
	Row    int
	Reason string
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}
