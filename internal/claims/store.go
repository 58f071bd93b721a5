package claims

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a claim id is unknown to the store.
	ErrNotFound = errors.New("claim not found")

	// ErrTerminal is returned when a status change is requested for a claim that
	// already reached a terminal stage.
	ErrTerminal = errors.New("claim is in a terminal state")

	// ErrInvalidStatus is returned for status values outside the lifecycle.
	ErrInvalidStatus = errors.New("invalid claim status")
)

// Source supplies ordered snapshots of the provider's claims.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// Store is a Source that also accepts status changes and new records.
type Store interface {
	Source

	// Put inserts or replaces a record.
	Put(ctx context.Context, rec Record) error

	// SetStatus moves a claim to a new lifecycle stage. date, when non-empty,
	// replaces the record's timestamp.
	SetStatus(ctx context.Context, id string, status Status, date string) error

	Close() error
}

// CheckTransition enforces the lifecycle rules shared by every store: the
// target must be a known stage, and a terminal claim never changes stage.
func CheckTransition(id string, from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from.Terminal() && from != to {
		return fmt.Errorf("cannot move claim %s from %s to %s: %w", id, from, to, ErrTerminal)
	}
	return nil
}
