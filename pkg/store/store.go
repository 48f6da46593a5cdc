// Package store persists architecture snapshots.
//
// The engine itself only ever reads one snapshot per session, but serving
// deployments keep a catalog of analyzed codebases to choose from. Two
// backends are provided: a directory of JSON files for CLI usage, and a
// mongo collection for the hosted API, where snapshots are stored as BSON
// documents keyed by name.
package store

import (
	"context"
	"errors"

	"archview/pkg/model"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Store is a catalog of named architecture snapshots.
type Store interface {
	// Load retrieves a snapshot by name. Returns ErrNotFound for unknown
	// names.
	Load(ctx context.Context, name string) (*model.Snapshot, error)

	// Save stores a snapshot under a name, replacing any existing one.
	Save(ctx context.Context, name string, snap *model.Snapshot) error

	// List returns the stored snapshot names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes a snapshot. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
