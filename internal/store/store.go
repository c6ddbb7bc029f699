// Package store defines the record store contract: named partitions of
// JSON-serializable records that are always read and written whole. Every
// mutation above this layer is a full load-compute-save cycle, so the
// contract deliberately exposes no partial writes.
package store

import (
	"context"
	"errors"
)

var (
	// ErrCorrupt signals unreadable partition content. It is never
	// silently coerced to an empty partition.
	ErrCorrupt = errors.New("store: corrupt partition")
	// ErrWrite signals a failed partition write. Implementations must
	// fully serialize the new content before anything destructive starts.
	ErrWrite = errors.New("store: write failed")
)

type Store interface {
	// Load fills dest (a pointer to a slice) with the partition's full
	// contents. A missing partition leaves dest empty and is not an error.
	Load(ctx context.Context, partition string, dest any) error
	// Save replaces the partition with records.
	Save(ctx context.Context, partition string, records any) error
}
