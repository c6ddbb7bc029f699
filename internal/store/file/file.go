// Package file is the default store backend: one pretty-printed JSON
// array per partition under a data directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nantkhun/fintracker/internal/store"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) path(partition string) string {
	return filepath.Join(s.dir, partition+".json")
}

func (s *Store) Load(_ context.Context, partition string, dest any) error {
	data, err := os.ReadFile(s.path(partition))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read partition %q: %w", partition, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: partition %q: %v", store.ErrCorrupt, partition, err)
	}

	return nil
}

// Save buffers the whole serialized partition, writes it to a temp file
// in the same directory and renames it over the old one, so readers see
// either the fully-old or fully-new content and a failed write never
// leaves the partition half-written.
func (s *Store) Save(_ context.Context, partition string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode partition %q: %v", store.ErrWrite, partition, err)
	}

	tmp, err := os.CreateTemp(s.dir, partition+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: partition %q: %v", store.ErrWrite, partition, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: partition %q: %v", store.ErrWrite, partition, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: partition %q: %v", store.ErrWrite, partition, err)
	}

	if err := os.Rename(tmp.Name(), s.path(partition)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: partition %q: %v", store.ErrWrite, partition, err)
	}

	return nil
}
