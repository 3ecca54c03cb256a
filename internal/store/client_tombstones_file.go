// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/MKhiriev/go-fin-sync/models"
)

// fileTombstoneStorage keeps the ledger as a JSON array in a single file.
// Every Save writes a temp file in the same directory, fsyncs it and renames
// it over the target, so readers see either the old or the new set.
type fileTombstoneStorage struct {
	path string
	mu   sync.Mutex
}

type persistedTombstones struct {
	Tombstones []models.Tombstone `json:"tombstones"`
}

// NewFileTombstoneStorage returns a [TombstoneStorage] backed by the file at
// path. The parent directory is created when missing.
func NewFileTombstoneStorage(path string) (TombstoneStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrPersistingTombstones)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistingTombstones, err)
	}
	return &fileTombstoneStorage{path: path}, nil
}

func (s *fileTombstoneStorage) Load(_ context.Context) ([]models.Tombstone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tombstones file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var state persistedTombstones
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode tombstones file: %w", err)
	}

	return state.Tombstones, nil
}

func (s *fileTombstoneStorage) Save(_ context.Context, tombstones []models.Tombstone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]models.Tombstone, len(tombstones))
	copy(sorted, tombstones)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Collection != sorted[j].Collection {
			return sorted[i].Collection < sorted[j].Collection
		}
		return sorted[i].ID < sorted[j].ID
	})

	data, err := json.MarshalIndent(persistedTombstones{Tombstones: sorted}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistingTombstones, err)
	}

	if err := writeFileSync(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistingTombstones, err)
	}
	return nil
}

func writeFileSync(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	// the rename itself must reach the disk too
	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		_ = dir.Sync()
		dir.Close()
	}

	return nil
}
