// SPDX-License-Identifier: Apache-2.0

// Package persist stores the previous run's results so reporters can diff
// against them, guarding the state file with an advisory lock.
package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/gobench-dev/gobench/pkg/gobench"
)

const lockTimeout = 5 * time.Second

// Store reads and writes a single JSON file containing the previous run's
// suite -> toolchain-results shape.
type Store struct {
	path string
	lock *flock.Flock
}

// Open returns a Store backed by path. Save creates path's directory when it
// is missing; Load fails if the directory does not exist.
func Open(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Load reads the persisted state, returning an empty map if the file does
// not yet exist.
func (s *Store) Load() (map[string][]gobench.ToolchainResult, error) {
	state := map[string][]gobench.ToolchainResult{}
	err := s.withLock(func() error {
		data, err := os.ReadFile(s.path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "persist: read state")
		}
		if err := json.Unmarshal(data, &state); err != nil {
			return errors.Wrap(err, "persist: decode state")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save atomically overwrites the persisted state with state, taking the
// advisory lock for the duration of the write so a concurrent reporter
// cannot observe a half-written file.
func (s *Store) Save(state map[string][]gobench.ToolchainResult) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "persist: create state directory")
	}
	return s.withLock(func() error {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return errors.Wrap(err, "persist: encode state")
		}
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return errors.Wrap(err, "persist: write state")
		}
		return os.Rename(tmp, s.path)
	})
}

func (s *Store) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return errors.Wrap(err, "persist: acquire lock")
	}
	if !locked {
		return errors.New("persist: timed out acquiring state lock")
	}
	defer s.lock.Unlock()
	return fn()
}
