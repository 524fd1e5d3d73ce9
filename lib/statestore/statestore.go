// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package statestore provides the process-wide key/value store backing
// Stagehand's two pieces of local state: the bearer token ("authToken")
// and the draft event mirror ("eventData"). Each key is one JSON file
// under the state directory, written atomically (write to a temporary
// file, fsync, rename) so readers never see a partial or corrupt value.
//
// The draft mirror exists so that leaving the wizard and coming back
// does not lose in-progress state; it is cleared on publish and on
// logout. No other state is persisted.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Well-known keys. Only the sign-in surface and the session watchdog
// write KeyAuthToken; only the wizard controller writes KeyEventData.
const (
	KeyAuthToken = "authToken"
	KeyEventData = "eventData"
)

// Store is a directory-backed key/value store. The zero value is not
// usable; construct with Open.
type Store struct {
	dir string
}

// Open creates the state directory if needed and returns a Store over
// it. The directory is created with mode 0700: it holds the bearer
// token.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("statestore: empty state directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory path.
func (store *Store) Dir() string { return store.dir }

// Set marshals value as JSON and writes it atomically under key.
func (store *Store) Set(key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	data = append(data, '\n')

	path := store.path(key)
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}

	// Write, sync, close — in that order. If any step fails, remove
	// the temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary state file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary state file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary state file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming state file into place: %w", err)
	}
	return nil
}

// Get reads the value stored under key into v. When the key has never
// been set, the returned error wraps os.ErrNotExist (testable with
// errors.Is).
func (store *Store) Get(key string, v any) error {
	data, err := os.ReadFile(store.path(key))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing state file for %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Idempotent: returns nil
// when the key does not exist.
func (store *Store) Delete(key string) error {
	if err := os.Remove(store.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state file for %s: %w", key, err)
	}
	return nil
}

// Has reports whether key currently holds a value.
func (store *Store) Has(key string) bool {
	_, err := os.Stat(store.path(key))
	return err == nil
}

// path maps a key to its file. Keys are short well-known identifiers;
// anything that would escape the directory is rejected by replacement
// rather than error since no caller constructs keys from user input.
func (store *Store) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(store.dir, safe+".json")
}
