// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package statestore

import (
	"errors"
	"os"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.Set(KeyAuthToken, "tok-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var token string
	if err := store.Get(KeyAuthToken, &token); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want %q", token, "tok-123")
	}
}

func TestGetMissingKeyWrapsNotExist(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var value string
	err = store.Get("neverSet", &value)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Get(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.Set(KeyEventData, map[string]string{"title": "Launch Night"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !store.Has(KeyEventData) {
		t.Fatal("Has = false after Set")
	}

	if err := store.Delete(KeyEventData); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Has(KeyEventData) {
		t.Fatal("Has = true after Delete")
	}
	if err := store.Delete(KeyEventData); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.Set(KeyAuthToken, "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(KeyAuthToken, "second"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var token string
	if err := store.Get(KeyAuthToken, &token); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "second" {
		t.Errorf("token = %q, want %q", token, "second")
	}
}
