// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.NewTicker directly. Real() provides the standard
// library behavior; Fake() provides a deterministic clock that advances
// only when Advance is called.
//
// When a goroutine registers a timer or ticker on a FakeClock, use
// WaitForTimers to block until the registration has happened before
// calling Advance. This eliminates the race between timer registration
// and time advancement that plagues tests using time.Sleep for
// synchronization.
package clock
