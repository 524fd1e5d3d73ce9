// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/blocstage/stagehand/lib/api"
	"github.com/blocstage/stagehand/lib/clock"
	"github.com/blocstage/stagehand/lib/statestore"
	"github.com/blocstage/stagehand/lib/testutil"
)

// fakeRefresher scripts the outcome of Refresh calls.
type fakeRefresher struct {
	token string
	err   error
	calls int
}

func (r *fakeRefresher) Refresh(ctx context.Context) (*api.AuthResponse, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &api.AuthResponse{Token: r.token}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWatchdog(t *testing.T, clk clock.Clock, refresher Refresher) (*Watchdog, *statestore.Store) {
	t.Helper()
	store, err := statestore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	watchdog := New(clk, store, refresher, Options{
		Duration:         30 * time.Minute,
		WarningThreshold: 5 * time.Minute,
		RefreshThreshold: 10 * time.Minute,
		CheckInterval:    30 * time.Second,
	}, testLogger())
	return watchdog, store
}

func TestWarningFiresNearExpiry(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	watchdog, _ := newTestWatchdog(t, fakeClock, nil)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watchdog.Run(ctx)
		done <- struct{}{}
		close(done)
	}()
	fakeClock.WaitForTimers(1)

	// 26 minutes in: 4 minutes remain, inside the warning threshold.
	fakeClock.Advance(26 * time.Minute)
	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for warning")
	if event.Kind != EventWarning {
		t.Fatalf("event = %v, want warning", event.Kind)
	}
	if event.Remaining <= 0 || event.Remaining > 5*time.Minute {
		t.Errorf("Remaining = %v", event.Remaining)
	}

	// The warning does not repeat on the next check.
	fakeClock.Advance(30 * time.Second)
	testutil.RequireNoReceive(t, watchdog.Events(), 100*time.Millisecond, "warning repeated")

	cancel()
	testutil.RequireReceive(t, done, 5*time.Second, "waiting for Run to return")
}

func TestExpiryClearsStateAndStopsLoop(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	watchdog, store := newTestWatchdog(t, fakeClock, nil)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(statestore.KeyEventData, map[string]string{"title": "draft"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		watchdog.Run(context.Background())
		done <- struct{}{}
		close(done)
	}()
	fakeClock.WaitForTimers(1)

	fakeClock.Advance(31 * time.Minute)

	// Both the warning (crossed on the way down) and the expiry may be
	// queued; the expiry is the terminal event.
	deadline := time.Now().Add(5 * time.Second)
	for {
		event := testutil.RequireReceive(t, watchdog.Events(), time.Until(deadline), "waiting for expiry")
		if event.Kind == EventExpired {
			break
		}
	}
	testutil.RequireReceive(t, done, 5*time.Second, "Run should stop after expiry")

	if store.Has(statestore.KeyAuthToken) {
		t.Error("authToken survived expiry")
	}
	if store.Has(statestore.KeyEventData) {
		t.Error("eventData survived expiry")
	}
}

func TestActiveUserGetsSilentRefresh(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	refresher := &fakeRefresher{token: "renewed-token"}
	watchdog, store := newTestWatchdog(t, fakeClock, refresher)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchdog.Run(ctx)
	fakeClock.WaitForTimers(1)

	// 22 minutes in: 8 minutes remain, inside the refresh threshold.
	fakeClock.Advance(21 * time.Minute)
	watchdog.Activity()
	fakeClock.Advance(1 * time.Minute)

	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for refresh")
	if event.Kind != EventRefreshed {
		t.Fatalf("event = %v, want refreshed", event.Kind)
	}
	if refresher.calls != 1 {
		t.Errorf("Refresh calls = %d", refresher.calls)
	}

	var token string
	if err := store.Get(statestore.KeyAuthToken, &token); err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != "renewed-token" {
		t.Errorf("persisted token = %q", token)
	}

	// The refresh pushed expiry out past the warning threshold.
	if remaining := watchdog.Remaining(); remaining < 25*time.Minute {
		t.Errorf("Remaining = %v after refresh", remaining)
	}
}

func TestIdleUserIsNotRefreshed(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	refresher := &fakeRefresher{token: "renewed-token"}
	watchdog, _ := newTestWatchdog(t, fakeClock, refresher)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchdog.Run(ctx)
	fakeClock.WaitForTimers(1)

	// Deep inside the refresh threshold with no recorded activity: the
	// watchdog warns instead of refreshing.
	fakeClock.Advance(26 * time.Minute)
	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for warning")
	if event.Kind != EventWarning {
		t.Fatalf("event = %v, want warning", event.Kind)
	}
	if refresher.calls != 0 {
		t.Errorf("Refresh calls = %d, want 0 for idle user", refresher.calls)
	}
}

func TestRefreshRejectionLogsOut(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	refresher := &fakeRefresher{err: &api.StatusError{Code: 401, Message: "token revoked"}}
	watchdog, store := newTestWatchdog(t, fakeClock, refresher)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	go watchdog.Run(context.Background())
	fakeClock.WaitForTimers(1)

	fakeClock.Advance(21 * time.Minute)
	watchdog.Activity()
	fakeClock.Advance(1 * time.Minute)

	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for expiry")
	if event.Kind != EventExpired {
		t.Fatalf("event = %v, want expired", event.Kind)
	}
	if store.Has(statestore.KeyAuthToken) {
		t.Error("authToken survived refresh rejection")
	}
}

func TestTransientRefreshFailureKeepsSession(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	refresher := &fakeRefresher{err: errors.New("connection refused")}
	watchdog, store := newTestWatchdog(t, fakeClock, refresher)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchdog.Run(ctx)
	fakeClock.WaitForTimers(1)

	fakeClock.Advance(25 * time.Minute)
	watchdog.Activity()
	fakeClock.Advance(1 * time.Minute)

	// Refresh fails, but the session is still live: the user gets the
	// warning rather than a logout.
	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for warning")
	if event.Kind != EventWarning {
		t.Fatalf("event = %v, want warning", event.Kind)
	}
	if !store.Has(statestore.KeyAuthToken) {
		t.Error("authToken cleared on transient failure")
	}
}

func TestFailedExtendEndsSession(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	refresher := &fakeRefresher{err: &api.StatusError{Code: 500, Message: "internal error"}}
	watchdog, store := newTestWatchdog(t, fakeClock, refresher)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	// The user explicitly asked to stay signed in; a refresher that
	// cannot deliver ends the session rather than leaving a token that
	// is about to lapse.
	if watchdog.Extend(context.Background()) {
		t.Fatal("Extend reported success from a failing refresher")
	}

	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for expiry")
	if event.Kind != EventExpired {
		t.Fatalf("event = %v, want expired", event.Kind)
	}
	if store.Has(statestore.KeyAuthToken) {
		t.Error("authToken survived a failed extend")
	}
	if watchdog.Remaining() != 0 {
		t.Errorf("Remaining = %v after failed extend", watchdog.Remaining())
	}
}

func TestExtendRejectionEmitsOneExpiry(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	refresher := &fakeRefresher{err: &api.StatusError{Code: 401, Message: "token revoked"}}
	watchdog, _ := newTestWatchdog(t, fakeClock, refresher)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	if watchdog.Extend(context.Background()) {
		t.Fatal("Extend reported success on auth rejection")
	}

	event := testutil.RequireReceive(t, watchdog.Events(), 5*time.Second, "waiting for expiry")
	if event.Kind != EventExpired {
		t.Fatalf("event = %v, want expired", event.Kind)
	}
	testutil.RequireNoReceive(t, watchdog.Events(), 100*time.Millisecond, "expiry emitted twice")
}

func TestActivityThrottle(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	watchdog, _ := newTestWatchdog(t, fakeClock, nil)

	watchdog.Activity()
	first := watchdog.lastActivity

	// Within the throttle window: no new record.
	fakeClock.Advance(10 * time.Second)
	watchdog.Activity()
	if !watchdog.lastActivity.Equal(first) {
		t.Error("activity recorded inside throttle window")
	}

	fakeClock.Advance(25 * time.Second)
	watchdog.Activity()
	if watchdog.lastActivity.Equal(first) {
		t.Error("activity not recorded after throttle window")
	}
}

func TestJWTExpiryCapsSession(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	watchdog, _ := newTestWatchdog(t, fakeClock, nil)

	// exp 2026-03-01T12:10:00Z, ten minutes out — shorter than the
	// configured 30-minute duration, so it wins. Header and claims are
	// base64url of {"alg":"none"} and {"exp":1772367000}; the signature
	// is never checked client-side.
	token := "eyJhbGciOiJub25lIn0.eyJleHAiOjE3NzIzNjcwMDB9."
	if err := watchdog.SetToken(token); err != nil {
		t.Fatal(err)
	}

	remaining := watchdog.Remaining()
	if remaining > 10*time.Minute || remaining < 9*time.Minute {
		t.Errorf("Remaining = %v, want ~10m from the exp claim", remaining)
	}
}

func TestLogoutClearsState(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	watchdog, store := newTestWatchdog(t, fakeClock, nil)
	if err := watchdog.SetToken("opaque-token"); err != nil {
		t.Fatal(err)
	}

	if err := watchdog.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.Has(statestore.KeyAuthToken) {
		t.Error("authToken survived logout")
	}
	if watchdog.Remaining() != 0 {
		t.Errorf("Remaining = %v after logout", watchdog.Remaining())
	}
}
