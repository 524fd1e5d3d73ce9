// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package session tracks the lifetime of the signed-in session and
// enforces the inactivity policy: warn the user shortly before expiry,
// silently refresh the token while they are active, and log out —
// clearing every locally persisted credential — the moment the session
// lapses.
//
// The watchdog evaluates on a fixed cadence from an injected clock, so
// tests drive the entire lifecycle deterministically with a fake clock
// and no sleeping.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blocstage/stagehand/lib/api"
	"github.com/blocstage/stagehand/lib/clock"
	"github.com/blocstage/stagehand/lib/statestore"
	"github.com/golang-jwt/jwt/v5"
)

// activityThrottle bounds how often Activity records a timestamp.
// Keystroke-level callers invoke it constantly; one record per window
// is enough for the refresh decision.
const activityThrottle = 30 * time.Second

// EventKind classifies watchdog notifications.
type EventKind int

const (
	// EventWarning: the session expires within the warning threshold.
	EventWarning EventKind = iota
	// EventRefreshed: the token was silently renewed.
	EventRefreshed
	// EventExpired: the session lapsed and local state was cleared.
	EventExpired
)

// Event is a watchdog notification. Remaining is meaningful for
// EventWarning.
type Event struct {
	Kind      EventKind
	Remaining time.Duration
}

// Refresher renews the current token. *api.Client satisfies this.
type Refresher interface {
	Refresh(ctx context.Context) (*api.AuthResponse, error)
}

// Options are the watchdog thresholds. Zero values are replaced with
// the defaults from configuration at construction, so a zero Options
// is usable in tests.
type Options struct {
	// Duration is the nominal session lifetime from the last token
	// issue. A JWT exp claim that expires sooner takes precedence.
	Duration time.Duration

	// WarningThreshold: remaining lifetime at which EventWarning fires.
	WarningThreshold time.Duration

	// RefreshThreshold: remaining lifetime below which an active user
	// triggers a silent token refresh.
	RefreshThreshold time.Duration

	// CheckInterval is the evaluation cadence.
	CheckInterval time.Duration
}

func (o *Options) applyDefaults() {
	if o.Duration == 0 {
		o.Duration = 30 * time.Minute
	}
	if o.WarningThreshold == 0 {
		o.WarningThreshold = 5 * time.Minute
	}
	if o.RefreshThreshold == 0 {
		o.RefreshThreshold = 10 * time.Minute
	}
	if o.CheckInterval == 0 {
		o.CheckInterval = 30 * time.Second
	}
}

// Watchdog owns the session expiry state. Construct with New, seed
// with SetToken, then run Run in a goroutine and consume Events.
type Watchdog struct {
	clock     clock.Clock
	store     *statestore.Store
	refresher Refresher
	options   Options
	logger    *slog.Logger

	mu sync.Mutex
	// expiry is the instant the session lapses; zero while signed out.
	expiry time.Time
	// lastActivity is the most recent throttled activity record.
	lastActivity time.Time
	// activeSinceExtend is set by Activity and cleared when the expiry
	// moves; it gates the silent refresh.
	activeSinceExtend bool
	// warned suppresses repeat warnings for the same expiry.
	warned bool

	events chan Event
}

// New creates a Watchdog. The refresher may be nil, in which case the
// silent-refresh path is disabled and the session simply expires.
func New(clk clock.Clock, store *statestore.Store, refresher Refresher, options Options, logger *slog.Logger) *Watchdog {
	options.applyDefaults()
	return &Watchdog{
		clock:     clk,
		store:     store,
		refresher: refresher,
		options:   options,
		logger:    logger,
		events:    make(chan Event, 8),
	}
}

// Events returns the notification channel. Sends are non-blocking; a
// consumer that falls 8 events behind loses the oldest notifications.
func (w *Watchdog) Events() <-chan Event {
	return w.events
}

// SetToken records a freshly issued token: persists it, derives the
// session expiry from the configured duration capped by the token's
// own exp claim, and resets the warning state.
func (w *Watchdog) SetToken(token string) error {
	if err := w.store.Set(statestore.KeyAuthToken, token); err != nil {
		return err
	}

	now := w.clock.Now()
	expiry := now.Add(w.options.Duration)
	if claimExpiry, ok := tokenExpiry(token); ok && claimExpiry.Before(expiry) {
		expiry = claimExpiry
	}

	w.mu.Lock()
	w.expiry = expiry
	w.warned = false
	w.activeSinceExtend = false
	w.mu.Unlock()

	w.logger.Debug("session token set", "expiry", expiry)
	return nil
}

// Activity records user interaction. Throttled: at most one record per
// activityThrottle window, so per-keystroke callers are cheap.
func (w *Watchdog) Activity() {
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.lastActivity.IsZero() && now.Sub(w.lastActivity) < activityThrottle {
		return
	}
	w.lastActivity = now
	w.activeSinceExtend = true
}

// Remaining returns the time until expiry, or zero when signed out.
func (w *Watchdog) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.expiry.IsZero() {
		return 0
	}
	remaining := w.expiry.Sub(w.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Run evaluates the session on the configured cadence until the
// context is canceled or the session expires. It emits EventExpired
// exactly once, after clearing local state.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := w.clock.NewTicker(w.options.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if expired := w.evaluate(ctx); expired {
				return
			}
		}
	}
}

// evaluate runs one watchdog check. Returns true when the session
// expired and the loop should stop.
func (w *Watchdog) evaluate(ctx context.Context) bool {
	w.mu.Lock()
	if w.expiry.IsZero() {
		w.mu.Unlock()
		return false
	}
	now := w.clock.Now()
	remaining := w.expiry.Sub(now)
	active := w.activeSinceExtend
	warned := w.warned
	w.mu.Unlock()

	if remaining <= 0 {
		w.expire()
		return true
	}

	if remaining <= w.options.RefreshThreshold && active && w.refresher != nil {
		if w.refresh(ctx) {
			return false
		}
		// Refresh failed; fall through so the warning still fires.
	}

	if remaining <= w.options.WarningThreshold && !warned {
		w.mu.Lock()
		w.warned = true
		w.mu.Unlock()
		w.emit(Event{Kind: EventWarning, Remaining: remaining})
		w.logger.Info("session expiring soon", "remaining", remaining)
	}
	return false
}

// Extend renews the token immediately, for the "stay signed in" choice
// in the warning prompt. An explicit extend that fails for any reason
// ends the session: local state is cleared and EventExpired is
// emitted, so the caller returns to the sign-in flow rather than
// limping along on a token about to lapse. Returns false on failure.
func (w *Watchdog) Extend(ctx context.Context) bool {
	if w.refresher != nil && w.refresh(ctx) {
		return true
	}

	// refresh already expired the session on an auth rejection; only
	// expire here if it is still live, so EventExpired fires once.
	w.mu.Lock()
	live := !w.expiry.IsZero()
	w.mu.Unlock()
	if live {
		w.expire()
	}
	return false
}

func (w *Watchdog) refresh(ctx context.Context) bool {
	auth, err := w.refresher.Refresh(ctx)
	if err != nil {
		if api.IsAuthInvalid(err) {
			w.logger.Warn("token refresh rejected, logging out", "error", err)
			w.expire()
			return false
		}
		w.logger.Warn("token refresh failed", "error", err)
		return false
	}

	if err := w.SetToken(auth.Token); err != nil {
		w.logger.Error("persisting refreshed token", "error", err)
		return false
	}
	w.emit(Event{Kind: EventRefreshed})
	w.logger.Info("session refreshed")
	return true
}

// Logout clears the persisted credential and draft mirror without
// emitting an event, for an explicit sign-out.
func (w *Watchdog) Logout() error {
	w.mu.Lock()
	w.expiry = time.Time{}
	w.warned = false
	w.activeSinceExtend = false
	w.mu.Unlock()
	return w.clearState()
}

func (w *Watchdog) expire() {
	w.mu.Lock()
	w.expiry = time.Time{}
	w.mu.Unlock()

	if err := w.clearState(); err != nil {
		w.logger.Error("clearing session state", "error", err)
	}
	w.emit(Event{Kind: EventExpired})
	w.logger.Info("session expired")
}

func (w *Watchdog) clearState() error {
	if err := w.store.Delete(statestore.KeyAuthToken); err != nil {
		return err
	}
	return w.store.Delete(statestore.KeyEventData)
}

func (w *Watchdog) emit(event Event) {
	select {
	case w.events <- event:
	default:
		w.logger.Warn("dropping session event, consumer behind", "kind", event.Kind)
	}
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Verification is the server's job; the client only needs
// the timestamp to avoid promising a longer session than the token
// itself allows. Returns false for opaque or claimless tokens.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
