// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blocstage/stagehand/lib/draft"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second, func() string { return "test-token" })
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding login body: %v", err)
		}
		if body.Email != "ada@example.com" {
			t.Errorf("email = %q", body.Email)
		}
		json.NewEncoder(w).Encode(AuthResponse{Token: "issued-token"})
	}))

	auth, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token != "issued-token" {
		t.Errorf("Token = %q", auth.Token)
	}
}

func TestLoginRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))

	_, err := client.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuthInvalid(err) {
		t.Errorf("IsAuthInvalid(%v) = false", err)
	}
	if want := "login: HTTP 401: invalid credentials"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "ada@example.com"})
	}))

	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
}

func TestRefreshPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/refresh" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(AuthResponse{Token: "renewed-token"})
	}))

	auth, err := client.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if auth.Token != "renewed-token" {
		t.Errorf("Token = %q", auth.Token)
	}
}

func TestTicketTypesPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/events/ev1/tickets" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]TicketType{{ID: "tt1", Name: "Regular"}})
	}))

	types, err := client.TicketTypes(context.Background(), "ev1")
	if err != nil {
		t.Fatalf("TicketTypes: %v", err)
	}
	if len(types) != 1 || types[0].ID != "tt1" {
		t.Errorf("types = %+v", types)
	}
}

func TestReplaceSessionsMethodFallback(t *testing.T) {
	var methods []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	sessions := []draft.SessionPayload{{Title: "Opening", SpeakerName: "Ada"}}
	if err := client.ReplaceSessions(context.Background(), "ev1", sessions); err != nil {
		t.Fatalf("ReplaceSessions: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodPut {
		t.Errorf("methods = %v, want [POST PUT]", methods)
	}
}

func TestReplaceSessionsNoRetryOnOtherErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad agenda"})
	}))

	err := client.ReplaceSessions(context.Background(), "ev1", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-method errors)", calls)
	}
}

func TestReplaceSessionsPutFailureSurfaces(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.ReplaceSessions(context.Background(), "ev1", nil)
	if err == nil {
		t.Fatal("expected error from failed PUT retry")
	}
	if IsMethodMismatch(err) {
		t.Error("PUT failure misclassified as method mismatch")
	}
}

func TestClaimConflict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ticket-types/tt1/claim" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "sold out"})
	}))

	_, err := client.Claim(context.Background(), "tt1", ClaimRequest{Quantity: 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsConflict(err) {
		t.Errorf("IsConflict(%v) = false", err)
	}
}

func TestClaimSuccess(t *testing.T) {
	// The ticketing endpoints speak camelCase; decode into a raw map so
	// the wire keys themselves are checked, not just the field values.
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding claim body: %v", err)
		}
		if body["quantity"] != float64(2) || body["email"] != "ada@example.com" {
			t.Errorf("claim body = %v", body)
		}
		if body["firstName"] != "Ada" || body["lastName"] != "Lovelace" {
			t.Errorf("name keys = %v / %v", body["firstName"], body["lastName"])
		}
		if body["eventId"] != "ev1" || body["ticketTypeId"] != "tt1" {
			t.Errorf("id keys = %v / %v", body["eventId"], body["ticketTypeId"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ClaimResponse{TicketIDs: []string{"t1", "t2"}})
	}))

	result, err := client.Claim(context.Background(), "tt1", ClaimRequest{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Phone:        "08012345678",
		EventID:      "ev1",
		TicketTypeID: "tt1",
		Quantity:     2,
	})
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if len(result.TicketIDs) != 2 {
		t.Errorf("TicketIDs = %v", result.TicketIDs)
	}
}

func TestCreateEvent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body draft.CreateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding create body: %v", err)
		}
		if body.Slug != "lagos-devfest" {
			t.Errorf("slug = %q", body.Slug)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Event{ID: "ev42", Title: body.Title})
	}))

	event, err := client.CreateEvent(context.Background(), &draft.CreateEventRequest{
		Title: "Lagos DevFest",
		Slug:  "lagos-devfest",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if event.ID != "ev42" {
		t.Errorf("ID = %q", event.ID)
	}
}

func TestTicketTypeSoldOut(t *testing.T) {
	zero, five := 0, 5
	if (TicketType{Remaining: &zero}).SoldOut() != true {
		t.Error("zero remaining should be sold out")
	}
	if (TicketType{Remaining: &five}).SoldOut() {
		t.Error("five remaining should not be sold out")
	}
	if (TicketType{}).SoldOut() {
		t.Error("unlimited supply should not be sold out")
	}
	// Some deployments report the live count only through total_supply.
	if (TicketType{TotalSupply: &zero}).SoldOut() != true {
		t.Error("zero total_supply should be sold out")
	}
	if (TicketType{TotalSupply: &five}).SoldOut() {
		t.Error("five total_supply should not be sold out")
	}
	if (TicketType{TotalSupply: &zero, Remaining: &five}).SoldOut() {
		t.Error("remaining should win over total_supply")
	}
}
