// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blocstage/stagehand/lib/netutil"
)

// AuthResponse is the wire format for a successful login or token
// refresh.
type AuthResponse struct {
	Token string `json:"token"`
}

// User is the authenticated account as returned by GET /users/me.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Verified  bool   `json:"verified"`
}

// Login exchanges credentials for a bearer token.
func (client *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	request := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	response, err := client.post(ctx, "/auth/login", request)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login: %w", statusError(response))
	}

	var result AuthResponse
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login: empty token in response")
	}
	return &result, nil
}

// Refresh exchanges the current token for a fresh one, extending the
// session without re-entering credentials.
func (client *Client) Refresh(ctx context.Context) (*AuthResponse, error) {
	response, err := client.post(ctx, "/auth/refresh", struct{}{})
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refresh: %w", statusError(response))
	}

	var result AuthResponse
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("refresh: empty token in response")
	}
	return &result, nil
}

// Me returns the authenticated account.
func (client *Client) Me(ctx context.Context) (*User, error) {
	response, err := client.get(ctx, "/users/me")
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("me: %w", statusError(response))
	}

	var result User
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &result, nil
}

// Signup registers a new account. The server sends a one-time passcode
// to the given email; the account stays unverified until VerifyOTP.
func (client *Client) Signup(ctx context.Context, firstName, lastName, email, password string) error {
	request := struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}{FirstName: firstName, LastName: lastName, Email: email, Password: password}

	response, err := client.post(ctx, "/auth/signup", request)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return fmt.Errorf("signup: %w", statusError(response))
	}
	return nil
}

// VerifyOTP confirms the one-time passcode sent during signup.
func (client *Client) VerifyOTP(ctx context.Context, email, code string) error {
	request := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{Email: email, OTP: code}

	response, err := client.post(ctx, "/auth/verify-otp", request)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("verify otp: %w", statusError(response))
	}
	return nil
}

// ResendOTP asks the server to send a fresh one-time passcode.
func (client *Client) ResendOTP(ctx context.Context, email string) error {
	request := struct {
		Email string `json:"email"`
	}{Email: email}

	response, err := client.post(ctx, "/auth/resend-otp", request)
	if err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("resend otp: %w", statusError(response))
	}
	return nil
}
