// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx API response. Code is the HTTP status and
// Message the server's error text, if any.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// IsAuthInvalid reports whether err is an API rejection of the
// caller's credentials. The session watchdog treats this as an
// immediate logout signal.
func IsAuthInvalid(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized
}

// IsMethodMismatch reports whether err means the server does not
// accept the HTTP method used. Session persistence retries with PUT
// when the initial POST fails this way.
func IsMethodMismatch(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Code == http.StatusMethodNotAllowed || statusErr.Code == http.StatusNotImplemented
}

// IsConflict reports whether err is an optimistic-concurrency
// rejection, such as a ticket claim racing supply exhaustion.
func IsConflict(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusConflict
}
