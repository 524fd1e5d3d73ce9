// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds reads of the HTTP responses Stagehand
// consumes. Every body the API client and the object-store uploader
// read passes through here, capped at MaxResponseSize so a
// misbehaving server cannot exhaust memory. ErrorMessage additionally
// understands the failure envelope the BlocStage API serves.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MaxResponseSize caps response body reads. Event listings with
// embedded sessions and ticket types are the largest payloads the
// client handles; 4 MB leaves room for thousands of rows.
const MaxResponseSize int64 = 4 << 20

// ReadResponse reads a response body, failing when it exceeds
// MaxResponseSize rather than silently truncating: a truncated JSON
// document would surface as a confusing decode error.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// DecodeResponse reads a bounded response body and JSON-decodes it
// into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ErrorMessage extracts the human-readable message from a BlocStage
// failure response. The API wraps errors as {"message": ...}, with an
// older {"error": ...} variant still in circulation; anything else
// falls back to the trimmed raw body. Read errors are ignored — a
// partial body is still useful in an error message.
func ErrorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// ErrorBody reads an error response body verbatim, for servers whose
// failure shape is not the API envelope (the object store). Read
// errors are ignored.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return strings.TrimSpace(string(data))
}
