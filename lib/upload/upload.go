// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package upload sends cover and speaker images to the object store
// and guards what may be sent: only image MIME types, bounded size.
// Uploads are content-addressed with a BLAKE3 digest so that
// re-publishing an unchanged file skips the network round trip.
package upload

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/blocstage/stagehand/lib/netutil"
	"github.com/zeebo/blake3"
)

// Uploader sends images to the object store's unsigned upload
// endpoint.
type Uploader struct {
	endpoint   string
	preset     string
	httpClient *http.Client
}

// New creates an Uploader for the given object-store host and cloud
// name. The host may carry an explicit scheme for testing; production
// configuration gives a bare host and https is assumed.
func New(host, cloudName, preset string, timeout time.Duration) *Uploader {
	base := host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Uploader{
		endpoint:   strings.TrimSuffix(base, "/") + "/" + cloudName + "/image/upload",
		preset:     preset,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Result is a completed upload.
type Result struct {
	// SecureURL is the canonical https URL of the stored image.
	SecureURL string

	// Hash is the hex BLAKE3 digest of the uploaded bytes. Callers
	// store it next to the URL so an unchanged file is recognized and
	// not uploaded again.
	Hash string
}

// Hash computes the hex BLAKE3 digest of a file's contents.
func Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Upload validates the file against the size and MIME guards, then
// sends it as a multipart form with the configured upload preset.
func (uploader *Uploader) Upload(ctx context.Context, path string, maxBytes int64, allowedMIMEPrefix string) (*Result, error) {
	if err := Validate(path, maxBytes, allowedMIMEPrefix); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("upload_preset", uploader.preset); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	part, err := writer.CreateFormFile("file", path)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, uploader.endpoint, &form)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	response, err := uploader.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload %s: HTTP %d: %s", path, response.StatusCode, netutil.ErrorBody(response.Body))
	}

	var wire struct {
		SecureURL string `json:"secure_url"`
	}
	if err := netutil.DecodeResponse(response.Body, &wire); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	if wire.SecureURL == "" {
		return nil, fmt.Errorf("upload %s: empty secure_url in response", path)
	}

	digest := blake3.Sum256(content)
	return &Result{
		SecureURL: wire.SecureURL,
		Hash:      hex.EncodeToString(digest[:]),
	}, nil
}
