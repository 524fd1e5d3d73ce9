// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Validate applies the upload guards to a local file: its size must
// not exceed maxBytes (a file of exactly maxBytes is accepted) and its
// sniffed content type must carry the allowed prefix. Guard failures
// come back as user-presentable messages; the file never leaves the
// machine when Validate fails.
func Validate(path string, maxBytes int64, allowedMIMEPrefix string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxBytes {
		return fmt.Errorf("%s is %.1f MB; images must be at most %d MB", path, float64(info.Size())/(1<<20), maxBytes>>20)
	}

	contentType, err := sniffContentType(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !strings.HasPrefix(contentType, allowedMIMEPrefix) {
		return fmt.Errorf("%s is %s; only images can be uploaded", path, contentType)
	}
	return nil
}

// sniffContentType detects the MIME type from the file's leading
// bytes, the same way a server would. The extension is not trusted.
func sniffContentType(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// DetectContentType considers at most the first 512 bytes.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}
