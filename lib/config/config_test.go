// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	if cfg.ObjectStore.MaxBytes != 5<<20 {
		t.Errorf("MaxBytes = %d, want %d", cfg.ObjectStore.MaxBytes, 5<<20)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagehand.yaml")
	content := `
api:
  base_url: https://staging.blocstage.com
object_store:
  cloud_name: blocstage-dev
  upload_preset: unsigned-dev
session:
  duration: 1h
  warning_threshold: 10m
  refresh_threshold: 20m
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.API.BaseURL != "https://staging.blocstage.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.ObjectStore.CloudName != "blocstage-dev" {
		t.Errorf("CloudName = %q", cfg.ObjectStore.CloudName)
	}
	// Unset fields keep their defaults.
	if cfg.API.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want default 30s", cfg.API.RequestTimeout)
	}
	if cfg.Session.Duration != time.Hour {
		t.Errorf("Duration = %v, want 1h", cfg.Session.Duration)
	}
}

func TestLoadFileExpandsVariables(t *testing.T) {
	t.Setenv("BLOCSTAGE_CLOUD", "blocstage-prod")

	path := filepath.Join(t.TempDir(), "stagehand.yaml")
	content := `
object_store:
  cloud_name: ${BLOCSTAGE_CLOUD}
  upload_preset: ${BLOCSTAGE_PRESET:-unsigned-default}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ObjectStore.CloudName != "blocstage-prod" {
		t.Errorf("CloudName = %q", cfg.ObjectStore.CloudName)
	}
	if cfg.ObjectStore.UploadPreset != "unsigned-default" {
		t.Errorf("UploadPreset = %q", cfg.ObjectStore.UploadPreset)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not-a-url"
	cfg.Session.WarningThreshold = 2 * time.Hour

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !strings.Contains(err.Error(), "api.base_url") {
		t.Errorf("error %q does not mention api.base_url", err)
	}
	if !strings.Contains(err.Error(), "warning_threshold") {
		t.Errorf("error %q does not mention warning_threshold", err)
	}
}
