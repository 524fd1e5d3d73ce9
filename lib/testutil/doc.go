// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared helpers for Stagehand tests:
// channel receive/send assertions with timeout safety valves so that a
// misbehaving component fails the test instead of hanging it.
package testutil
