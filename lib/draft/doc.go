// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package draft holds the in-memory event document built by the
// authoring wizard, together with the pure operations the wizard's
// reducer applies to it: field updates, session list mutations that
// keep session_order dense, ticket type normalization, cross-field
// temporal validation, and construction of the server payload.
//
// Everything here is side-effect free. The wizard controller owns the
// single Draft instance and is the only writer; steps describe changes
// as messages and the controller applies them through these operations,
// which is what makes the authoring invariants testable without any
// terminal rendering.
package draft
