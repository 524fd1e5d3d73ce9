// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"github.com/blocstage/stagehand/lib/api"
	"github.com/blocstage/stagehand/lib/session"
	"github.com/blocstage/stagehand/lib/upload"
)

// requestUploadMsg asks the controller to upload the cover image at
// path. Emitted by the cover step when the user confirms a file.
type requestUploadMsg struct {
	path string
}

// uploadTickMsg advances the simulated upload progress ramp.
type uploadTickMsg struct{}

// uploadResultMsg reports the outcome of a cover image upload.
type uploadResultMsg struct {
	result *upload.Result
	err    error
}

// publishCreatedMsg reports the outcome of the create-event call, the
// first stage of publishing.
type publishCreatedMsg struct {
	event *api.Event
	err   error
}

// publishSessionsMsg reports the outcome of the agenda persistence
// call, the second stage of publishing.
type publishSessionsMsg struct {
	event *api.Event
	err   error
}

// sessionEventMsg wraps a watchdog notification into the bubbletea
// message stream.
type sessionEventMsg struct {
	event session.Event
}

// mirrorErrorMsg reports a failed draft mirror write. Mirroring is
// best-effort; the error is surfaced but never blocks navigation.
type mirrorErrorMsg struct {
	err error
}
