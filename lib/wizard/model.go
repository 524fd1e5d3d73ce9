// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package wizard implements the event authoring pipeline: a five-step
// terminal wizard (details, cover media, agenda, tickets, preview)
// that accumulates a single draft document and publishes it to the
// BlocStage API.
//
// The controller Model owns the draft and is its only writer. Step
// models hold widget state and fold committed edits into the draft
// through the draft package's operations, so every authoring invariant
// is enforced in one place. Async work — cover upload, the publish
// sequence — runs as bubbletea commands that deliver typed result
// messages back to the controller; the publish sequence is strictly
// serialized and navigation backward is blocked while it runs.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/api"
	"github.com/blocstage/stagehand/lib/config"
	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/session"
	"github.com/blocstage/stagehand/lib/statestore"
	"github.com/blocstage/stagehand/lib/tui"
	"github.com/blocstage/stagehand/lib/upload"
)

// uploadTickInterval paces the simulated upload progress ramp.
const uploadTickInterval = 200 * time.Millisecond

// Deps are the controller's collaborators, wired by the command layer.
type Deps struct {
	Client   *api.Client
	Uploader *upload.Uploader
	Store    *statestore.Store
	Watchdog *session.Watchdog
	Config   *config.Config
	Logger   *slog.Logger
	Theme    tui.Theme
	Keys     KeyMap
}

// stepModel is one wizard page. Load seeds widget state from the
// draft; Update folds committed edits back into it. Validate gates
// advancing past the step.
type stepModel interface {
	Load(document *draft.Draft)
	Update(message tea.Msg, document *draft.Draft) (stepModel, tea.Cmd)
	Validate(document *draft.Draft) []string
	View(width int, theme tui.Theme, document *draft.Draft) string
}

// Model is the wizard controller.
type Model struct {
	deps     Deps
	document *draft.Draft

	step       Step
	maxReached Step
	steps      [stepCount]stepModel

	// publishing serializes the publish sequence; while set, backward
	// navigation and a second publish are rejected.
	publishing bool
	published  *api.Event

	// uploading tracks the in-flight cover upload and its display ramp.
	uploading bool
	progress  *upload.Progress

	problems []string
	notice   string

	// Session warning modal state.
	warnModalOpen bool
	warnRemaining time.Duration
	expired       bool

	width  int
	height int
}

// New creates the wizard controller, restoring a previously mirrored
// draft when one exists.
func New(deps Deps) *Model {
	document := draft.New()
	if err := deps.Store.Get(statestore.KeyEventData, document); err == nil {
		deps.Logger.Info("restored draft from mirror", "title", document.Title)
	} else {
		document = draft.New()
	}

	model := &Model{
		deps:     deps,
		document: document,
		progress: upload.NewProgress(),
		width:    100,
		height:   40,
	}
	model.steps = [stepCount]stepModel{
		newDetailsModel(deps.Theme, deps.Keys),
		newCoverModel(deps.Theme, deps.Keys, model.progress),
		newAgendaModel(deps.Theme, deps.Keys),
		newTicketsModel(deps.Theme, deps.Keys),
		newPreviewModel(deps.Theme, deps.Keys),
	}
	model.steps[model.step].Load(document)
	if document.ImageURL != "" {
		model.progress.Complete()
	}
	return model
}

// Draft exposes the document for tests and the preview renderer.
func (model *Model) Draft() *draft.Draft {
	return model.document
}

// Step returns the current step.
func (model *Model) Step() Step { return model.step }

// Published returns the server event after a successful publish.
func (model *Model) Published() *api.Event { return model.published }

// Expired reports whether the session lapsed while authoring.
func (model *Model) Expired() bool { return model.expired }

// Init subscribes to watchdog events.
func (model *Model) Init() tea.Cmd {
	return model.watchSession()
}

// watchSession delivers the next watchdog event as a message. The
// handler re-arms it, so the subscription lives as long as the
// program.
func (model *Model) watchSession() tea.Cmd {
	events := model.deps.Watchdog.Events()
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg{event: event}
	}
}

// Update is the controller reducer.
func (model *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := message.(type) {
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		return model, nil

	case tea.KeyMsg:
		model.deps.Watchdog.Activity()
		return model.handleKey(typed)

	case sessionEventMsg:
		return model.handleSessionEvent(typed.event)

	case requestUploadMsg:
		return model.startUpload(typed.path)

	case uploadTickMsg:
		if !model.uploading {
			return model, nil
		}
		model.progress.Tick()
		return model, tea.Tick(uploadTickInterval, func(time.Time) tea.Msg {
			return uploadTickMsg{}
		})

	case uploadResultMsg:
		return model.finishUpload(typed)

	case publishCreatedMsg:
		return model.handlePublishCreated(typed)

	case publishSessionsMsg:
		return model.handlePublishSessions(typed)

	case mirrorErrorMsg:
		model.notice = fmt.Sprintf("draft not saved locally: %v", typed.err)
		return model, nil
	}

	return model.delegate(message)
}

func (model *Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.deps.Keys

	if model.warnModalOpen {
		return model.handleWarnModalKey(message)
	}

	switch {
	case key.Matches(message, keys.Quit):
		model.saveMirror()
		return model, tea.Quit

	case key.Matches(message, keys.NextStep):
		return model.advance()

	case key.Matches(message, keys.PrevStep):
		if model.publishing {
			model.notice = "publishing in progress"
			return model, nil
		}
		if model.step > StepDetails {
			model.moveTo(model.step - 1)
		}
		return model, nil

	case key.Matches(message, keys.Jump):
		return model.jump(message)

	case key.Matches(message, keys.Publish):
		if model.step == StepPreview {
			return model.startPublish()
		}
		return model, nil
	}

	return model.delegate(message)
}

// delegate routes a message to the current step model.
func (model *Model) delegate(message tea.Msg) (tea.Model, tea.Cmd) {
	updated, command := model.steps[model.step].Update(message, model.document)
	model.steps[model.step] = updated
	return model, command
}

// advance validates the current step and moves forward.
func (model *Model) advance() (tea.Model, tea.Cmd) {
	if model.publishing {
		model.notice = "publishing in progress"
		return model, nil
	}
	if problems := model.steps[model.step].Validate(model.document); len(problems) > 0 {
		model.problems = problems
		return model, nil
	}
	model.problems = nil

	if model.step < StepPreview {
		model.moveTo(model.step + 1)
	}
	return model, nil
}

// jump moves directly to a previously reached step (alt+1..alt+5).
func (model *Model) jump(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.publishing {
		model.notice = "publishing in progress"
		return model, nil
	}
	key := message.String() // "alt+1" .. "alt+5"
	if len(key) == 0 {
		return model, nil
	}
	digit := key[len(key)-1]
	if digit < '1' || digit > '5' {
		return model, nil
	}
	target := Step(digit - '1')
	if target > model.maxReached {
		model.notice = "complete the earlier steps first"
		return model, nil
	}
	model.moveTo(target)
	return model, nil
}

// moveTo switches steps, mirrors the draft, and seeds the target
// step's widgets.
func (model *Model) moveTo(target Step) {
	model.step = target
	if target > model.maxReached {
		model.maxReached = target
	}
	model.problems = nil
	model.notice = ""
	model.steps[target].Load(model.document)
	model.saveMirror()
}

// saveMirror persists the draft so leaving and returning loses
// nothing. Best-effort: a failure is surfaced as a notice.
func (model *Model) saveMirror() {
	if err := model.deps.Store.Set(statestore.KeyEventData, model.document); err != nil {
		model.deps.Logger.Warn("mirroring draft", "error", err)
		model.notice = fmt.Sprintf("draft not saved locally: %v", err)
	}
}

// --- Cover upload ---

// startUpload runs the guard and, unless the content hash shows the
// file already uploaded, sends it to the object store.
func (model *Model) startUpload(path string) (tea.Model, tea.Cmd) {
	store := model.deps.Config.ObjectStore
	if err := upload.Validate(path, store.MaxBytes, store.AllowedMIMEPrefix); err != nil {
		model.progress.Fail(err.Error())
		return model, nil
	}

	digest, err := upload.Hash(path)
	if err != nil {
		model.progress.Fail(err.Error())
		return model, nil
	}
	if digest == model.document.ImageHash && model.document.ImageURL != "" {
		// Same bytes already uploaded; keep the existing URL.
		model.document.ImagePath = ""
		model.progress.Complete()
		model.notice = "image unchanged, reusing uploaded copy"
		return model, nil
	}

	model.document.ImagePath = path
	model.progress.Select()
	model.progress.Start()
	model.uploading = true

	uploader := model.deps.Uploader
	uploadCommand := func() tea.Msg {
		result, err := uploader.Upload(context.Background(), path, store.MaxBytes, store.AllowedMIMEPrefix)
		return uploadResultMsg{result: result, err: err}
	}
	tickCommand := tea.Tick(uploadTickInterval, func(time.Time) tea.Msg {
		return uploadTickMsg{}
	})
	return model, tea.Batch(uploadCommand, tickCommand)
}

func (model *Model) finishUpload(message uploadResultMsg) (tea.Model, tea.Cmd) {
	model.uploading = false
	if message.err != nil {
		model.progress.Fail(message.err.Error())
		model.deps.Logger.Warn("cover upload failed", "error", message.err)
		return model, nil
	}

	model.document.ImageURL = message.result.SecureURL
	model.document.ImageHash = message.result.Hash
	model.document.ImagePath = ""
	model.progress.Complete()
	model.saveMirror()
	model.deps.Logger.Info("cover uploaded", "url", message.result.SecureURL)
	return model, nil
}

// Progress exposes the upload ramp for the cover step's view.
func (model *Model) Progress() *upload.Progress {
	return model.progress
}

// --- Publish sequence ---

// startPublish validates everything and kicks off the publish. A
// fresh draft goes out as one create call with the agenda folded into
// the payload. A draft that already carries a server id — a restored
// mirror from a publish that created the event but stalled before
// finishing — re-syncs the agenda instead of creating a duplicate.
func (model *Model) startPublish() (tea.Model, tea.Cmd) {
	if model.publishing {
		model.notice = "publishing in progress"
		return model, nil
	}

	var problems []string
	problems = append(problems, model.document.ValidateDetails()...)
	problems = append(problems, model.document.ValidateSessions()...)
	if len(problems) > 0 {
		model.problems = problems
		return model, nil
	}
	if model.uploading {
		model.notice = "waiting for the cover upload to finish"
		return model, nil
	}

	client := model.deps.Client

	if model.document.ID != "" {
		payloads, err := model.document.BuildSessionPayloads()
		if err != nil {
			model.problems = []string{err.Error()}
			return model, nil
		}
		model.publishing = true
		model.problems = nil
		model.notice = "publishing…"
		event := &api.Event{ID: model.document.ID, Title: model.document.Title}
		return model, func() tea.Msg {
			err := client.ReplaceSessions(context.Background(), event.ID, payloads)
			return publishSessionsMsg{event: event, err: err}
		}
	}

	request, err := model.document.BuildCreateRequest()
	if err != nil {
		model.problems = []string{err.Error()}
		return model, nil
	}
	model.publishing = true
	model.problems = nil
	model.notice = "publishing…"
	return model, func() tea.Msg {
		event, err := client.CreateEvent(context.Background(), request)
		return publishCreatedMsg{event: event, err: err}
	}
}

func (model *Model) handlePublishCreated(message publishCreatedMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		model.publishing = false
		model.notice = ""
		model.problems = []string{fmt.Sprintf("publish failed: %v", message.err)}
		model.deps.Logger.Error("create event", "error", message.err)
		return model, nil
	}
	model.document.ID = message.event.ID
	return model.completePublish(message.event)
}

func (model *Model) handlePublishSessions(message publishSessionsMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		// The event exists but the agenda did not sync. Keep the draft
		// (with its id) so the user can retry.
		model.publishing = false
		model.notice = ""
		model.problems = []string{fmt.Sprintf("event created but agenda not saved: %v", message.err)}
		model.deps.Logger.Error("replace sessions", "error", message.err)
		model.saveMirror()
		return model, nil
	}
	return model.completePublish(message.event)
}

// completePublish clears the draft and its mirror; the wizard is done.
func (model *Model) completePublish(event *api.Event) (tea.Model, tea.Cmd) {
	model.publishing = false
	model.published = event
	model.notice = ""
	if err := model.deps.Store.Delete(statestore.KeyEventData); err != nil {
		model.deps.Logger.Warn("clearing draft mirror", "error", err)
	}
	model.document = draft.New()
	model.deps.Logger.Info("event published", "id", event.ID, "title", event.Title)
	return model, tea.Quit
}

// --- Session lifecycle ---

func (model *Model) handleSessionEvent(event session.Event) (tea.Model, tea.Cmd) {
	switch event.Kind {
	case session.EventWarning:
		model.warnModalOpen = true
		model.warnRemaining = event.Remaining
	case session.EventRefreshed:
		model.warnModalOpen = false
		model.notice = "session extended"
	case session.EventExpired:
		// Local state is already cleared by the watchdog; leave the
		// wizard so unauthenticated API calls never happen.
		model.expired = true
		return model, tea.Quit
	}
	return model, model.watchSession()
}

func (model *Model) handleWarnModalKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.String() {
	case "enter":
		model.warnModalOpen = false
		watchdog := model.deps.Watchdog
		return model, func() tea.Msg {
			if !watchdog.Extend(context.Background()) {
				// The watchdog already cleared local state; leave now
				// rather than waiting on the event subscription.
				return sessionEventMsg{event: session.Event{Kind: session.EventExpired}}
			}
			return nil
		}
	case "esc":
		model.warnModalOpen = false
	}
	return model, nil
}

// --- View ---

// View renders the step breadcrumb, the current step, and any
// problems, with the session warning modal spliced on top when open.
func (model *Model) View() string {
	theme := model.deps.Theme

	var view strings.Builder
	view.WriteString(model.breadcrumb())
	view.WriteString("\n\n")
	view.WriteString(model.steps[model.step].View(model.width, theme, model.document))
	view.WriteString("\n")

	if len(model.problems) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(theme.Error)
		for _, problem := range model.problems {
			view.WriteString(errorStyle.Render("✗ "+problem) + "\n")
		}
	}
	if model.notice != "" {
		view.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(model.notice) + "\n")
	}
	view.WriteString(model.helpLine())

	rendered := view.String()
	if model.warnModalOpen {
		modal := tui.NewModal(
			"Session expiring",
			fmt.Sprintf("Your session expires in %s. Stay signed in?", model.warnRemaining.Round(time.Second)),
			"Enter stay signed in · Esc dismiss",
			theme,
		)
		rendered = modal.Overlay(rendered, model.width, model.height)
	}
	return rendered
}

func (model *Model) breadcrumb() string {
	theme := model.deps.Theme
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	doneStyle := lipgloss.NewStyle().Foreground(theme.Success)
	pendingStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	var parts []string
	for step := StepDetails; step < stepCount; step++ {
		label := fmt.Sprintf("%d %s", step+1, step)
		switch {
		case step == model.step:
			parts = append(parts, activeStyle.Render(label))
		case step <= model.maxReached:
			parts = append(parts, doneStyle.Render(label))
		default:
			parts = append(parts, pendingStyle.Render(label))
		}
	}
	return strings.Join(parts, lipgloss.NewStyle().Foreground(theme.BorderColor).Render(" › "))
}

func (model *Model) helpLine() string {
	keys := model.deps.Keys
	help := []string{
		keys.NextStep.Help().Key + " " + keys.NextStep.Help().Desc,
		keys.PrevStep.Help().Key + " " + keys.PrevStep.Help().Desc,
		keys.Jump.Help().Key + " " + keys.Jump.Help().Desc,
	}
	if model.step == StepPreview {
		help = append(help, keys.Publish.Help().Key+" "+keys.Publish.Help().Desc)
	}
	help = append(help, keys.Quit.Help().Key+" quit")
	return lipgloss.NewStyle().Foreground(model.deps.Theme.HelpText).Render(strings.Join(help, " · "))
}
