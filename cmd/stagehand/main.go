// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// stagehand is a terminal client for the BlocStage event platform.
//
// Organizers author and publish events through a five-step wizard
// (stagehand create); attendees browse events and claim tickets
// (stagehand events, stagehand buy). Authentication state lives in a
// local state directory and is guarded by a session watchdog that
// warns before expiry and refreshes the token in the background.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/blocstage/stagehand/lib/api"
	"github.com/blocstage/stagehand/lib/claim"
	"github.com/blocstage/stagehand/lib/clock"
	"github.com/blocstage/stagehand/lib/config"
	"github.com/blocstage/stagehand/lib/session"
	"github.com/blocstage/stagehand/lib/statestore"
	"github.com/blocstage/stagehand/lib/tui"
	"github.com/blocstage/stagehand/lib/upload"
	"github.com/blocstage/stagehand/lib/version"
	"github.com/blocstage/stagehand/lib/wizard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var logOutput string

	flagSet := pflag.NewFlagSet("stagehand", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a config file (default: STAGEHAND_CONFIG or built-in defaults)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println(version.Full())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		printHelp(flagSet)
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closeLogger, err := newLogger(logOutput)
	if err != nil {
		return err
	}
	defer closeLogger()

	store, err := statestore.Open(cfg.Paths.State)
	if err != nil {
		return err
	}

	client := api.New(cfg.API.BaseURL, cfg.API.RequestTimeout, func() string {
		var token string
		if err := store.Get(statestore.KeyAuthToken, &token); err != nil {
			return ""
		}
		return token
	})

	app := &application{
		config: cfg,
		logger: logger,
		store:  store,
		client: client,
	}

	switch command := args[0]; command {
	case "version":
		fmt.Println(version.Full())
		return nil
	case "login":
		return app.login()
	case "signup":
		return app.signup()
	case "verify":
		return app.verify()
	case "whoami":
		return app.whoami()
	case "events":
		return app.listEvents()
	case "view":
		if len(args) < 2 {
			return fmt.Errorf("usage: stagehand view <event-id>")
		}
		return app.viewEvent(args[1])
	case "create":
		return app.create()
	case "buy":
		if len(args) < 2 {
			return fmt.Errorf("usage: stagehand buy <event-id>")
		}
		return app.buy(args[1])
	default:
		return fmt.Errorf("unknown command %q (run 'stagehand --help')", command)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger builds the process logger. Without --log-output, records
// go to stderr at warn level only, since info chatter would corrupt
// the alt-screen display while a TUI is running.
func newLogger(logOutput string) (*slog.Logger, func(), error) {
	if logOutput == "" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
		return slog.New(handler), func() {}, nil
	}
	file, err := os.Create(logOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", logOutput, err)
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { file.Close() }, nil
}

type application struct {
	config *config.Config
	logger *slog.Logger
	store  *statestore.Store
	client *api.Client
}

// token returns the stored bearer token, empty when signed out.
func (app *application) token() string {
	var token string
	if err := app.store.Get(statestore.KeyAuthToken, &token); err != nil {
		return ""
	}
	return token
}

// requireAuth fails fast before starting a TUI that would only die on
// its first API call.
func (app *application) requireAuth() error {
	if app.token() == "" {
		return fmt.Errorf("not signed in; run 'stagehand login' first")
	}
	return nil
}

// newWatchdog builds the session watchdog over the stored token and
// starts its check loop. The returned cancel stops the loop.
func (app *application) newWatchdog(ctx context.Context) (*session.Watchdog, context.CancelFunc, error) {
	watchdog := session.New(clock.Real(), app.store, app.client, session.Options{
		Duration:         app.config.Session.Duration,
		WarningThreshold: app.config.Session.WarningThreshold,
		RefreshThreshold: app.config.Session.RefreshThreshold,
		CheckInterval:    app.config.Session.CheckInterval,
	}, app.logger)
	if err := watchdog.SetToken(app.token()); err != nil {
		return nil, nil, err
	}

	runContext, cancel := context.WithCancel(ctx)
	go watchdog.Run(runContext)
	return watchdog, cancel, nil
}

// --- Auth commands ---

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (app *application) login() error {
	reader := bufio.NewReader(os.Stdin)
	email, err := prompt(reader, "Email")
	if err != nil {
		return err
	}
	password, err := prompt(reader, "Password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.config.API.RequestTimeout)
	defer cancel()
	response, err := app.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := app.store.Set(statestore.KeyAuthToken, response.Token); err != nil {
		return err
	}
	fmt.Println("Signed in.")
	return nil
}

func (app *application) signup() error {
	reader := bufio.NewReader(os.Stdin)
	firstName, err := prompt(reader, "First name")
	if err != nil {
		return err
	}
	lastName, err := prompt(reader, "Last name")
	if err != nil {
		return err
	}
	email, err := prompt(reader, "Email")
	if err != nil {
		return err
	}
	password, err := prompt(reader, "Password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.config.API.RequestTimeout)
	defer cancel()
	if err := app.client.Signup(ctx, firstName, lastName, email, password); err != nil {
		return err
	}
	fmt.Println("Account created. Check your email for the verification code, then run 'stagehand verify'.")
	return nil
}

func (app *application) verify() error {
	reader := bufio.NewReader(os.Stdin)
	email, err := prompt(reader, "Email")
	if err != nil {
		return err
	}
	code, err := prompt(reader, "Verification code")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.config.API.RequestTimeout)
	defer cancel()
	if err := app.client.VerifyOTP(ctx, email, code); err != nil {
		return err
	}
	fmt.Println("Email verified. Run 'stagehand login' to sign in.")
	return nil
}

func (app *application) whoami() error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), app.config.API.RequestTimeout)
	defer cancel()
	user, err := app.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	return nil
}

// --- Event commands ---

func (app *application) listEvents() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.API.RequestTimeout)
	defer cancel()
	events, err := app.client.Events(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}
	for _, event := range events {
		where := event.Location
		if event.IsOnline {
			where = "online"
		}
		fmt.Printf("%s  %s  %s  (%s)\n", event.ID, event.StartTime, event.Title, where)
	}
	return nil
}

func (app *application) viewEvent(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.API.RequestTimeout)
	defer cancel()
	event, err := app.client.Event(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println(event.Title)
	if event.Location != "" || event.IsOnline {
		where := event.Location
		if event.IsOnline {
			where = strings.TrimSpace(where + " (online)")
		}
		fmt.Println(where)
	}
	fmt.Printf("%s → %s\n", event.StartTime, event.EndTime)
	if event.Description != "" {
		fmt.Println()
		fmt.Print(tui.Markdown(event.Description, tui.DefaultTheme, 80))
	}
	for _, eventSession := range event.Sessions {
		fmt.Printf("  %s — %s  %s → %s\n",
			eventSession.Title, eventSession.SpeakerName, eventSession.StartTime, eventSession.EndTime)
	}
	return nil
}

// --- TUI commands ---

func (app *application) create() error {
	if err := app.requireAuth(); err != nil {
		return err
	}

	watchdog, stopWatchdog, err := app.newWatchdog(context.Background())
	if err != nil {
		return err
	}
	defer stopWatchdog()

	uploader := upload.New(
		app.config.ObjectStore.Host,
		app.config.ObjectStore.CloudName,
		app.config.ObjectStore.UploadPreset,
		app.config.API.RequestTimeout,
	)

	model := wizard.New(wizard.Deps{
		Client:   app.client,
		Uploader: uploader,
		Store:    app.store,
		Watchdog: watchdog,
		Config:   app.config,
		Logger:   app.logger,
		Theme:    tui.DefaultTheme,
		Keys:     wizard.DefaultKeyMap,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}

	finished, ok := final.(*wizard.Model)
	if !ok {
		return nil
	}
	switch {
	case finished.Expired():
		return fmt.Errorf("session expired; run 'stagehand login' to sign in again")
	case finished.Published() != nil:
		fmt.Printf("Published %q (id %s).\n", finished.Published().Title, finished.Published().ID)
	default:
		fmt.Println("Draft saved. Run 'stagehand create' to continue where you left off.")
	}
	return nil
}

func (app *application) buy(eventID string) error {
	model := claim.New(claim.Deps{
		Client: app.client,
		Logger: app.logger,
		Theme:  tui.DefaultTheme,
		Keys:   claim.DefaultKeyMap,
	}, eventID)

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if finished, ok := final.(*claim.Model); ok && len(finished.Claimed()) > 0 {
		fmt.Printf("Claimed %d ticket(s).\n", len(finished.Claimed()))
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Stagehand — terminal client for the BlocStage event platform.

Usage:
  stagehand <command> [flags]

Commands:
  create          author and publish an event (five-step wizard)
  events          list published events
  view <id>       show one event
  buy <id>        claim tickets for an event
  login           sign in and store the session token
  signup          create an account
  verify          confirm the email verification code
  whoami          show the signed-in user
  version         print version information

Examples:
  # Author a new event (or resume the saved draft)
  stagehand create

  # Claim tickets
  stagehand buy 0b3c2f1a

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
