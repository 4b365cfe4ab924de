// app.go wires the config, credential store, identity client and event
// log together for the commands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/eric-dev/eric/internal/config"
	"github.com/eric-dev/eric/internal/credstore"
	"github.com/eric-dev/eric/internal/epic"
	"github.com/eric-dev/eric/internal/log"
	"github.com/eric-dev/eric/internal/prompt"
	"github.com/eric-dev/eric/internal/session"
)

// app carries the shared dependencies of all commands.
type app struct {
	cfg    *config.Config
	store  *credstore.Store
	client *epic.Client
	events *log.Logger
}

// newApp loads the config (falling back to defaults when absent) and
// constructs the store and client against the configured provider.
func newApp() (*app, error) {
	dir := config.DefaultDir()
	cfg, err := config.ReadConfig(dir)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	provider, err := epic.Named(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("bad config: %w", err)
	}

	storage := cfg.Storage()
	return &app{
		cfg:    cfg,
		store:  credstore.New(storage),
		client: epic.NewClient(provider),
		events: log.NewLogger(storage),
	}, nil
}

// selector builds the account selector from the shared flags.
func (a *app) selector() session.Selector {
	return session.Selector{
		AccountID:   accountIDFlag,
		DisplayName: accountNameFlag,
	}
}

// resolveSession runs the session state machine for the selected
// account and reports the outcome to the user and the event log.
// A selector mismatch is an error here: the session was persisted, but
// nothing may launch with it.
func (a *app) resolveSession(ctx context.Context, offline bool) (*session.Session, error) {
	sel := a.selector()
	resolver := &session.Resolver{
		Store:    a.store,
		Login:    a.client,
		Verifier: &session.Verifier{Remote: a.client},
		Prompt: func() (string, error) {
			return prompt.AuthorizationCode(a.client.Provider().RedirectURL())
		},
		Offline:    offline,
		SetDefault: setDefaultFlag,
	}

	s, outcome, err := resolver.Resolve(ctx, sel)
	if err != nil {
		a.appendEvent(log.LogEvent{Event: log.EventLoginFailed, Error: err.Error()})
		if errors.Is(err, session.ErrUserAborted) {
			return nil, fmt.Errorf("invalid code: %w", err)
		}
		return nil, err
	}

	if outcome == session.SelectorMismatch {
		a.appendEvent(log.LogEvent{
			Event:       log.EventSelectorMismatch,
			AccountID:   s.AccountID,
			DisplayName: s.DisplayName,
		})
		return nil, fmt.Errorf("logged in, but the account (%s) isn't the one selected (%s)",
			s.Label(), selectorLabel(sel))
	}

	a.appendEvent(log.LogEvent{
		Event:       loginEvent(resolver.Via()),
		AccountID:   s.AccountID,
		DisplayName: s.DisplayName,
	})
	if offline {
		fmt.Printf("Using %s offline.\n", s.Label())
	} else {
		fmt.Printf("Logged in as %s!\n", s.Label())
	}
	return s, nil
}

// appendEvent writes to the event log, which is diagnostics only and
// must never fail a run.
func (a *app) appendEvent(event log.LogEvent) {
	_ = a.events.Append(event)
}

func loginEvent(via session.Via) string {
	switch via {
	case session.ViaOffline:
		return log.EventLoginOffline
	case session.ViaRefresh:
		return log.EventLoginRefreshed
	case session.ViaInteractive:
		return log.EventLoginInteractive
	default:
		return log.EventLoginVerified
	}
}

func selectorLabel(sel session.Selector) string {
	if sel.AccountID != "" {
		return sel.AccountID
	}
	return sel.DisplayName
}
