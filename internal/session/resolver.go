// resolver.go is the session-lifecycle state machine: load a stored
// session, verify or refresh it, and fall back to an interactive
// authorization-code login when nothing else works.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Exchanger performs the token grants the resolver can fall back
// through.
type Exchanger interface {
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	CodeSession(ctx context.Context, authorizationCode string) (*Session, error)
}

// Store is the resolver's view of the credential store.
type Store interface {
	// Load returns ErrNotFound (possibly wrapped) when no readable
	// record exists for the account id.
	Load(accountID string) (*Session, error)
	// LoadByName finds a record by display name.
	LoadByName(displayName string) (*Session, error)
	// DefaultAccountID returns the account id the default pointer names.
	DefaultAccountID() (string, error)
	// Save replaces the record for the session's account id, updating
	// the default pointer when setDefault is true.
	Save(s *Session, setDefault bool) error
}

// Prompter obtains an authorization code from the user. An empty code
// means the user declined.
type Prompter func() (string, error)

// Selector names which stored account the caller wants.
// The zero value means "the default account".
type Selector struct {
	AccountID   string
	DisplayName string
}

// Explicit reports whether the caller pinned a specific account.
func (sel Selector) Explicit() bool {
	return sel.AccountID != "" || sel.DisplayName != ""
}

// Matches reports whether the session satisfies the selector.
func (sel Selector) Matches(s *Session) bool {
	if sel.AccountID != "" && sel.AccountID != s.AccountID {
		return false
	}
	if sel.DisplayName != "" && !strings.EqualFold(sel.DisplayName, s.DisplayName) {
		return false
	}
	return true
}

// Outcome classifies a successful resolution.
type Outcome int

const (
	// Authenticated means a usable session matching the selector.
	Authenticated Outcome = iota
	// SelectorMismatch means login succeeded but as a different account
	// than the one explicitly requested. The session is persisted so the
	// login is not wasted, but the caller must not launch with it.
	SelectorMismatch
)

// resolver states. Terminal states return out of the run loop.
type state int

const (
	stateNoSession state = iota
	stateLoaded
	stateVerified
	stateUnverified
	stateInteractive
	stateAuthenticated
)

// Via reports which path produced the resolved session.
type Via string

const (
	ViaOffline     Via = "offline"
	ViaVerified    Via = "verified"
	ViaRefresh     Via = "refresh"
	ViaInteractive Via = "interactive"
)

// Resolver drives a session from "whatever is on disk" to
// authenticated, persisting every session obtained by a fresh grant.
type Resolver struct {
	Store    Store
	Login    Exchanger
	Verifier *Verifier
	Prompt   Prompter

	// Offline skips all network calls and trusts the stored record.
	Offline bool
	// SetDefault forces the default pointer onto the resolved account.
	SetDefault bool

	via Via
}

// Via reports how the most recent Resolve obtained its session.
func (r *Resolver) Via() Via { return r.via }

// Resolve runs the state machine for the selected account. It returns a
// session and an outcome, or one of ErrUserAborted / ErrLoginFailed.
// Provider rejections and transport failures during verify or refresh
// are never fatal; they only push the flow toward the interactive path.
func (r *Resolver) Resolve(ctx context.Context, sel Selector) (*Session, Outcome, error) {
	var s *Session
	st := stateNoSession

	for {
		switch st {
		case stateNoSession:
			s = r.loadStored(sel)
			if s == nil {
				st = stateInteractive
			} else {
				st = stateLoaded
			}

		case stateLoaded:
			log.Debug().Str("account", s.AccountID).Msg("loaded stored session")
			if r.Offline {
				r.via = ViaOffline
				st = stateAuthenticated
			} else if r.Verifier.Usable(ctx, s) {
				st = stateVerified
			} else {
				st = stateUnverified
			}

		case stateVerified:
			r.via = ViaVerified
			st = stateAuthenticated

		case stateUnverified:
			fresh, err := r.Login.RefreshSession(ctx, s.RefreshToken)
			if err != nil {
				// Refresh tokens get rotated or revoked server-side;
				// this is an expected, recoverable event.
				log.Warn().Err(err).Str("account", s.AccountID).Msg("refresh failed, interactive login required")
				s = nil
				st = stateInteractive
				break
			}
			s = fresh
			r.persist(sel, s)
			r.via = ViaRefresh
			st = stateAuthenticated

		case stateInteractive:
			code, err := r.Prompt()
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %s", ErrUserAborted, err)
			}
			if strings.TrimSpace(code) == "" {
				return nil, 0, ErrUserAborted
			}
			fresh, err := r.Login.CodeSession(ctx, strings.TrimSpace(code))
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %s", ErrLoginFailed, err)
			}
			s = fresh
			r.persist(sel, s)
			r.via = ViaInteractive
			st = stateAuthenticated

		case stateAuthenticated:
			if sel.Explicit() && !sel.Matches(s) {
				return s, SelectorMismatch, nil
			}
			return s, Authenticated, nil
		}
	}
}

// loadStored resolves the selector against the store. Any load failure,
// including a corrupt record, counts as "no stored session".
func (r *Resolver) loadStored(sel Selector) *Session {
	var (
		s   *Session
		err error
	)
	switch {
	case sel.AccountID != "":
		s, err = r.Store.Load(sel.AccountID)
	case sel.DisplayName != "":
		s, err = r.Store.LoadByName(sel.DisplayName)
	default:
		var id string
		id, err = r.Store.DefaultAccountID()
		if err == nil {
			s, err = r.Store.Load(id)
		}
	}
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Debug().Err(err).Msg("stored session unavailable")
		}
		return nil
	}
	return s
}

// persist saves a freshly granted session. The default pointer follows
// unless the caller pinned a specific account without asking for it.
// Save failures are not fatal: the in-memory session is still good for
// this run.
func (r *Resolver) persist(sel Selector, s *Session) {
	setDefault := r.SetDefault || !sel.Explicit()
	if err := r.Store.Save(s, setDefault); err != nil {
		log.Warn().Err(err).Str("account", s.AccountID).Msg("could not persist session")
	}
}

// ErrNotFound is returned by Store implementations when no stored
// record exists for the requested account.
var ErrNotFound = errors.New("no stored account")
