// Package session holds the account session model and the logic that
// decides how a usable session is obtained: verify, refresh, or fall
// back to an interactive login.
package session

import (
	"errors"
	"fmt"
	"time"
)

// Session is a fully populated account credential set. It is built from
// a successful token grant or loaded from the credential store, and is
// only ever replaced wholesale, never partially updated.
type Session struct {
	AccountID    string
	DisplayName  string // may be empty, the provider does not always send it
	AccessToken  string
	AccessExpiry time.Time
	RefreshToken string
	RefreshExpiry time.Time
}

// Complete reports whether all required fields are present. Incomplete
// sessions must never reach the credential store.
func (s *Session) Complete() bool {
	return s != nil && s.AccountID != "" && s.AccessToken != "" && s.RefreshToken != "" &&
		!s.AccessExpiry.IsZero() && !s.RefreshExpiry.IsZero()
}

// Label renders the session identity for user-facing messages.
func (s *Session) Label() string {
	if s.DisplayName != "" {
		return fmt.Sprintf("%s (%s)", s.DisplayName, s.AccountID)
	}
	return s.AccountID
}

// Sentinel failures of the resolution flow.
var (
	// ErrUserAborted means the interactive prompt was declined or empty.
	ErrUserAborted = errors.New("no authorization code entered")
	// ErrLoginFailed means the interactive authorization-code grant was
	// rejected, leaving no further fallback.
	ErrLoginFailed = errors.New("login failed")
)
