// verifier.go decides whether a loaded session is still worth using.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// UsableMargin is the minimum remaining lifetime for a session to count
// as usable. A token expiring within the margin could die mid-launch,
// so it is refreshed instead.
const UsableMargin = 60 * time.Second

// RemoteChecker reports the remaining lifetime of an access token in
// seconds, as seen by the identity provider.
type RemoteChecker interface {
	VerifyToken(ctx context.Context, accessToken string) (int, error)
}

// Verifier judges session usability: a cheap local expiry comparison
// first, then a remote liveness check only when the local clock says
// the token should still be alive.
type Verifier struct {
	Remote RemoteChecker
	Now    func() time.Time // nil means time.Now
}

// Usable never returns an error: any failure to verify is treated as
// "not usable" so the caller falls through to the refresh path.
func (v *Verifier) Usable(ctx context.Context, s *Session) bool {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if !s.AccessExpiry.After(now()) {
		return false
	}

	remaining, err := v.Remote.VerifyToken(ctx, s.AccessToken)
	if err != nil {
		log.Debug().Err(err).Str("account", s.AccountID).Msg("token verify failed")
		return false
	}
	return time.Duration(remaining)*time.Second > UsableMargin
}
