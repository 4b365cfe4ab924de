package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eric-dev/eric/internal/credstore"
	"github.com/eric-dev/eric/internal/session"
	"github.com/eric-dev/eric/internal/testutil"
)

const (
	idA = "aabbccddeeff00112233445566778899"
	idB = "99887766554433221100ffeeddccbbaa"
)

type fakeExchanger struct {
	refresh      func(refreshToken string) (*session.Session, error)
	code         func(authorizationCode string) (*session.Session, error)
	refreshCalls int
	codeCalls    int
}

func (f *fakeExchanger) RefreshSession(ctx context.Context, refreshToken string) (*session.Session, error) {
	f.refreshCalls++
	if f.refresh == nil {
		return nil, errors.New("unexpected refresh")
	}
	return f.refresh(refreshToken)
}

func (f *fakeExchanger) CodeSession(ctx context.Context, authorizationCode string) (*session.Session, error) {
	f.codeCalls++
	if f.code == nil {
		return nil, errors.New("unexpected code grant")
	}
	return f.code(authorizationCode)
}

type staticChecker struct {
	remaining int
	err       error
}

func (c staticChecker) VerifyToken(ctx context.Context, accessToken string) (int, error) {
	return c.remaining, c.err
}

func freshSession(accountID, displayName string) *session.Session {
	return &session.Session{
		AccountID:     accountID,
		DisplayName:   displayName,
		AccessToken:   "fresh-access-" + accountID,
		AccessExpiry:  time.Now().Add(8 * time.Hour),
		RefreshToken:  "fresh-refresh-" + accountID,
		RefreshExpiry: time.Now().Add(720 * time.Hour),
	}
}

func storedDir(t *testing.T) string {
	t.Helper()
	live := time.Now().Add(2 * time.Hour)
	return testutil.TempStore(t, map[string]string{
		idA + ".json": testutil.StoredAccountJSON(idA, "PlayerOne", live, time.Now().Add(720*time.Hour)),
		"default.json": testutil.DefaultPointerJSON(idA),
	})
}

func noPrompt(t *testing.T) session.Prompter {
	return func() (string, error) {
		t.Fatal("prompt must not be reached")
		return "", nil
	}
}

func TestResolveVerifiedStoredSession(t *testing.T) {
	store := credstore.New(storedDir(t))
	login := &fakeExchanger{}
	r := &session.Resolver{
		Store:    store,
		Login:    login,
		Verifier: &session.Verifier{Remote: staticChecker{remaining: 3600}},
		Prompt:   noPrompt(t),
	}

	s, outcome, err := r.Resolve(context.Background(), session.Selector{})
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, outcome)
	assert.Equal(t, session.ViaVerified, r.Via())
	assert.Equal(t, idA, s.AccountID)
	assert.Equal(t, "access-"+idA, s.AccessToken)
	assert.Zero(t, login.refreshCalls)
}

func TestResolveRefreshWhenVerifyFails(t *testing.T) {
	store := credstore.New(storedDir(t))
	login := &fakeExchanger{
		refresh: func(refreshToken string) (*session.Session, error) {
			assert.Equal(t, "refresh-"+idA, refreshToken)
			return freshSession(idA, "PlayerOne"), nil
		},
	}
	r := &session.Resolver{
		Store:    store,
		Login:    login,
		Verifier: &session.Verifier{Remote: staticChecker{err: errors.New("verify down")}},
		Prompt:   noPrompt(t),
	}

	s, outcome, err := r.Resolve(context.Background(), session.Selector{})
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, outcome)
	assert.Equal(t, session.ViaRefresh, r.Via())
	assert.Equal(t, "fresh-access-"+idA, s.AccessToken)

	// The rotated tokens must have replaced the stored record.
	reloaded, err := store.Load(idA)
	require.NoError(t, err)
	assert.Equal(t, "fresh-access-"+idA, reloaded.AccessToken)
	assert.Equal(t, "fresh-refresh-"+idA, reloaded.RefreshToken)
}

func TestResolveInteractiveAfterRefreshRejected(t *testing.T) {
	store := credstore.New(storedDir(t))
	login := &fakeExchanger{
		refresh: func(string) (*session.Session, error) {
			return nil, errors.New("refresh token revoked")
		},
		code: func(code string) (*session.Session, error) {
			assert.Equal(t, "auth-code-1", code)
			return freshSession(idA, "PlayerOne"), nil
		},
	}
	r := &session.Resolver{
		Store:    store,
		Login:    login,
		Verifier: &session.Verifier{Remote: staticChecker{remaining: 0}},
		Prompt:   func() (string, error) { return "auth-code-1\n", nil },
	}

	s, outcome, err := r.Resolve(context.Background(), session.Selector{})
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, outcome)
	assert.Equal(t, session.ViaInteractive, r.Via())
	assert.Equal(t, idA, s.AccountID)
	assert.Equal(t, 1, login.refreshCalls)
	assert.Equal(t, 1, login.codeCalls)
}

func TestResolveUserAborted(t *testing.T) {
	dir := t.TempDir()
	store := credstore.New(dir)
	r := &session.Resolver{
		Store:    store,
		Login:    &fakeExchanger{},
		Verifier: &session.Verifier{Remote: staticChecker{}},
		Prompt:   func() (string, error) { return "  \n", nil },
	}

	_, _, err := r.Resolve(context.Background(), session.Selector{})
	assert.ErrorIs(t, err, session.ErrUserAborted)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "an aborted login must not write anything")
}

func TestResolvePromptFailure(t *testing.T) {
	r := &session.Resolver{
		Store:    credstore.New(t.TempDir()),
		Login:    &fakeExchanger{},
		Verifier: &session.Verifier{Remote: staticChecker{}},
		Prompt:   func() (string, error) { return "", errors.New("stdin closed") },
	}

	_, _, err := r.Resolve(context.Background(), session.Selector{})
	assert.ErrorIs(t, err, session.ErrUserAborted)
}

func TestResolveLoginFailed(t *testing.T) {
	login := &fakeExchanger{
		code: func(string) (*session.Session, error) {
			return nil, errors.New("authorization code not found")
		},
	}
	r := &session.Resolver{
		Store:    credstore.New(t.TempDir()),
		Login:    login,
		Verifier: &session.Verifier{Remote: staticChecker{}},
		Prompt:   func() (string, error) { return "bad-code", nil },
	}

	_, _, err := r.Resolve(context.Background(), session.Selector{})
	assert.ErrorIs(t, err, session.ErrLoginFailed)
	assert.Contains(t, err.Error(), "authorization code not found")
}

func TestResolveOfflineIsIdempotent(t *testing.T) {
	dir := storedDir(t)
	store := credstore.New(dir)
	before, err := os.ReadFile(filepath.Join(dir, idA+".json"))
	require.NoError(t, err)

	r := &session.Resolver{
		Store:    store,
		Login:    &fakeExchanger{}, // any grant attempt errors
		Verifier: &session.Verifier{Remote: staticChecker{err: errors.New("must not be called")}},
		Prompt:   noPrompt(t),
		Offline:  true,
	}

	for i := 0; i < 2; i++ {
		s, outcome, err := r.Resolve(context.Background(), session.Selector{})
		require.NoError(t, err)
		assert.Equal(t, session.Authenticated, outcome)
		assert.Equal(t, session.ViaOffline, r.Via())
		assert.Equal(t, "access-"+idA, s.AccessToken)
	}

	after, err := os.ReadFile(filepath.Join(dir, idA+".json"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "offline resolution must not rewrite the record")
}

func TestResolveSelectorMismatchStillPersists(t *testing.T) {
	dir := t.TempDir()
	store := credstore.New(dir)
	login := &fakeExchanger{
		code: func(string) (*session.Session, error) {
			return freshSession(idB, "PlayerTwo"), nil
		},
	}
	r := &session.Resolver{
		Store:    store,
		Login:    login,
		Verifier: &session.Verifier{Remote: staticChecker{}},
		Prompt:   func() (string, error) { return "auth-code-1", nil },
	}

	s, outcome, err := r.Resolve(context.Background(), session.Selector{AccountID: idA})
	require.NoError(t, err)
	assert.Equal(t, session.SelectorMismatch, outcome)
	assert.Equal(t, idB, s.AccountID)

	// The login is kept for next time even though it cannot be used now,
	// and an explicitly selected account never grabs the default pointer.
	reloaded, err := store.Load(idB)
	require.NoError(t, err)
	assert.Equal(t, "fresh-access-"+idB, reloaded.AccessToken)
	_, err = store.DefaultAccountID()
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestResolveByDisplayNameIsCaseInsensitive(t *testing.T) {
	store := credstore.New(storedDir(t))
	r := &session.Resolver{
		Store:    store,
		Login:    &fakeExchanger{},
		Verifier: &session.Verifier{Remote: staticChecker{remaining: 3600}},
		Prompt:   noPrompt(t),
	}

	s, outcome, err := r.Resolve(context.Background(), session.Selector{DisplayName: "playerone"})
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, outcome)
	assert.Equal(t, idA, s.AccountID)
}

func TestResolveCorruptRecordFallsBackToInteractive(t *testing.T) {
	dir := testutil.TempStore(t, map[string]string{
		idA + ".json": "{not json",
		"default.json": testutil.DefaultPointerJSON(idA),
	})
	store := credstore.New(dir)
	login := &fakeExchanger{
		code: func(string) (*session.Session, error) {
			return freshSession(idA, "PlayerOne"), nil
		},
	}
	r := &session.Resolver{
		Store:    store,
		Login:    login,
		Verifier: &session.Verifier{Remote: staticChecker{}},
		Prompt:   func() (string, error) { return "auth-code-1", nil },
	}

	s, outcome, err := r.Resolve(context.Background(), session.Selector{})
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, outcome)
	assert.Equal(t, session.ViaInteractive, r.Via())
	assert.Zero(t, login.refreshCalls, "a corrupt record has no refresh token to try")

	// The fresh login replaced the corrupt file.
	reloaded, err := store.Load(idA)
	require.NoError(t, err)
	assert.Equal(t, s.AccessToken, reloaded.AccessToken)
}

func TestResolveDefaultPointerBehavior(t *testing.T) {
	t.Run("implicit selection sets default", func(t *testing.T) {
		store := credstore.New(t.TempDir())
		r := &session.Resolver{
			Store:    store,
			Login:    &fakeExchanger{code: func(string) (*session.Session, error) { return freshSession(idA, ""), nil }},
			Verifier: &session.Verifier{Remote: staticChecker{}},
			Prompt:   func() (string, error) { return "c", nil },
		}
		_, _, err := r.Resolve(context.Background(), session.Selector{})
		require.NoError(t, err)

		def, err := store.DefaultAccountID()
		require.NoError(t, err)
		assert.Equal(t, idA, def)
	})

	t.Run("explicit selection leaves default alone", func(t *testing.T) {
		store := credstore.New(t.TempDir())
		r := &session.Resolver{
			Store:    store,
			Login:    &fakeExchanger{code: func(string) (*session.Session, error) { return freshSession(idA, ""), nil }},
			Verifier: &session.Verifier{Remote: staticChecker{}},
			Prompt:   func() (string, error) { return "c", nil },
		}
		_, _, err := r.Resolve(context.Background(), session.Selector{AccountID: idA})
		require.NoError(t, err)

		_, err = store.DefaultAccountID()
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("set-default overrides explicit selection", func(t *testing.T) {
		store := credstore.New(t.TempDir())
		r := &session.Resolver{
			Store:      store,
			Login:      &fakeExchanger{code: func(string) (*session.Session, error) { return freshSession(idA, ""), nil }},
			Verifier:   &session.Verifier{Remote: staticChecker{}},
			Prompt:     func() (string, error) { return "c", nil },
			SetDefault: true,
		}
		_, _, err := r.Resolve(context.Background(), session.Selector{AccountID: idA})
		require.NoError(t, err)

		def, err := store.DefaultAccountID()
		require.NoError(t, err)
		assert.Equal(t, idA, def)
	})
}

func TestResolveFallbackMatrix(t *testing.T) {
	cases := []struct {
		name      string
		stored    bool
		refreshOK bool
		wantVia   session.Via
	}{
		{"stored record, refresh succeeds", true, true, session.ViaRefresh},
		{"stored record, refresh rejected", true, false, session.ViaInteractive},
		{"no record", false, false, session.ViaInteractive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dir string
			if tc.stored {
				dir = storedDir(t)
			} else {
				dir = t.TempDir()
			}
			login := &fakeExchanger{
				code: func(string) (*session.Session, error) { return freshSession(idA, ""), nil },
			}
			if tc.refreshOK {
				login.refresh = func(string) (*session.Session, error) { return freshSession(idA, ""), nil }
			} else {
				login.refresh = func(string) (*session.Session, error) { return nil, errors.New("rejected") }
			}
			r := &session.Resolver{
				Store:    credstore.New(dir),
				Login:    login,
				Verifier: &session.Verifier{Remote: staticChecker{remaining: 0}},
				Prompt:   func() (string, error) { return "c", nil },
			}

			_, outcome, err := r.Resolve(context.Background(), session.Selector{})
			require.NoError(t, err)
			assert.Equal(t, session.Authenticated, outcome)
			assert.Equal(t, tc.wantVia, r.Via())
		})
	}
}
