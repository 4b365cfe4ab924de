// Package credstore persists one session record per account id under a
// storage root, plus a default-account pointer. The on-disk JSON keeps
// the field names the original launcher wrote, so existing records keep
// loading.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eric-dev/eric/internal/session"
)

const defaultFile = "default.json"

// accountIDLength is the length of provider account ids; files whose
// basename is any other length are not account records.
const accountIDLength = 32

// record is the durable projection of a session.
type record struct {
	AccountID     string    `json:"AccountId"`
	DisplayName   string    `json:"DisplayName,omitempty"`
	AccessToken   string    `json:"AccessToken,omitempty"`
	AccessExpiry  time.Time `json:"AccessExpiry,omitzero"`
	RefreshToken  string    `json:"RefreshToken,omitempty"`
	RefreshExpiry time.Time `json:"RefreshExpiry,omitzero"`
}

// Store reads and writes session records under one directory. The
// directory is created lazily on the first write.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage root.
func (s *Store) Dir() string { return s.dir }

// Load reads the record for an account id. A missing, unreadable, or
// mislabeled record is session.ErrNotFound: corruption must never crash
// the tool, it just triggers a fresh login.
func (s *Store) Load(accountID string) (*session.Session, error) {
	rec, err := s.read(s.path(accountID))
	if err != nil {
		return nil, err
	}
	if rec.AccountID != accountID {
		return nil, fmt.Errorf("record %s names account %s: %w", accountID, rec.AccountID, session.ErrNotFound)
	}
	return rec.session(), nil
}

// LoadByName scans the stored records for one with a matching display
// name.
func (s *Store) LoadByName(displayName string) (*session.Session, error) {
	recs, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if strings.EqualFold(rec.DisplayName, displayName) {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("no account named %q: %w", displayName, session.ErrNotFound)
}

// List returns every readable stored record.
func (s *Store) List() ([]*session.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}

	var sessions []*session.Session
	for _, entry := range entries {
		name := entry.Name()
		base := strings.TrimSuffix(name, ".json")
		if entry.IsDir() || base == name || len(base) != accountIDLength {
			continue
		}
		rec, err := s.read(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		sessions = append(sessions, rec.session())
	}
	return sessions, nil
}

// DefaultAccountID returns the account id the default pointer names.
func (s *Store) DefaultAccountID() (string, error) {
	rec, err := s.read(filepath.Join(s.dir, defaultFile))
	if err != nil {
		return "", err
	}
	if rec.AccountID == "" {
		return "", session.ErrNotFound
	}
	return rec.AccountID, nil
}

// Save replaces the record for the session's account id, creating the
// store directory on first use. Partial sessions are refused outright
// so a half-populated record can never land on disk.
func (s *Store) Save(sess *session.Session, setDefault bool) error {
	if !sess.Complete() {
		return fmt.Errorf("refusing to store incomplete session for %q", sess.AccountID)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	if err := s.write(s.path(sess.AccountID), record{
		AccountID:     sess.AccountID,
		DisplayName:   sess.DisplayName,
		AccessToken:   sess.AccessToken,
		AccessExpiry:  sess.AccessExpiry,
		RefreshToken:  sess.RefreshToken,
		RefreshExpiry: sess.RefreshExpiry,
	}); err != nil {
		return err
	}

	if setDefault {
		return s.write(filepath.Join(s.dir, defaultFile), record{AccountID: sess.AccountID})
	}
	return nil
}

// Delete removes the record for an account id. Missing records are fine.
func (s *Store) Delete(accountID string) error {
	if err := os.Remove(s.path(accountID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting account record: %w", err)
	}
	return nil
}

// ClearDefault removes the default pointer.
func (s *Store) ClearDefault() error {
	if err := os.Remove(filepath.Join(s.dir, defaultFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing default account: %w", err)
	}
	return nil
}

func (s *Store) path(accountID string) string {
	return filepath.Join(s.dir, accountID+".json")
}

func (s *Store) read(path string) (*record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	var rec record
	if err := json.Unmarshal(content, &rec); err != nil {
		// Treat corruption like absence; the resolver falls back to a
		// fresh login and the next save replaces the file.
		log.Debug().Err(err).Str("file", filepath.Base(path)).Msg("discarding unreadable record")
		return nil, fmt.Errorf("unreadable record: %w", session.ErrNotFound)
	}
	return &rec, nil
}

func (s *Store) write(path string, rec record) error {
	content, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (rec *record) session() *session.Session {
	return &session.Session{
		AccountID:     rec.AccountID,
		DisplayName:   rec.DisplayName,
		AccessToken:   rec.AccessToken,
		AccessExpiry:  rec.AccessExpiry,
		RefreshToken:  rec.RefreshToken,
		RefreshExpiry: rec.RefreshExpiry,
	}
}
