// Package testutil provides test helper utilities for eric tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TempStore creates a temporary directory with the given files and
// returns its path. Files is a map of relative path -> content.
// The directory is automatically cleaned up when the test finishes.
func TempStore(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// StoredAccountJSON renders a stored account record the way the store
// writes it.
func StoredAccountJSON(accountID, displayName string, accessExpiry, refreshExpiry time.Time) string {
	rec := map[string]any{
		"AccountId":     accountID,
		"AccessToken":   "access-" + accountID,
		"AccessExpiry":  accessExpiry.Format(time.RFC3339),
		"RefreshToken":  "refresh-" + accountID,
		"RefreshExpiry": refreshExpiry.Format(time.RFC3339),
	}
	if displayName != "" {
		rec["DisplayName"] = displayName
	}
	content, _ := json.Marshal(rec)
	return string(content)
}

// DefaultPointerJSON renders the default.json pointer record.
func DefaultPointerJSON(accountID string) string {
	return fmt.Sprintf(`{"AccountId": %q}`, accountID)
}

// LoginResponseJSON renders a token-endpoint success body.
func LoginResponseJSON(accountID, displayName, accessToken, refreshToken string, accessExpiry, refreshExpiry time.Time) string {
	body := map[string]any{
		"access_token":       accessToken,
		"expires_in":         int(time.Until(accessExpiry).Seconds()),
		"expires_at":         accessExpiry.Format(time.RFC3339),
		"token_type":         "bearer",
		"refresh_token":      refreshToken,
		"refresh_expires_at": refreshExpiry.Format(time.RFC3339),
		"account_id":         accountID,
	}
	if displayName != "" {
		body["displayName"] = displayName
	}
	content, _ := json.Marshal(body)
	return string(content)
}
