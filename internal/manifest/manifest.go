// Package manifest locates and parses game install manifests written by
// the Epic Games Launcher, or by Heroic/legendary as a fallback.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound means no manifest matched the requested executable.
var ErrNotFound = errors.New("no manifest found")

// Manifest is the subset of an Epic Games Launcher item manifest that
// launching needs.
type Manifest struct {
	FormatVersion            int    `json:"FormatVersion"`
	AppName                  string `json:"AppName"`
	DisplayName              string `json:"DisplayName"`
	LaunchExecutable         string `json:"LaunchExecutable"`
	LaunchCommand            string `json:"LaunchCommand"`
	InstallLocation          string `json:"InstallLocation"`
	CanRunOffline            bool   `json:"bCanRunOffline"`
	IsApplication            bool   `json:"bIsApplication"`
	OwnershipToken           string `json:"OwnershipToken"`
	CatalogNamespace         string `json:"CatalogNamespace"`
	CatalogItemID            string `json:"CatalogItemId"`
	MainGameCatalogNamespace string `json:"MainGameCatalogNamespace"`
	MainGameCatalogItemID    string `json:"MainGameCatalogItemId"`
	MainGameAppName          string `json:"MainGameAppName"`
}

// NeedsOwnershipToken reports whether the launcher should fetch an
// ownership token before starting this game.
func (m *Manifest) NeedsOwnershipToken() bool {
	return m.OwnershipToken == "true"
}

// legendaryEntry is one value of legendary's installed.json.
type legendaryEntry struct {
	AppName          string `json:"app_name"`
	CanRunOffline    bool   `json:"can_run_offline"`
	Executable       string `json:"executable"`
	InstallPath      string `json:"install_path"`
	IsDLC            bool   `json:"is_dlc"`
	LaunchParameters string `json:"launch_parameters"`
	RequiresOT       bool   `json:"requires_ot"`
	Title            string `json:"title"`
}

// Load parses a single manifest file.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}

// Discover scans an Epic Games Launcher manifest directory for the item
// whose launch executable matches exeName (basename, case-insensitive).
// Unreadable files are skipped; only a total miss is an error.
func Discover(dir, exeName string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if m.LaunchExecutable != "" &&
			strings.EqualFold(filepath.Base(m.LaunchExecutable), exeName) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNotFound, exeName)
}

// DiscoverLegendary reads legendary's installed.json (as used by the
// Heroic launcher) and converts the matching entry into a Manifest.
func DiscoverLegendary(installedPath, exeName string) (*Manifest, error) {
	content, err := os.ReadFile(installedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, installedPath)
	}
	var installed map[string]legendaryEntry
	if err := json.Unmarshal(content, &installed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(installedPath), err)
	}
	for _, entry := range installed {
		if entry.Executable == "" ||
			!strings.EqualFold(filepath.Base(entry.Executable), exeName) {
			continue
		}
		ownership := "false"
		if entry.RequiresOT {
			ownership = "true"
		}
		return &Manifest{
			AppName:          entry.AppName,
			DisplayName:      entry.Title,
			LaunchExecutable: entry.Executable,
			LaunchCommand:    entry.LaunchParameters,
			InstallLocation:  entry.InstallPath,
			CanRunOffline:    entry.CanRunOffline,
			IsApplication:    !entry.IsDLC,
			OwnershipToken:   ownership,
		}, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrNotFound, exeName)
}

// DefaultDir returns the Epic Games Launcher manifest directory for
// this platform.
func DefaultDir() string {
	const suffix = "Epic/EpicGamesLauncher/Data/Manifests"
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", suffix)
	case "windows":
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, suffix)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", suffix)
	}
}

// DefaultLegendaryPath returns the Heroic legendary installed.json
// location for this platform.
func DefaultLegendaryPath() string {
	cfg, _ := os.UserConfigDir()
	return filepath.Join(cfg, "heroic", "legendaryConfig", "legendary", "installed.json")
}

// ExecutableFor maps special-cased executables to the manifest that
// actually describes them: FortniteClient binaries are launched through
// FortniteLauncher's manifest.
func ExecutableFor(exeName string) string {
	if strings.HasPrefix(strings.ToLower(exeName), "fortniteclient") {
		return "FortniteLauncher.exe"
	}
	return exeName
}
