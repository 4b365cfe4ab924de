// launch.go implements the root launch pipeline: update check, login,
// manifest lookup, exchange code, and finally the game process itself.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eric-dev/eric/internal/epic"
	"github.com/eric-dev/eric/internal/launch"
	elog "github.com/eric-dev/eric/internal/log"
	"github.com/eric-dev/eric/internal/manifest"
)

func runLaunch(exe string, extraArgs []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	exeBase := filepath.Base(exe)

	// Fortnite refuses to go online when outdated; check before
	// bothering the user with a login.
	if isFortniteLauncher(exeBase) && a.cfg.UpdateCheck && !noUpdateCheckFlag && !offlineFlag {
		upToDate := a.checkForUpdates(ctx, exe)
		if !upToDate {
			fmt.Println("The game is not the latest version!")
			fmt.Println("Please open the Epic Games Launcher to start updating it.")
			a.appendEvent(elog.LogEvent{Event: elog.EventUpdateRequired, Executable: exeBase})
			return nil
		}
	}

	s, err := a.resolveSession(ctx, offlineFlag)
	if err != nil {
		return err
	}

	m := a.loadManifest(exeBase)

	var exchangeCode string
	if !offlineFlag {
		exchangeCode, err = a.client.ExchangeCode(ctx, s.AccessToken)
		if err != nil {
			return fmt.Errorf("fetching exchange code: %w", err)
		}
	}

	opts := launch.Options{
		Executable:   exe,
		AccountID:    s.AccountID,
		DisplayName:  s.DisplayName,
		ExchangeCode: exchangeCode,
		Manifest:     m,
		ExtraArgs:    extraArgs,
		Environment:  a.cfg.Launch.Environment,
		Locale:       a.cfg.Launch.Locale,
		DryRun:       dryRunFlag,
		StayOpen:     stayOpenFlag,
	}

	if calderaFlag && strings.HasPrefix(exeBase, "Fortnite") && !offlineFlag {
		resp, err := epic.Caldera(ctx, "", s.AccountID, exchangeCode, "fortnite")
		if err != nil {
			return fmt.Errorf("requesting anti-cheat assignment: %w", err)
		}
		if err := launch.ApplyCaldera(&opts, resp); err != nil {
			return err
		}
		// The caldera exchange code is consumed; mint another for the
		// game itself.
		opts.ExchangeCode, err = a.client.ExchangeCode(ctx, s.AccessToken)
		if err != nil {
			return fmt.Errorf("fetching exchange code: %w", err)
		}
	}

	if m != nil && m.NeedsOwnershipToken() && !offlineFlag {
		opts.OwnershipTokenPath = a.ownershipTokenPath(ctx, s.AccessToken, s.AccountID, m)
	}

	fmt.Println("Launching game...")
	a.appendEvent(elog.LogEvent{
		Event:      elog.EventLaunchStarted,
		AccountID:  s.AccountID,
		Executable: exeBase,
		App:        manifestApp(m),
		DryRun:     dryRunFlag,
	})

	exitCode, err := launch.Run(opts)
	if err != nil {
		return err
	}
	if stayOpenFlag && !dryRunFlag {
		fmt.Printf("Game exited with code %d\n", exitCode)
		a.appendEvent(elog.LogEvent{
			Event:      elog.EventGameExited,
			Executable: exeBase,
			ExitCode:   exitCode,
		})
	}
	return nil
}

// loadManifest finds the game's manifest, honoring the manifest flags.
// A missing manifest is a warning: the game may still start, just with
// fewer launch arguments.
func (a *app) loadManifest(exeBase string) *manifest.Manifest {
	if noManifestFlag {
		return nil
	}

	var (
		m   *manifest.Manifest
		err error
	)
	switch {
	case manifestPathFlag != "":
		m, err = manifest.Load(manifestPathFlag)
	case heroicFlag:
		m, err = manifest.DiscoverLegendary(manifest.DefaultLegendaryPath(), exeBase)
	default:
		m, err = manifest.Discover(manifest.DefaultDir(), manifest.ExecutableFor(exeBase))
	}
	if err != nil {
		log.Debug().Err(err).Str("exe", exeBase).Msg("manifest lookup failed")
		fmt.Println("Manifest wasn't loaded! The game might not work properly.")
		fmt.Println("(Try launching the game via the Epic Games Launcher at least once.)")
		return nil
	}
	return m
}

// checkForUpdates reads the build version next to the executable and
// asks the version check service about it. Any error means "assume up
// to date": an unreachable check must not block launching.
func (a *app) checkForUpdates(ctx context.Context, exe string) bool {
	fmt.Println("Checking for game updates...")

	cloudPath := filepath.Join(filepath.Dir(exe), "..", "..", "..", "Cloud", "cloudcontent.json")
	content, err := os.ReadFile(cloudPath)
	if err != nil {
		a.warnUpdateCheck(err)
		return true
	}
	var cloud epic.CloudContent
	if err := json.Unmarshal(content, &cloud); err != nil {
		a.warnUpdateCheck(err)
		return true
	}
	fmt.Printf("Current version: %s (%s)\n", cloud.BuildVersion, cloud.Platform)

	gameClient := epic.NewClient(epic.FortnitePC)
	upToDate, err := epic.UpToDate(ctx, gameClient, "", cloud.BuildVersion, cloud.Platform)
	if err != nil {
		a.warnUpdateCheck(err)
		return true
	}
	return upToDate
}

func (a *app) warnUpdateCheck(err error) {
	log.Debug().Err(err).Msg("update check failed")
	fmt.Println("There was an error checking for game updates.")
	fmt.Println("The game might not let you online. Continuing anyway...")
}

// ownershipTokenPath fetches the ownership token and caches it under
// the storage directory. Best effort: a failure never blocks launch.
func (a *app) ownershipTokenPath(ctx context.Context, accessToken, accountID string, m *manifest.Manifest) string {
	token, err := epic.NewEcom().OwnershipToken(ctx, accessToken, accountID, m.CatalogNamespace, m.CatalogItemID)
	if err != nil {
		fmt.Printf("Failed to fetch ownership token: %s\n", err)
		return ""
	}

	dir := filepath.Join(a.store.Dir(), "OVT")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Debug().Err(err).Msg("could not create ownership token directory")
		return ""
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.ovt", accountID, m.MainGameAppName))
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		log.Debug().Err(err).Msg("could not write ownership token")
		return ""
	}
	return path
}

func isFortniteLauncher(exeBase string) bool {
	return strings.EqualFold(exeBase, "FortniteLauncher.exe")
}

func manifestApp(m *manifest.Manifest) string {
	if m == nil {
		return ""
	}
	return m.AppName
}
