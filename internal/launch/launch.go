// Package launch assembles the game command line and spawns the game
// process. It receives the resolved identity and a one-time exchange
// code; access and refresh tokens never cross into this package.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eric-dev/eric/internal/manifest"
)

// Options describes one launch.
type Options struct {
	Executable string

	// Identity handed to the game. ExchangeCode is empty in offline
	// mode, in which case no auth arguments are emitted.
	AccountID    string
	DisplayName  string
	ExchangeCode string

	Manifest           *manifest.Manifest
	OwnershipTokenPath string
	ExtraArgs          []string

	Environment string // e.g. "Prod"
	Locale      string // e.g. "en-US"

	DryRun   bool
	StayOpen bool
}

// Args builds the full argument list for the game process.
func Args(opts Options) []string {
	args := []string{
		"-epicenv=" + opts.Environment,
		"-epiclocale=" + opts.Locale,
		"-EpicPortal",
		"-AUTH_LOGIN=unused",
	}

	if opts.ExchangeCode != "" {
		args = append(args,
			"-AUTH_TYPE=exchangecode",
			"-AUTH_PASSWORD="+opts.ExchangeCode,
		)
	}

	if opts.AccountID != "" {
		args = append(args, "-epicuserid="+opts.AccountID)
		if opts.DisplayName != "" {
			args = append(args, fmt.Sprintf("-epicusername=%q", opts.DisplayName))
		}
	}

	if m := opts.Manifest; m != nil {
		args = append(args,
			"-epicsandboxid="+m.MainGameCatalogNamespace,
			"-epicapp="+m.MainGameAppName,
		)
		args = append(args, splitArgs(m.LaunchCommand)...)
	}

	args = append(args, opts.ExtraArgs...)

	if opts.OwnershipTokenPath != "" {
		args = append(args, fmt.Sprintf("-epicovt=%q", opts.OwnershipTokenPath))
	}

	return args
}

// Run starts the game, or in dry-run mode only prints the command line.
// With StayOpen it waits for the game and returns its exit code;
// otherwise the returned code is 0 as soon as the process started.
func Run(opts Options) (int, error) {
	args := Args(opts)

	if opts.DryRun {
		fmt.Printf("Launch: %s %s\n", opts.Executable, strings.Join(args, " "))
		return 0, nil
	}

	cmd := exec.Command(opts.Executable, args...)
	cmd.Dir = filepath.Dir(opts.Executable)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", filepath.Base(opts.Executable), err)
	}
	log.Debug().Int("pid", cmd.Process.Pid).Str("exe", opts.Executable).Msg("game started")

	if !opts.StayOpen {
		// Let the game outlive the launcher.
		if err := cmd.Process.Release(); err != nil {
			return 0, fmt.Errorf("releasing game process: %w", err)
		}
		return 0, nil
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("waiting for game: %w", err)
	}
	return 0, nil
}

// splitArgs splits a manifest launch command on spaces. Manifests store
// these pre-split by the upstream launcher, so plain splitting matches
// its behavior.
func splitArgs(command string) []string {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	return strings.Fields(command)
}
