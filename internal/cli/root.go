// Package cli defines Cobra command definitions for the eric CLI.
// This file contains the root command, which logs in and launches the
// given game executable.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version = "dev" // set via ldflags at build time
)

// account selection flags, shared by the root command and the verbs.
var (
	accountNameFlag string
	accountIDFlag   string
	setDefaultFlag  bool
	offlineFlag     bool
)

// launch behavior flags.
var (
	manifestPathFlag  string
	noManifestFlag    bool
	heroicFlag        bool
	stayOpenFlag      bool
	dryRunFlag        bool
	calderaFlag       bool
	noUpdateCheckFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "eric [game executable] [-- game arguments]",
	Short: "Sign in to Epic Games and launch games without the launcher",
	Long: `Eric signs in to an Epic Games account, keeps the session fresh
across runs, and starts games with a one-time exchange code, the same
way the Epic Games Launcher would.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		zlog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runLaunch(args[0], args[1:])
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&verbose, "verbose", false, "Enable debug logging on stderr")
	pf.StringVar(&accountNameFlag, "account", "", "Sign in with a specific account username")
	pf.StringVar(&accountIDFlag, "account-id", "", "Sign in with a specific account ID")
	pf.BoolVar(&setDefaultFlag, "set-default", false, "Make the selected account the default")

	f := rootCmd.Flags()
	f.BoolVar(&offlineFlag, "offline", false, "Skip the login flow and launch in offline mode")
	f.StringVar(&manifestPathFlag, "manifest", "", "Load a launcher manifest file from this path")
	f.BoolVar(&noManifestFlag, "no-manifest", false, "Don't look for the game's manifest")
	f.BoolVar(&heroicFlag, "heroic", false, "Load the game's manifest from Heroic instead of Epic")
	f.BoolVar(&stayOpenFlag, "stay-open", false, "Stay open until the game exits")
	f.BoolVar(&dryRunFlag, "dry-run", false, "Go through the login flow but do not launch")
	f.BoolVar(&calderaFlag, "caldera", false, "Request an anti-cheat assignment before launching")
	f.BoolVar(&noUpdateCheckFlag, "no-update-check", false, "Skip the pre-login game update check")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(exchangeCmd)
	rootCmd.AddCommand(accessCmd)
	rootCmd.AddCommand(calderaCmd)
	rootCmd.AddCommand(accountsCmd)
}
