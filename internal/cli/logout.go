// logout.go implements the "eric logout" command.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	elog "github.com/eric-dev/eric/internal/log"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the selected account",
	Long: `Remove the stored session for the selected account (the default
account unless --account or --account-id is given) and invalidate it
with the identity provider.`,
	RunE: runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()

	// Resolve first so the provider-side session can be killed too.
	s, err := a.resolveSession(ctx, false)
	if err != nil {
		return err
	}

	if err := a.store.Delete(s.AccountID); err != nil {
		return err
	}
	if id, derr := a.store.DefaultAccountID(); derr == nil && id == s.AccountID {
		if err := a.store.ClearDefault(); err != nil {
			return err
		}
	}

	a.appendEvent(elog.LogEvent{Event: elog.EventLogout, AccountID: s.AccountID})

	if err := a.client.KillSession(ctx, s.AccessToken); err != nil {
		// The local record is gone either way; the provider session
		// will age out on its own.
		log.Debug().Err(err).Msg("could not kill provider session")
		fmt.Println("Logged out!")
		return nil
	}
	fmt.Println("Successfully logged out!")
	return nil
}
