// accounts.go implements the "eric accounts" command listing stored
// sessions. Purely local: no network calls.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List stored accounts",
	RunE:  runAccounts,
}

func runAccounts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	sessions, err := a.store.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No accounts stored. Launch a game to sign in.")
		return nil
	}

	defaultID, _ := a.store.DefaultAccountID()
	for _, s := range sessions {
		marker := " "
		if s.AccountID == defaultID {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, s.Label())
	}
	return nil
}
