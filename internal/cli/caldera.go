// caldera.go implements the "eric caldera" command, printing the
// anti-cheat assignment without launching.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eric-dev/eric/internal/epic"
)

var calderaCmd = &cobra.Command{
	Use:   "caldera",
	Short: "Print the anti-cheat provider assignment",
	RunE:  runCaldera,
}

func runCaldera(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()

	s, err := a.resolveSession(ctx, false)
	if err != nil {
		return err
	}

	code, err := a.client.ExchangeCode(ctx, s.AccessToken)
	if err != nil {
		return fmt.Errorf("fetching exchange code: %w", err)
	}

	resp, err := epic.Caldera(ctx, "", s.AccountID, code, "fortnite")
	if err != nil {
		return fmt.Errorf("requesting anti-cheat assignment: %w", err)
	}
	fmt.Printf("AC Provider: %s\n", resp.Provider)
	fmt.Printf("AC JWT: %s\n", resp.JWT)
	return nil
}
