// access.go implements the "eric access" command: hand the identity
// off to the game client via an exchange code and print the resulting
// game-scoped access token.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eric-dev/eric/internal/epic"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Print a game-client access token",
	Long: `Log in, mint an exchange code, and redeem it as the game client
to obtain a game-scoped access token. Useful for poking at game APIs.`,
	RunE: runAccess,
}

func runAccess(cmd *cobra.Command, args []string) error {
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

	gameClient := epic.NewClient(epic.FortnitePC)
	gameSession, err := gameClient.ExchangeCodeSession(ctx, code)
	if err != nil {
		return fmt.Errorf("redeeming exchange code: %w", err)
	}
	fmt.Printf("Access Token: %s\n", gameSession.AccessToken)
	return nil
}
