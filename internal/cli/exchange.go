// exchange.go implements the "eric exchange" command, which logs in and
// prints a one-time exchange code instead of launching anything.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Print a one-time exchange code",
	Long: `Log in and print an exchange code. The code is single-use and
expires within seconds, so consume it immediately.`,
	RunE: runExchange,
}

func runExchange(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("Exchange Code: %s\n", code)
	return nil
}
