// caldera.go requests an anti-cheat provider assignment from the
// caldera service before launching games that require one.
package epic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CalderaBase is the production caldera service host.
const CalderaBase = "https://caldera-service-prod.ecosec.on.epicgames.com"

const calderaRacpPath = "/caldera/api/v1/launcher/racp"

// Caldera asks the caldera service which anti-cheat provider to use for
// the given app, authenticated by account id plus a fresh exchange code.
// base may be empty to use the production host.
func Caldera(ctx context.Context, base, accountID, exchangeCode, app string) (*CalderaResponse, error) {
	if base == "" {
		base = CalderaBase
	}

	payload, err := json.Marshal(CalderaRequest{
		AccountID:    accountID,
		ExchangeCode: exchangeCode,
		EpicApp:      app,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding caldera request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+calderaRacpPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building caldera request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Caldera/UNKNOWN-UNKNOWN-UNKNOWN")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling caldera: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeProviderError(resp)
	}

	var caldera CalderaResponse
	if err := json.NewDecoder(resp.Body).Decode(&caldera); err != nil {
		return nil, fmt.Errorf("decoding caldera response: %w", err)
	}
	return &caldera, nil
}
