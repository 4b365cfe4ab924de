// ecom.go fetches ownership tokens from the ecommerce integration
// service. This is a best-effort extra: the caller treats any failure
// as "launch without one".
package epic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// EcomBase is the production ecommerce integration host.
const EcomBase = "https://ecommerceintegration-public-service-ecomprod02.ol.epicgames.com"

const ownershipPathFormat = "/ecommerceintegration/api/public/platforms/EPIC/identities/%s/ownershipToken"

// Ecom talks to the ecommerce integration service.
type Ecom struct {
	base string
	http *http.Client
}

// EcomOption configures an Ecom client.
type EcomOption func(*Ecom)

// WithEcomBaseURL overrides the ecom base URL (tests).
func WithEcomBaseURL(base string) EcomOption {
	return func(e *Ecom) { e.base = base }
}

// NewEcom returns an ecommerce integration client.
func NewEcom(opts ...EcomOption) *Ecom {
	e := &Ecom{base: EcomBase, http: http.DefaultClient}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OwnershipToken fetches a signed ownership token for one catalog item,
// proving the account owns the game being launched.
func (e *Ecom) OwnershipToken(ctx context.Context, accessToken, accountID, catalogNamespace, catalogItemID string) (string, error) {
	body := fmt.Sprintf("nsCatalogItemId=%s:%s", catalogNamespace, catalogItemID)
	url := e.base + fmt.Sprintf(ownershipPathFormat, accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building ownership request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "bearer "+accessToken)

	resp, err := e.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching ownership token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeProviderError(resp)
	}

	var ownership ownershipResponse
	if err := json.NewDecoder(resp.Body).Decode(&ownership); err != nil {
		return "", fmt.Errorf("decoding ownership token: %w", err)
	}
	return ownership.Token, nil
}
