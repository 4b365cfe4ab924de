// versioncheck.go asks the Fortnite version check service whether the
// installed build is current. An out-of-date build will not be allowed
// online, so the launcher checks before bothering with login.
package epic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// VersionCheckBase is the production version check host.
const VersionCheckBase = "https://fngw-mcp-gc-livefn.ol.epicgames.com"

// CloudContent is the relevant part of the game's cloudcontent.json,
// found a few directories above the launcher executable.
type CloudContent struct {
	AppName      string `json:"AppName"`
	BuildVersion string `json:"BuildVersion"`
	Platform     string `json:"Platform"`
}

// UpToDate reports whether the given build version is the latest for
// its platform. It authenticates with a client-credentials token from
// the game client, since the check needs a bearer but no user identity.
// base may be empty to use the production host.
func UpToDate(ctx context.Context, client *Client, base, buildVersion, platform string) (bool, error) {
	bearer, err := client.ClientCredentials(ctx)
	if err != nil {
		return false, err
	}

	if base == "" {
		base = VersionCheckBase
	}
	checkURL := fmt.Sprintf("%s/fortnite/api/v2/versioncheck/%s?version=%s",
		base, platform, url.QueryEscape(buildVersion+"-"+platform))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return false, fmt.Errorf("building version check request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "bearer "+bearer)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("checking version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, decodeProviderError(resp)
	}

	var check versionCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
		return false, fmt.Errorf("decoding version check: %w", err)
	}
	return check.Type == "NO_UPDATE", nil
}
