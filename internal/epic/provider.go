// Package epic is the client for the Epic Games account services: OAuth
// token grants, exchange codes, token verification, and the handful of
// adjacent services the launcher talks to (ecom, caldera, version check).
package epic

import "fmt"

// Client id/secret pairs identifying the calling application to the
// account service. These are the well-known public launcher credentials,
// not user secrets.
const (
	LauncherClientID     = "34a02cf8f4414e29b15921876da36f9a"
	LauncherClientSecret = "daafbccc737745039dffe53d94fc76cf"

	FortnitePCClientID     = "ec684b8c687f479fadea3cb2ad83f5c6"
	FortnitePCClientSecret = "e1f31c211f28413186262d37a13fc84d"
)

// AccountsBase is the production account service host.
const AccountsBase = "https://account-public-service-prod.ol.epicgames.com"

// Provider is one set of application credentials against one account
// service base URL. Two historical integrations ("eas" and "epic")
// shared the same endpoints, so they collapse into presets here.
type Provider struct {
	Name         string
	AccountsBase string
	ClientID     string
	ClientSecret string
}

// Launcher is the provider preset used for the normal sign-in flow.
var Launcher = Provider{
	Name:         "launcher",
	AccountsBase: AccountsBase,
	ClientID:     LauncherClientID,
	ClientSecret: LauncherClientSecret,
}

// FortnitePC is the game client preset, used for the version check and
// for minting game-scoped access tokens from an exchange code.
var FortnitePC = Provider{
	Name:         "fortnite-pc",
	AccountsBase: AccountsBase,
	ClientID:     FortnitePCClientID,
	ClientSecret: FortnitePCClientSecret,
}

// Named maps a provider name from the config file to a preset.
// "eas" and "epic" are accepted as aliases for the launcher preset so
// configs written against the older integration keep working.
func Named(name string) (Provider, error) {
	switch name {
	case "", "epic", "eas", "launcher":
		return Launcher, nil
	case "fortnite-pc":
		return FortnitePC, nil
	}
	return Provider{}, fmt.Errorf("unknown provider %q", name)
}

// RedirectURL returns the browser URL that yields an authorization code
// for this provider's client id.
func (p Provider) RedirectURL() string {
	return "https://www.epicgames.com/id/api/redirect?clientId=" + p.ClientID + "&responseType=code"
}
