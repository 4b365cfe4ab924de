// types.go holds the wire formats of the account, ecom and caldera
// services. Only the fields the launcher reads are declared.
package epic

import "time"

// loginResponse is the success body of the OAuth token endpoint.
type loginResponse struct {
	AccessToken      string    `json:"access_token"`
	ExpiresIn        int       `json:"expires_in"`
	ExpiresAt        time.Time `json:"expires_at"`
	TokenType        string    `json:"token_type"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpires   int       `json:"refresh_expires"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	AccountID        string    `json:"account_id"`
	ClientID         string    `json:"client_id"`
	DisplayName      string    `json:"displayName"`
	App              string    `json:"app"`
}

// exchangeResponse is the body of the exchange-code endpoint.
type exchangeResponse struct {
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	Code             string `json:"code"`
	CreatingClientID string `json:"creatingClientId"`
}

// verifyResponse is the body of the token verify endpoint.
type verifyResponse struct {
	Token       string    `json:"token"`
	SessionID   string    `json:"session_id"`
	TokenType   string    `json:"token_type"`
	AccountID   string    `json:"account_id"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	AuthMethod  string    `json:"auth_method"`
	DisplayName string    `json:"display_name"`
}

// errorResponse is the error envelope shared by all account-service
// endpoints.
type errorResponse struct {
	ErrorCode        string   `json:"errorCode"`
	ErrorMessage     string   `json:"errorMessage"`
	MessageVars      []string `json:"messageVars"`
	NumericErrorCode int      `json:"numericErrorCode"`
}

// ownershipResponse is the body of the ecom ownership-token endpoint.
type ownershipResponse struct {
	Token string `json:"token"`
}

// CalderaRequest is the body sent to the caldera racp endpoint.
type CalderaRequest struct {
	AccountID    string `json:"account_id"`
	ExchangeCode string `json:"exchange_code"`
	TestMode     bool   `json:"test_mode"`
	EpicApp      string `json:"epic_app"`
	Nvidia       bool   `json:"nvidia"`
	Luna         bool   `json:"luna"`
	Salmon       bool   `json:"salmon"`
}

// CalderaResponse names the anti-cheat provider to use and carries the
// JWT handed to the game on its command line.
type CalderaResponse struct {
	Provider string `json:"provider"`
	JWT      string `json:"jwt"`
}

// versionCheckResponse is the body of the Fortnite version check.
type versionCheckResponse struct {
	Type string `json:"type"`
}
