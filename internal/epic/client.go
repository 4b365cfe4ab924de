// client.go implements the OAuth-style token grants and the bearer
// endpoints of the account service.
package epic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/eric-dev/eric/internal/session"
)

const (
	tokenPath    = "/account/api/oauth/token"
	exchangePath = "/account/api/oauth/exchange"
	verifyPath   = "/account/api/oauth/verify"
	killPath     = "/account/api/oauth/sessions/kill/"
)

// Client talks to the account service on behalf of one Provider.
// All methods are plain synchronous network calls with no local state.
type Client struct {
	provider Provider
	base     string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the account service base URL (tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient returns a Client for the given provider credentials.
func NewClient(p Provider, opts ...Option) *Client {
	c := &Client{
		provider: p,
		base:     p.AccountsBase,
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider this client authenticates as.
func (c *Client) Provider() Provider { return c.provider }

// token performs one grant against the token endpoint. field names the
// form key carrying the grant credential; it is empty for grants that
// need none. Every grant requests an eg1 token, which is what the games
// expect to be handed later.
func (c *Client) token(ctx context.Context, grantType, field, value string) (*loginResponse, error) {
	form := url.Values{}
	form.Set("grant_type", grantType)
	if field != "" {
		form.Set(field, value)
	}
	form.Set("token_type", "eg1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.provider.ClientID, c.provider.ClientSecret)

	log.Debug().Str("grant", grantType).Str("client", c.provider.Name).Msg("token grant")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s grant: %w", grantType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeProviderError(resp)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	return &login, nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*session.Session, error) {
	login, err := c.token(ctx, "refresh_token", "refresh_token", refreshToken)
	if err != nil {
		return nil, err
	}
	return sessionFromLogin(login)
}

// CodeSession exchanges a user-supplied authorization code for a
// session. This is the only grant that requires interactive input.
func (c *Client) CodeSession(ctx context.Context, authorizationCode string) (*session.Session, error) {
	login, err := c.token(ctx, "authorization_code", "code", authorizationCode)
	if err != nil {
		return nil, err
	}
	return sessionFromLogin(login)
}

// ExchangeCodeSession exchanges a single-use exchange code for a
// session, typically to re-establish the identity under a different
// client id (the game clients do this internally).
func (c *Client) ExchangeCodeSession(ctx context.Context, exchangeCode string) (*session.Session, error) {
	login, err := c.token(ctx, "exchange_code", "exchange_code", exchangeCode)
	if err != nil {
		return nil, err
	}
	return sessionFromLogin(login)
}

// ClientCredentials fetches a bearer token carrying no user identity,
// for out-of-band calls like the version check.
func (c *Client) ClientCredentials(ctx context.Context) (string, error) {
	cc := clientcredentials.Config{
		ClientID:     c.provider.ClientID,
		ClientSecret: c.provider.ClientSecret,
		TokenURL:     c.base + tokenPath,
		EndpointParams: url.Values{
			"token_type": {"eg1"},
		},
	}
	tok, err := cc.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("client credentials grant: %w", err)
	}
	return tok.AccessToken, nil
}

// ExchangeCode mints a single-use exchange code from a live access
// token. The code expires provider-side within tens of seconds, so it
// must be consumed immediately and is never stored.
func (c *Client) ExchangeCode(ctx context.Context, accessToken string) (string, error) {
	var exch exchangeResponse
	if err := c.getJSON(ctx, c.base+exchangePath, accessToken, &exch); err != nil {
		return "", err
	}
	if exch.Code == "" {
		return "", ErrEmptyExchangeCode
	}
	return exch.Code, nil
}

// VerifyToken asks the account service whether an access token is still
// live and returns its remaining lifetime in seconds.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (int, error) {
	var verify verifyResponse
	if err := c.getJSON(ctx, c.base+verifyPath, accessToken, &verify); err != nil {
		return 0, err
	}
	return verify.ExpiresIn, nil
}

// KillSession invalidates an access token server-side. Used on logout.
func (c *Client) KillSession(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+killPath+accessToken, nil)
	if err != nil {
		return fmt.Errorf("building kill request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("killing session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeProviderError(resp)
	}
	return nil
}

// getJSON performs a bearer-authenticated GET and decodes the body.
func (c *Client) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeProviderError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeProviderError turns a non-success response into a
// *ProviderError, keeping the status even if the envelope is garbage.
func decodeProviderError(resp *http.Response) error {
	perr := &ProviderError{Status: resp.StatusCode}
	var envelope errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		perr.Code = envelope.ErrorCode
		perr.Message = envelope.ErrorMessage
	}
	return perr
}

// sessionFromLogin builds a Session from a grant response, refusing to
// produce a partial one.
func sessionFromLogin(login *loginResponse) (*session.Session, error) {
	s := &session.Session{
		AccountID:     login.AccountID,
		DisplayName:   login.DisplayName,
		AccessToken:   login.AccessToken,
		AccessExpiry:  login.ExpiresAt,
		RefreshToken:  login.RefreshToken,
		RefreshExpiry: login.RefreshExpiresAt,
	}
	if !s.Complete() {
		return nil, fmt.Errorf("token response is missing required session fields")
	}
	return s, nil
}
