package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/config"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

// TokenSet is the provider's token response surfaced to the SPA unchanged.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// Introspection is the subset of RFC 7662 fields the backend consumes.
type Introspection struct {
	Active  bool   `json:"active"`
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// Client talks to the external OAuth/OIDC provider. Calls use one short fixed
// timeout and are never retried; an unreachable provider is a hard failure.
type Client struct {
	cfg  config.IdPConfig
	http *http.Client
}

// New builds a provider client from configuration.
func New(cfg config.IdPConfig) (*Client, error) {
	if cfg.TokenURL == "" || cfg.IntrospectURL == "" {
		return nil, fmt.Errorf("idp token and introspect URLs are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Exchange swaps an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (*TokenSet, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}
	form := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	}
	if c.cfg.RedirectURI != "" {
		form.Set("redirect_uri", c.cfg.RedirectURI)
	}
	return c.tokenRequest(ctx, form)
}

// Refresh swaps a refresh token for a new token set.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refresh token is required")
	}
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return c.tokenRequest(ctx, form)
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*TokenSet, error) {
	body, status, err := c.post(ctx, c.cfg.TokenURL, form)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider unreachable")
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token exchange rejected")
	}
	if status != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("identity provider returned status %d", status))
	}

	var tokens TokenSet
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode token response")
	}
	if tokens.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "token response missing access token")
	}
	return &tokens, nil
}

// Introspect validates a bearer token against the provider. The local claim
// peek only short-circuits tokens that are already expired; the provider's
// answer is authoritative for everything else.
func (c *Client) Introspect(ctx context.Context, token string) (*Introspection, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	if claims := peekClaims(token); claims != nil && claims.expired(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")
	}

	form := url.Values{"token": {token}}
	body, status, err := c.post(ctx, c.cfg.IntrospectURL, form)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider unreachable")
	}
	if status != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("introspection returned status %d", status))
	}

	var result Introspection
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode introspection response")
	}
	if !result.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token inactive")
	}
	if result.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "introspection missing subject")
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
