package monzo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const tokenPath = "/oauth2/token"

// AuthorizationClient drives the OAuth2 flows against the token endpoint.
// It holds no session state; every call is an independent request.
type AuthorizationClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	authURL      string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewAuthorizationClient creates a client for the given OAuth credentials.
func NewAuthorizationClient(clientID, clientSecret string, opts ...Option) *AuthorizationClient {
	o := newOptions(opts)
	return &AuthorizationClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      o.baseURL,
		authURL:      o.authURL,
		httpClient:   o.httpClient,
		logger:       o.logger,
	}
}

// BuildAuthorizeURL returns the page the user should be redirected to in
// order to grant access. Values are inserted verbatim.
func (a *AuthorizationClient) BuildAuthorizeURL(state, redirectURI string) string {
	var b strings.Builder
	b.WriteString(a.authURL)
	b.WriteString("?response_type=code&client_id=")
	b.WriteString(a.clientID)
	b.WriteString("&state=")
	b.WriteString(state)
	b.WriteString("&redirect_uri=")
	b.WriteString(redirectURI)
	return b.String()
}

// ExchangeAuthorizationCode trades the code from the authorization redirect
// for an access token. redirectURI must match the one used to obtain code.
func (a *AuthorizationClient) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*AccessToken, error) {
	return a.requestToken(ctx, "authorization_code", url.Values{
		"redirect_uri": {redirectURI},
		"code":         {code},
	})
}

// AuthenticateWithPassword obtains a token with the resource owner password grant.
func (a *AuthorizationClient) AuthenticateWithPassword(ctx context.Context, username, password string) (*AccessToken, error) {
	return a.requestToken(ctx, "password", url.Values{
		"username": {username},
		"password": {password},
	})
}

// RefreshAccessToken obtains a new token from a refresh token.
func (a *AuthorizationClient) RefreshAccessToken(ctx context.Context, refreshToken string) (*AccessToken, error) {
	return a.requestToken(ctx, "refresh_token", url.Values{
		"refresh_token": {refreshToken},
	})
}

// requestToken posts grant plus the client credentials to the token
// endpoint. It backs every grant type so their handling cannot drift.
func (a *AuthorizationClient) requestToken(ctx context.Context, grantType string, grant url.Values) (*AccessToken, error) {
	op := "token_" + grantType

	form := url.Values{}
	form.Set("grant_type", grantType)
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)
	for key, values := range grant {
		form[key] = values
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("monzo: %s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")

	status, body, err := roundTrip(a.httpClient, req, op)
	a.logger.DebugContext(ctx, "monzo token call", "op", op, "status", status)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, &AuthError{StatusCode: status, Body: body}
	}

	var token AccessToken
	if err := decodeBody(op, body, &token); err != nil {
		return nil, err
	}
	if token.Value == "" {
		return nil, &DecodeError{Op: op, Body: body, Err: errors.New("missing access_token")}
	}
	return &token, nil
}
