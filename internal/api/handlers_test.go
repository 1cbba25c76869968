package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/transfa/monzo-bridge/internal/oauthstate"
	"github.com/transfa/monzo-bridge/pkg/monzo"
)

const testRedirectURI = "http://localhost:8080/oauth/callback"

type stubAuthorizer struct {
	token        *monzo.AccessToken
	err          error
	gotCode      string
	gotRedirect  string
	gotRefresh   string
	exchangeHits int
}

func (s *stubAuthorizer) BuildAuthorizeURL(state, redirectURI string) string {
	return "https://auth.monzo.com/?response_type=code&client_id=cid&state=" + state + "&redirect_uri=" + redirectURI
}

func (s *stubAuthorizer) ExchangeAuthorizationCode(_ context.Context, code, redirectURI string) (*monzo.AccessToken, error) {
	s.exchangeHits++
	s.gotCode = code
	s.gotRedirect = redirectURI
	return s.token, s.err
}

func (s *stubAuthorizer) RefreshAccessToken(_ context.Context, refreshToken string) (*monzo.AccessToken, error) {
	s.gotRefresh = refreshToken
	return s.token, s.err
}

type stubIdentifier struct {
	who *monzo.WhoAmI
	err error
}

func (s stubIdentifier) WhoAmI(context.Context) (*monzo.WhoAmI, error) {
	return s.who, s.err
}

func newTestRouter(auth *stubAuthorizer, ident stubIdentifier, gotToken *string) (http.Handler, *oauthstate.Signer) {
	signer := oauthstate.NewSigner("test-secret", 10*time.Minute)
	factory := func(accessToken string) Identifier {
		if gotToken != nil {
			*gotToken = accessToken
		}
		return ident
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewHandler(auth, factory, signer, testRedirectURI, logger)), signer
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("response is not json: %v (%s)", err, rr.Body.String())
	}
}

// callbackRequest builds a callback request from a browser holding nonce.
func callbackRequest(query, nonce string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/oauth/callback?"+query, nil)
	if nonce != "" {
		req.AddCookie(&http.Cookie{Name: nonceCookie, Value: nonce})
	}
	return req
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(&stubAuthorizer{}, stubIdentifier{}, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestLoginRedirectsWithVerifiableState(t *testing.T) {
	router, signer := newTestRouter(&stubAuthorizer{}, stubIdentifier{}, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/oauth/login", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	location := rr.Header().Get("Location")
	if !strings.HasPrefix(location, "https://auth.monzo.com/?response_type=code") {
		t.Fatalf("unexpected redirect: %s", location)
	}
	if !strings.HasSuffix(location, "&redirect_uri="+testRedirectURI) {
		t.Fatalf("expected redirect uri in location, got %s", location)
	}

	u, err := url.Parse(location)
	if err != nil {
		t.Fatalf("invalid location: %v", err)
	}
	nonce, err := signer.Verify(u.Query().Get("state"))
	if err != nil {
		t.Fatalf("expected a verifiable state, got %v", err)
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == nonceCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a nonce cookie")
	}
	if cookie.Value != nonce {
		t.Fatalf("expected cookie to carry the state nonce %q, got %q", nonce, cookie.Value)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/oauth" {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
}

func TestCallbackSuccess(t *testing.T) {
	auth := &stubAuthorizer{token: &monzo.AccessToken{
		Value:        "access_1",
		RefreshToken: "refresh_1",
		ExpiresIn:    21600,
		UserID:       "user_from_token",
	}}
	var gotToken string
	router, signer := newTestRouter(auth, stubIdentifier{who: &monzo.WhoAmI{
		Authenticated: true,
		ClientID:      "oauthclient_1",
		UserID:        "user_1",
	}}, &gotToken)

	state, nonce, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, callbackRequest("code=code_1&state="+state, nonce))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if auth.gotCode != "code_1" || auth.gotRedirect != testRedirectURI {
		t.Fatalf("unexpected exchange arguments: code=%q redirect=%q", auth.gotCode, auth.gotRedirect)
	}
	if gotToken != "access_1" {
		t.Fatalf("expected whoami with new token, got %q", gotToken)
	}

	var resp TokenResponse
	decodeJSON(t, rr, &resp)
	want := TokenResponse{
		UserID:       "user_1",
		ClientID:     "oauthclient_1",
		ExpiresIn:    21600,
		AccessToken:  "access_1",
		RefreshToken: "refresh_1",
	}
	if resp != want {
		t.Fatalf("expected %+v, got %+v", want, resp)
	}

	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == nonceCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the nonce cookie to be cleared after use")
	}
}

func TestCallbackRejections(t *testing.T) {
	auth := &stubAuthorizer{token: &monzo.AccessToken{Value: "access_1"}}
	router, signer := newTestRouter(auth, stubIdentifier{who: &monzo.WhoAmI{}}, nil)

	valid, nonce, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	// A state obtained by someone else from their own login.
	foreign, foreignNonce, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tests := []struct {
		name      string
		query     string
		nonce     string
		wantError string
	}{
		{name: "upstream error", query: "error=access_denied&state=" + valid, nonce: nonce, wantError: "access_denied"},
		{name: "missing state", query: "code=code_1", nonce: nonce, wantError: "invalid or expired state"},
		{name: "bad state", query: "code=code_1&state=forged", nonce: nonce, wantError: "invalid or expired state"},
		{name: "missing cookie", query: "code=code_1&state=" + valid, wantError: "invalid or expired state"},
		{name: "state from another browser", query: "code=code_1&state=" + foreign, nonce: nonce, wantError: "invalid or expired state"},
		{name: "cookie from another login", query: "code=code_1&state=" + valid, nonce: foreignNonce, wantError: "invalid or expired state"},
		{name: "missing code", query: "state=" + valid, nonce: nonce, wantError: "missing authorization code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, callbackRequest(tt.query, tt.nonce))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			var resp errorResponse
			decodeJSON(t, rr, &resp)
			if resp.Error != tt.wantError {
				t.Fatalf("expected error %q, got %q", tt.wantError, resp.Error)
			}
		})
	}

	if auth.exchangeHits != 0 {
		t.Fatalf("expected no code exchange, got %d", auth.exchangeHits)
	}
}

func TestCallbackAuthErrorIsBadGateway(t *testing.T) {
	auth := &stubAuthorizer{err: &monzo.AuthError{StatusCode: http.StatusUnauthorized, Body: []byte("nope")}}
	router, signer := newTestRouter(auth, stubIdentifier{}, nil)

	state, nonce, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, callbackRequest("code=code_1&state="+state, nonce))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	var resp errorResponse
	decodeJSON(t, rr, &resp)
	if resp.UpstreamStatus != http.StatusUnauthorized {
		t.Fatalf("expected upstream status 401, got %d", resp.UpstreamStatus)
	}
}

func TestCallbackWhoAmIFailureIsBadGateway(t *testing.T) {
	auth := &stubAuthorizer{token: &monzo.AccessToken{Value: "access_1"}}
	router, signer := newTestRouter(auth, stubIdentifier{err: &monzo.APIError{StatusCode: http.StatusForbidden}}, nil)

	state, nonce, err := signer.Issue()
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, callbackRequest("code=code_1&state="+state, nonce))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	var resp errorResponse
	decodeJSON(t, rr, &resp)
	if resp.UpstreamStatus != http.StatusForbidden {
		t.Fatalf("expected upstream status 403, got %d", resp.UpstreamStatus)
	}
}

func TestRefresh(t *testing.T) {
	auth := &stubAuthorizer{token: &monzo.AccessToken{
		Value:        "access_2",
		RefreshToken: "refresh_2",
		ExpiresIn:    100,
		UserID:       "user_1",
		ClientID:     "oauthclient_1",
	}}
	router, _ := newTestRouter(auth, stubIdentifier{who: &monzo.WhoAmI{Authenticated: true}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/oauth/refresh", strings.NewReader("refresh_token=refresh_1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if auth.gotRefresh != "refresh_1" {
		t.Fatalf("expected refresh_1, got %q", auth.gotRefresh)
	}

	var resp TokenResponse
	decodeJSON(t, rr, &resp)
	// whoami returned no ids, so the token's own ids are used.
	if resp.UserID != "user_1" || resp.ClientID != "oauthclient_1" || resp.AccessToken != "access_2" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	router, _ := newTestRouter(&stubAuthorizer{}, stubIdentifier{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/oauth/refresh", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
