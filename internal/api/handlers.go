/**
 * @description
 * HTTP handlers for the OAuth login helper. They walk a user through the
 * Monzo authorization code flow and hand back the resulting tokens.
 *
 * Key features:
 * - Login: issues a signed state and redirects to the Monzo consent page.
 * - Callback: verifies the state, exchanges the code, and confirms the token
 *   with a whoami call.
 * - Refresh: trades a refresh token for a new access token.
 */
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/transfa/monzo-bridge/pkg/monzo"
)

// Authorizer is the subset of monzo.AuthorizationClient the handlers use.
type Authorizer interface {
	BuildAuthorizeURL(state, redirectURI string) string
	ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*monzo.AccessToken, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*monzo.AccessToken, error)
}

// Identifier reports who an access token belongs to.
type Identifier interface {
	WhoAmI(ctx context.Context) (*monzo.WhoAmI, error)
}

// IdentifierFactory builds an Identifier for a freshly issued token.
type IdentifierFactory func(accessToken string) Identifier

// StateSigner issues and verifies OAuth state values. Issue returns the
// signed state and the nonce embedded in it.
type StateSigner interface {
	Issue() (string, string, error)
	Verify(state string) (string, error)
}

// nonceCookie ties a state to the browser that started the login.
const nonceCookie = "monzo_oauth_nonce"

// TokenResponse is returned by the callback and refresh endpoints.
type TokenResponse struct {
	UserID       string `json:"user_id"`
	ClientID     string `json:"client_id"`
	ExpiresIn    int64  `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// Handler serves the OAuth helper endpoints.
type Handler struct {
	auth        Authorizer
	identify    IdentifierFactory
	state       StateSigner
	redirectURI string
	logger      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(auth Authorizer, identify IdentifierFactory, state StateSigner, redirectURI string, logger *slog.Logger) *Handler {
	return &Handler{
		auth:        auth,
		identify:    identify,
		state:       state,
		redirectURI: redirectURI,
		logger:      logger,
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, nonce, err := h.state.Issue()
	if err != nil {
		h.logger.Error("failed to issue oauth state", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to start login", 0)
		return
	}
	h.setNonceCookie(w, nonce, 0)
	http.Redirect(w, r, h.auth.BuildAuthorizeURL(state, h.redirectURI), http.StatusFound)
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if upstream := q.Get("error"); upstream != "" {
		h.logger.Warn("authorization was not granted", "error", upstream)
		respondWithError(w, http.StatusBadRequest, upstream, 0)
		return
	}

	nonce, err := h.state.Verify(q.Get("state"))
	if err != nil {
		h.logger.Warn("rejected oauth callback", "error", err)
		respondWithError(w, http.StatusBadRequest, "invalid or expired state", 0)
		return
	}

	cookie, err := r.Cookie(nonceCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(nonce)) != 1 {
		h.logger.Warn("rejected oauth callback", "error", "state was not issued to this browser")
		respondWithError(w, http.StatusBadRequest, "invalid or expired state", 0)
		return
	}
	// Single use.
	h.setNonceCookie(w, "", -1)

	code := q.Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "missing authorization code", 0)
		return
	}

	token, err := h.auth.ExchangeAuthorizationCode(r.Context(), code, h.redirectURI)
	if err != nil {
		h.respondWithUpstreamError(w, "failed to exchange authorization code", err)
		return
	}

	h.respondWithToken(w, r, token)
}

func (h *Handler) setNonceCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     nonceCookie,
		Value:    value,
		Path:     "/oauth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.redirectURI, "https://"),
		// Lax so the cookie survives the top-level redirect back from Monzo.
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid form body", 0)
		return
	}
	refreshToken := r.PostForm.Get("refresh_token")
	if refreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "missing refresh_token", 0)
		return
	}

	token, err := h.auth.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		h.respondWithUpstreamError(w, "failed to refresh access token", err)
		return
	}

	h.respondWithToken(w, r, token)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, token *monzo.AccessToken) {
	who, err := h.identify(token.Value).WhoAmI(r.Context())
	if err != nil {
		h.respondWithUpstreamError(w, "failed to confirm access token", err)
		return
	}

	resp := TokenResponse{
		UserID:       who.UserID,
		ClientID:     who.ClientID,
		ExpiresIn:    token.ExpiresIn,
		AccessToken:  token.Value,
		RefreshToken: token.RefreshToken,
	}
	if resp.UserID == "" {
		resp.UserID = token.UserID
	}
	if resp.ClientID == "" {
		resp.ClientID = token.ClientID
	}

	h.logger.Info("issued monzo access token", "user_id", resp.UserID, "expires_in", resp.ExpiresIn)
	respondWithJSON(w, http.StatusOK, resp)
}

// respondWithUpstreamError maps a Monzo failure to 502, carrying the
// upstream status when there is one.
func (h *Handler) respondWithUpstreamError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)

	var authErr *monzo.AuthError
	var apiErr *monzo.APIError
	switch {
	case errors.As(err, &authErr):
		respondWithError(w, http.StatusBadGateway, msg, authErr.StatusCode)
	case errors.As(err, &apiErr):
		respondWithError(w, http.StatusBadGateway, msg, apiErr.StatusCode)
	default:
		respondWithError(w, http.StatusBadGateway, msg, 0)
	}
}

func respondWithError(w http.ResponseWriter, code int, msg string, upstreamStatus int) {
	respondWithJSON(w, code, errorResponse{Error: msg, UpstreamStatus: upstreamStatus})
}

// respondWithJSON is a helper function to write JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
