package bakalari

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"bakamcp/internal/logging"
)

// clientID is the client identifier the Bakalari login endpoint
// expects; the mobile app id is accepted by every school instance.
const clientID = "ANDR"

// loginResponse is the /api/login success payload.
type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// loginErrorResponse is the /api/login 400 payload.
type loginErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Session owns the credentials and the access/refresh token pair for
// one Bakalari server. The token pair is the only mutable state; it is
// guarded by a mutex so concurrent renewals cannot race and invalidate
// each other's single-use refresh token.
type Session struct {
	baseURL  string
	username string
	password string

	httpClient *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewSession creates a session for the given server and credentials.
// No network call is made until a token is first needed.
func NewSession(baseURL, username, password string, httpClient *http.Client) *Session {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Session{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: httpClient,
	}
}

// BaseURL returns the server base URL the session was created with.
func (s *Session) BaseURL() string { return s.baseURL }

// AccessToken returns the currently held access token, or "" when the
// session has not authenticated yet.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Invalidate drops the access token so the next EnsureToken call
// performs a renewal. The refresh token is kept.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
}

// EnsureToken returns a valid access token, authenticating or renewing
// as needed. A held token is returned as-is; expiry is detected by the
// caller via 401 and handled through Renew.
func (s *Session) EnsureToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.accessToken != "" {
		token := s.accessToken
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()
	return s.Renew(ctx)
}

// Renew obtains a fresh token pair, using the refresh token when one
// is held and the username/password grant otherwise. Both tokens are
// replaced on success; the old refresh token is discarded (the server
// rotates refresh tokens on every use).
func (s *Session) Renew(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseURL == "" {
		return "", &AuthError{Message: "server URL is not configured"}
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	switch {
	case s.refreshToken != "":
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", s.refreshToken)
	case s.username != "" && s.password != "":
		form.Set("grant_type", "password")
		form.Set("username", s.username)
		form.Set("password", s.password)
	default:
		return "", &AuthError{Message: "no credentials available: neither refresh token nor username/password"}
	}

	loginURL := s.baseURL + "/api/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Message: "building login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Message: "connection to login endpoint failed", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var lr loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
			return "", &AuthError{Message: "decoding login response", Err: err}
		}
		s.accessToken = lr.AccessToken
		s.refreshToken = lr.RefreshToken
		logging.Auth("token renewed via %s grant", form.Get("grant_type"))
		return s.accessToken, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var le loginErrorResponse
		desc := "unknown error"
		if err := json.NewDecoder(resp.Body).Decode(&le); err == nil && le.ErrorDescription != "" {
			desc = le.ErrorDescription
		}
		// A rejected refresh token must not be reused.
		s.refreshToken = ""
		return "", &AuthError{Message: "login failed: " + desc}

	default:
		body, _ := io.ReadAll(resp.Body)
		return "", &AuthError{Message: "login failed: HTTP " + resp.Status + ": " + strings.TrimSpace(string(body))}
	}
}
