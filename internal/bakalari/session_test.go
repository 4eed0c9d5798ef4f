package bakalari

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// RoundTripFunc .
type RoundTripFunc func(req *http.Request) (*http.Response, error)

// RoundTrip .
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func loginOK(access, refresh string) *http.Response {
	w := httptest.NewRecorder()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    3600,
	})
	return w.Result()
}

func TestRenew_PasswordGrant(t *testing.T) {
	var gotForm url.Values
	httpClient := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "https://school.example/api/login" {
			return nil, fmt.Errorf("unexpected url: %s", req.URL.String())
		}
		if err := req.ParseForm(); err != nil {
			return nil, err
		}
		gotForm = req.PostForm
		return loginOK("access-1", "refresh-1"), nil
	})

	s := NewSession("https://school.example", "student", "secret", httpClient)
	token, err := s.EnsureToken(context.Background())
	if err != nil {
		t.Fatalf("EnsureToken failed: %v", err)
	}
	if token != "access-1" {
		t.Errorf("token = %q, want access-1", token)
	}
	if gotForm.Get("grant_type") != "password" {
		t.Errorf("grant_type = %q, want password", gotForm.Get("grant_type"))
	}
	if gotForm.Get("client_id") != "ANDR" {
		t.Errorf("client_id = %q, want ANDR", gotForm.Get("client_id"))
	}
	if gotForm.Get("username") != "student" || gotForm.Get("password") != "secret" {
		t.Errorf("credentials not sent: %v", gotForm)
	}
}

func TestRenew_RefreshGrantAndRotation(t *testing.T) {
	calls := 0
	var grants []string
	var sentRefresh []string
	httpClient := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		if err := req.ParseForm(); err != nil {
			return nil, err
		}
		grants = append(grants, req.PostForm.Get("grant_type"))
		sentRefresh = append(sentRefresh, req.PostForm.Get("refresh_token"))
		return loginOK(fmt.Sprintf("access-%d", calls), fmt.Sprintf("refresh-%d", calls)), nil
	})

	s := NewSession("https://school.example", "student", "secret", httpClient)
	if _, err := s.Renew(context.Background()); err != nil {
		t.Fatalf("first renew failed: %v", err)
	}
	if _, err := s.Renew(context.Background()); err != nil {
		t.Fatalf("second renew failed: %v", err)
	}

	if grants[0] != "password" {
		t.Errorf("first grant = %q, want password", grants[0])
	}
	if grants[1] != "refresh_token" {
		t.Errorf("second grant = %q, want refresh_token", grants[1])
	}
	// Single-use rotation: the second renewal must send the refresh
	// token issued by the first.
	if sentRefresh[1] != "refresh-1" {
		t.Errorf("refresh token sent = %q, want refresh-1", sentRefresh[1])
	}
	if s.AccessToken() != "access-2" {
		t.Errorf("access token = %q, want access-2", s.AccessToken())
	}
}

func TestRenew_BadCredentials(t *testing.T) {
	httpClient := newTestClient(func(req *http.Request) (*http.Response, error) {
		w := httptest.NewRecorder()
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Uživatel nenalezen",
		})
		return w.Result(), nil
	})

	s := NewSession("https://school.example", "student", "wrong", httpClient)
	_, err := s.EnsureToken(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
	if want := "login failed: Uživatel nenalezen"; authErr.Message != want {
		t.Errorf("message = %q, want %q", authErr.Message, want)
	}
}

func TestRenew_NoServerURL(t *testing.T) {
	s := NewSession("", "student", "secret", nil)
	_, err := s.EnsureToken(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
}

func TestRenew_NoCredentials(t *testing.T) {
	s := NewSession("https://school.example", "", "", nil)
	_, err := s.EnsureToken(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
}

func TestRenew_TransportFailure(t *testing.T) {
	httpClient := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})

	s := NewSession("https://school.example", "student", "secret", httpClient)
	_, err := s.EnsureToken(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
}

func TestEnsureToken_ReturnsHeldToken(t *testing.T) {
	calls := 0
	httpClient := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		return loginOK("access-1", "refresh-1"), nil
	})

	s := NewSession("https://school.example", "student", "secret", httpClient)
	for i := 0; i < 3; i++ {
		if _, err := s.EnsureToken(context.Background()); err != nil {
			t.Fatalf("EnsureToken failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("login calls = %d, want 1", calls)
	}
}
