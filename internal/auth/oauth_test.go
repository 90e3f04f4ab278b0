package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider serves a token endpoint plus the given JSON routes. Routes
// require the Bearer token handed out by /token.
func fakeProvider(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	})
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testEndpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := fakeProvider(t, map[string]any{
		"/userinfo": map[string]any{
			"sub":            "1234",
			"email":          "Ada@Example.com",
			"email_verified": true,
			"name":           "Ada Lovelace",
			"picture":        "https://img/ada.png",
		},
	})
	p := NewGoogleProvider("id", "secret", "http://localhost/auth/google/callback")
	p.config.Endpoint = testEndpoint(srv)
	p.userInfoURL = srv.URL + "/userinfo"

	id, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada Lovelace", id.Name)
	assert.Equal(t, "1234", id.GoogleID)
	assert.Zero(t, id.GitHubID)

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleProvider_UnverifiedEmail(t *testing.T) {
	srv := fakeProvider(t, map[string]any{
		"/userinfo": map[string]any{"sub": "1", "email": "x@example.com", "email_verified": false},
	})
	p := NewGoogleProvider("id", "secret", "")
	p.config.Endpoint = testEndpoint(srv)
	p.userInfoURL = srv.URL + "/userinfo"

	_, err := p.Exchange(context.Background(), "good-code")
	assert.True(t, errors.Is(err, ErrNoEmail))
}

func TestGitHubProvider_Exchange(t *testing.T) {
	tests := []struct {
		name      string
		routes    map[string]any
		wantEmail string
		wantName  string
		wantErr   error
	}{
		{
			name: "public email",
			routes: map[string]any{
				"/user": map[string]any{"id": 7, "login": "ada", "name": "Ada", "email": "ada@example.com"},
			},
			wantEmail: "ada@example.com",
			wantName:  "Ada",
		},
		{
			name: "private email falls back to primary verified",
			routes: map[string]any{
				"/user": map[string]any{"id": 7, "login": "ada"},
				"/user/emails": []map[string]any{
					{"email": "old@example.com", "primary": false, "verified": true},
					{"email": "ada@example.com", "primary": true, "verified": true},
				},
			},
			wantEmail: "ada@example.com",
			wantName:  "ada",
		},
		{
			name: "no usable email",
			routes: map[string]any{
				"/user":        map[string]any{"id": 7, "login": "ada"},
				"/user/emails": []map[string]any{{"email": "ada@example.com", "primary": true, "verified": false}},
			},
			wantErr: ErrNoEmail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeProvider(t, tt.routes)
			p := NewGitHubProvider("id", "secret", "")
			p.config.Endpoint = testEndpoint(srv)
			p.apiBase = srv.URL

			id, err := p.Exchange(context.Background(), "good-code")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, id.Email)
			assert.Equal(t, tt.wantName, id.Name)
			assert.Equal(t, int64(7), id.GitHubID)
		})
	}
}

func TestAuthURL_CarriesState(t *testing.T) {
	for _, p := range []Provider{
		NewGoogleProvider("gid", "s", "http://localhost/auth/google/callback"),
		NewGitHubProvider("hid", "s", "http://localhost/auth/github/callback"),
	} {
		u, err := url.Parse(p.AuthURL("state-123"))
		require.NoError(t, err, p.Name())
		assert.Equal(t, "state-123", u.Query().Get("state"), p.Name())
		assert.NotEmpty(t, u.Query().Get("client_id"), p.Name())
	}
}
