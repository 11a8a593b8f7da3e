package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCredentialsIssuer(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"grant_type":    r.PostForm.Get("grant_type"),
			"client_id":     r.PostForm.Get("client_id"),
			"client_secret": r.PostForm.Get("client_secret"),
			"audience":      r.PostForm.Get("audience"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "abc",
			"token_type":   "Bearer",
			"expires_in":   2,
		})
	}))
	defer srv.Close()

	issuer := NewClientCredentialsIssuer(IssuerConfig{
		TokenURL:     srv.URL,
		ClientID:     "engine",
		ClientSecret: "s3cret",
		Audience:     "https://snippets",
	}, srv.Client())

	before := time.Now()
	tok, err := issuer.IssueToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "abc", tok.AccessToken)
	assert.WithinDuration(t, before.Add(2*time.Second), tok.Expiry, time.Second)
	assert.Equal(t, map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     "engine",
		"client_secret": "s3cret",
		"audience":      "https://snippets",
	}, form)
}

func TestClientCredentialsIssuer_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"access_denied"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	issuer := NewClientCredentialsIssuer(IssuerConfig{TokenURL: srv.URL, ClientID: "x", ClientSecret: "y"}, nil)
	_, err := issuer.IssueToken(context.Background())
	assert.ErrorContains(t, err, "token request")
}
