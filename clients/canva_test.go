package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/joy095/taxibooking/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDesignConfig = config.DesignConfig{
	ClientID:     "client-123",
	ClientSecret: "shh",
	RedirectURI:  "http://localhost:3000/auth/canva/callback",
}

func TestCanvaClient_AuthURL(t *testing.T) {
	c := NewCanvaClient(testDesignConfig)

	u, err := url.Parse(c.AuthURL("signed-state"))
	require.NoError(t, err)

	assert.Equal(t, "www.canva.com", u.Host)
	assert.Equal(t, "/oauth2/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, testDesignConfig.RedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "design:read asset:read", q.Get("scope"))
	assert.Equal(t, "signed-state", q.Get("state"))
}

func TestCanvaClient_ExchangePostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-123", r.PostForm.Get("client_id"))
		assert.Equal(t, "shh", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	c := NewCanvaClient(testDesignConfig, WithCanvaEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL))
	tok, err := c.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at-1", tok.AccessToken)
	assert.False(t, tok.Expiry.IsZero())
}

func TestCanvaClient_ExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewCanvaClient(testDesignConfig, WithCanvaEndpoints(srv.URL, srv.URL, srv.URL))
	_, err := c.Exchange(context.Background(), "bad")
	assert.Error(t, err)
}

func TestCanvaClient_FetchDesigns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/designs", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"D1"}]}`))
	}))
	defer srv.Close()

	c := NewCanvaClient(testDesignConfig, WithCanvaEndpoints(srv.URL, srv.URL, srv.URL+"/"))

	body, ct, err := c.FetchDesigns(context.Background(), "good")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"D1"}]}`, string(body))
	assert.Equal(t, "application/json", ct)

	_, _, err = c.FetchDesigns(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCanvaClient_FetchDesignsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewCanvaClient(testDesignConfig, WithCanvaEndpoints(srv.URL, srv.URL, srv.URL))
	_, _, err := c.FetchDesigns(context.Background(), "good")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "503")
}
