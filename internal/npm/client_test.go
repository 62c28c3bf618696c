package npm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/npm/npmtest"
)

func newTestClient(srv *npmtest.Server, opts ...Option) *Client {
	return New(srv.URL, npmtest.Email, npmtest.Password, opts...)
}

func TestNew_TrimTrailingSlash(t *testing.T) {
	client := New("http://npm.local:81/", "a", "b")

	assert.Equal(t, "http://npm.local:81", client.BaseURL())
	assert.False(t, client.ReadOnly())
	assert.Equal(t, TokenAbsent, client.TokenState())
}

func TestHealth(t *testing.T) {
	srv := npmtest.New(t)
	client := newTestClient(srv)

	h, err := client.Health(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "OK", h.Status)
	assert.Equal(t, "2.12.3", h.Version.String())

	req, _ := srv.LastRequest()
	assert.Equal(t, "Bearer token-1", req.Header.Get("Authorization"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestTokenReusedWithinValidity(t *testing.T) {
	srv := npmtest.New(t)
	client := newTestClient(srv)
	ctx := context.Background()

	_, err := client.ListProxyHosts(ctx)
	require.NoError(t, err)
	_, err = client.ListStreams(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, srv.TokenRequests())
	assert.Equal(t, 2, srv.APIRequests())
	assert.Equal(t, TokenValid, client.TokenState())
}

func TestTokenReacquiredAfterExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	srv := npmtest.New(t)
	srv.Now = clock
	srv.TokenTTL = time.Hour
	client := newTestClient(srv, WithClock(clock))
	ctx := context.Background()

	_, err := client.ListProxyHosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.TokenRequests())

	now = now.Add(59 * time.Minute)
	_, err = client.ListProxyHosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.TokenRequests())

	// now == expiry counts as expired
	now = now.Add(time.Minute)
	assert.Equal(t, TokenExpired, client.TokenState())
	_, err = client.ListProxyHosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.TokenRequests())
	assert.Equal(t, TokenValid, client.TokenState())

	req, _ := srv.LastRequest()
	assert.Equal(t, "Bearer token-2", req.Header.Get("Authorization"))
}

func TestUnparseableExpiryIsNotReused(t *testing.T) {
	srv := npmtest.New(t)
	srv.Expires = "next tuesday"
	client := newTestClient(srv)
	ctx := context.Background()

	_, err := client.ListUsers(ctx)
	require.NoError(t, err)
	_, err = client.ListUsers(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, srv.TokenRequests())
}

func TestClientsDoNotShareTokens(t *testing.T) {
	srv := npmtest.New(t)
	ctx := context.Background()

	_, err := newTestClient(srv).Health(ctx)
	require.NoError(t, err)
	_, err = newTestClient(srv).Health(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, srv.TokenRequests())
}

func TestAuthenticationFailure(t *testing.T) {
	srv := npmtest.New(t)
	client := New(srv.URL, npmtest.Email, "wrong")

	_, err := client.ListProxyHosts(context.Background())
	require.Error(t, err)

	assert.True(t, apperr.Is(err, apperr.KindAuth))
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.Equal(t, 0, srv.APIRequests())
	assert.Equal(t, TokenAbsent, client.TokenState())
}

func TestAuthenticationTransportFailure(t *testing.T) {
	srv := npmtest.New(t)
	url := srv.URL
	srv.Close()

	_, err := New(url, npmtest.Email, npmtest.Password).Health(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestEmptyTokenIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"","expires":"2099-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, npmtest.Email, npmtest.Password).ListStreams(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
	assert.Contains(t, err.Error(), "no token")
}

func TestNon2xxCarriesStatusAndBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"error":{"code":404,"message":"Not Found - 7"}}`},
		{"server error", http.StatusInternalServerError, "upstream exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := npmtest.New(t)
			srv.Respond(http.MethodGet, "/api/nginx/proxy-hosts/7", tt.status, tt.body)
			client := newTestClient(srv)

			_, err := client.GetProxyHost(context.Background(), 7)
			require.Error(t, err)

			var apiErr *apperr.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, apperr.KindRemoteAPI, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Contains(t, err.Error(), "getProxyHost")
			assert.Contains(t, err.Error(), tt.body)
		})
	}
}

func TestNoContentIsEmptySuccess(t *testing.T) {
	srv := npmtest.New(t)
	srv.Respond(http.MethodGet, "/api/nginx/dead-hosts/3", http.StatusNoContent, "")
	srv.Respond(http.MethodDelete, "/api/nginx/dead-hosts/3", http.StatusNoContent, "")
	client := newTestClient(srv)
	ctx := context.Background()

	host, err := client.GetDeadHost(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, DeadHost{}, *host)

	assert.NoError(t, client.DeleteDeadHost(ctx, 3))
}

func TestMalformedJSONIsRemoteError(t *testing.T) {
	srv := npmtest.New(t)
	srv.Respond(http.MethodGet, "/api/nginx/streams", http.StatusOK, "<html>")
	client := newTestClient(srv)

	_, err := client.ListStreams(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindRemoteAPI))
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestExpandQuery(t *testing.T) {
	srv := npmtest.New(t)
	client := newTestClient(srv)

	_, err := client.ListProxyHosts(context.Background(), "owner", " ", "certificate")
	require.NoError(t, err)

	req, _ := srv.LastRequest()
	assert.Equal(t, "owner,certificate", req.URL.Query().Get("expand"))

	assert.Nil(t, expandQuery(nil))
}

func TestFlagAcceptsIntegers(t *testing.T) {
	srv := npmtest.New(t)
	id := srv.Seed("proxy-hosts", map[string]any{
		"domain_names": []string{"legacy.example.com"},
		"forward_host": "10.0.0.1",
		"forward_port": 80,
		"ssl_forced":   1,
		"enabled":      0,
	})
	client := newTestClient(srv)

	host, err := client.GetProxyHost(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, bool(host.SSLForced))
	assert.False(t, bool(host.Enabled))
}
