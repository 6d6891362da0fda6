package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionKeySession(t *testing.T) {
	s, err := Login(context.Background(), Options{Mode: ModeFunctionKey, FunctionKey: "k-123"})
	require.NoError(t, err)
	require.True(t, s.Active())

	req := httptest.NewRequest(http.MethodGet, "/api/Accounts", nil)
	require.NoError(t, s.Apply(req))
	assert.Equal(t, "k-123", req.Header.Get("x-functions-key"))
}

func TestFunctionKeyRequiresKey(t *testing.T) {
	_, err := Login(context.Background(), Options{Mode: ModeFunctionKey})
	require.Error(t, err)
}

func TestOAuthSessionAttachesBearer(t *testing.T) {
	tokens := 0
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer idp.Close()

	s, err := Login(context.Background(), Options{
		Mode:     ModeOAuth,
		ClientID: "client-1",
		TokenURL: idp.URL + "/token",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/Samples", nil)
	require.NoError(t, s.Apply(req))
	assert.Equal(t, "Bearer tok-abc", req.Header.Get("Authorization"))

	// токен переиспользуется, пока не истёк
	req2 := httptest.NewRequest(http.MethodGet, "/api/Samples", nil)
	require.NoError(t, s.Apply(req2))
	assert.Equal(t, 1, tokens)
}

func TestLogoutDropsSession(t *testing.T) {
	s, err := Login(context.Background(), Options{Mode: ModeNone})
	require.NoError(t, err)
	s.Logout()
	assert.False(t, s.Active())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.ErrorIs(t, s.Apply(req), ErrNoSession)
}

func TestUnknownMode(t *testing.T) {
	_, err := Login(context.Background(), Options{Mode: "saml"})
	require.Error(t, err)
}
