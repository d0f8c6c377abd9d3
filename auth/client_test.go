package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestLoginWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "admin@shop.test", creds.Email)
		require.Equal(t, "hunter2", creds.Password)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LoginResponse{
			AccessToken:  "a1",
			RefreshToken: "r1",
			User:         &User{ID: "u1", Role: "admin"},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), Credentials{Email: "admin@shop.test", Password: "hunter2"})
	require.NoError(t, err)
	require.Equal(t, "a1", resp.AccessToken)
	require.Equal(t, "r1", resp.RefreshToken)
	require.NotNil(t, resp.User)
	require.True(t, resp.User.Admin())
}

func TestLoginValidatesInput(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), Credentials{Email: "admin@shop.test"})
	require.Error(t, err)
	_, err = client.Login(context.Background(), Credentials{Password: "hunter2"})
	require.Error(t, err)
}

func TestRefreshWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refresh-token", r.URL.Path)
		var req RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "r1", req.Token)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RefreshResponse{AccessToken: "a2"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Refresh(context.Background(), RefreshRequest{Token: "r1"})
	require.NoError(t, err)
	require.Equal(t, "a2", resp.AccessToken)
}

func TestHTTPFailureSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "nope"})
	var authErr Error
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, http.StatusUnauthorized, authErr.Status)
	require.Contains(t, authErr.Body, "invalid credentials")
}

func TestDecodeClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":     "u7",
		"role":    "support",
		"isAdmin": false,
	})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	claims, err := DecodeClaims(signed)
	require.NoError(t, err)
	require.Equal(t, "u7", claims.UserID)
	require.Equal(t, "support", claims.Role)

	user := claims.UserSummary()
	require.Equal(t, "u7", user.ID)
	require.False(t, user.Admin())
}

func TestDecodeClaimsRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "   ", "not-a-jwt", "a.b"} {
		_, err := DecodeClaims(tok)
		require.Error(t, err, "token %q", tok)
	}
}

func TestUserAdmin(t *testing.T) {
	require.True(t, User{Role: "admin"}.Admin())
	require.True(t, User{Role: "Admin"}.Admin())
	require.True(t, User{IsAdmin: true, Role: "support"}.Admin())
	require.False(t, User{Role: "support"}.Admin())
}
