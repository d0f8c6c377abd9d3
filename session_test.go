package storekeep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/storekeep/storekeep-go/credstore"
	"github.com/storekeep/storekeep-go/routes"
)

func loginServer(t *testing.T, response map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, routes.Login, r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.NotEmpty(t, creds["email"])
		require.NotEmpty(t, creds["password"])
		writeJSON(w, http.StatusOK, response)
	}))
}

// After a successful login all five credential keys are persisted together
// and the identity is derived from the returned user.
func TestLoginPersistsFullCredentialSet(t *testing.T) {
	srv := loginServer(t, map[string]any{
		"accessToken":  "a1",
		"refreshToken": "r1",
		"user":         map[string]any{"id": "u1", "role": "admin"},
	})
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	require.NoError(t, client.Session.Login(context.Background(), "admin@shop.test", "hunter2"))

	for _, key := range credentialKeys {
		_, ok := store.Get(key)
		require.True(t, ok, "key %s must be persisted", key)
	}
	cred := loadCredential(store)
	require.Equal(t, "a1", cred.AccessToken)
	require.Equal(t, "r1", cred.RefreshToken)
	require.Equal(t, "u1", cred.UserID)
	require.True(t, cred.IsAdmin)

	id := client.Session.Identity()
	require.True(t, id.IsAuthenticated)
	require.True(t, id.IsAdmin)
	require.NotNil(t, id.User)
	require.Equal(t, "u1", id.User.ID)
	require.Equal(t, StateAuthenticated, client.Session.State())
}

// A login response missing either token is a hard failure with nothing
// persisted: no partial credential state is ever observable.
func TestLoginMissingTokenCommitsNothing(t *testing.T) {
	cases := map[string]map[string]any{
		"missing refresh token": {"accessToken": "a1"},
		"missing access token":  {"refreshToken": "r1"},
		"empty body":            {},
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			srv := loginServer(t, response)
			defer srv.Close()

			client, store := newTestClient(t, srv.URL)
			err := client.Session.Login(context.Background(), "admin@shop.test", "hunter2")
			require.ErrorIs(t, err, ErrMalformedLogin)

			for _, key := range credentialKeys {
				_, ok := store.Get(key)
				require.False(t, ok, "key %s must not be persisted", key)
			}
			require.False(t, client.Session.Identity().IsAuthenticated)
			require.Equal(t, StateAnonymous, client.Session.State())
		})
	}
}

func TestLoginWithoutUserDefersHydration(t *testing.T) {
	srv := loginServer(t, map[string]any{"accessToken": "a1", "refreshToken": "r1"})
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	require.NoError(t, client.Session.Login(context.Background(), "admin@shop.test", "hunter2"))

	id := client.Session.Identity()
	require.True(t, id.IsAuthenticated)
	require.Nil(t, id.User, "user stays nil until hydration")
}

func TestLogoutAlwaysSucceedsLocally(t *testing.T) {
	// No server at all: logout must not touch the network.
	client, store := newTestClient(t, "http://127.0.0.1:0")
	seedSession(store, "a1", "r1")
	require.True(t, client.Session.Identity().IsAuthenticated)

	client.Session.Logout(context.Background())

	for _, key := range credentialKeys {
		_, ok := store.Get(key)
		require.False(t, ok)
	}
	require.False(t, client.Session.Identity().IsAuthenticated)
	require.Equal(t, StateAnonymous, client.Session.State())
}

// Hydration rebuilds the user summary from the persisted identity fields
// and is idempotent: a second call yields the same user with no further
// side effects.
func TestHydrateFromPersistedFieldsIsIdempotent(t *testing.T) {
	client, store := newTestClient(t, "http://127.0.0.1:0")
	seedSession(store, "a1", "r1")

	require.NoError(t, client.Session.Hydrate())
	first := client.Session.Identity()
	require.NotNil(t, first.User)
	require.Equal(t, "u1", first.User.ID)
	require.True(t, first.IsAdmin)

	require.NoError(t, client.Session.Hydrate())
	second := client.Session.Identity()
	require.Equal(t, first.User, second.User)
}

// When identity fields were lost but the token itself is intact, hydration
// falls back to the token claims and backfills the persisted fields.
func TestHydrateFallsBackToTokenClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  "u42",
		"role": "admin",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	client, store := newTestClient(t, "http://127.0.0.1:0")
	store.Set(keyAccessToken, signed, time.Hour)
	store.Set(keyRefreshToken, "r1", time.Hour)

	require.NoError(t, client.Session.Hydrate())
	id := client.Session.Identity()
	require.NotNil(t, id.User)
	require.Equal(t, "u42", id.User.ID)
	require.True(t, id.IsAdmin)

	// Backfilled for the next restart.
	got, ok := store.Get(keyUserID)
	require.True(t, ok)
	require.Equal(t, "u42", got)
}

// A token that yields no identity leaves the session logged out rather
// than authenticated-but-userless.
func TestHydrateCorruptStateLogsOut(t *testing.T) {
	client, store := newTestClient(t, "http://127.0.0.1:0")
	store.Set(keyAccessToken, "not-a-jwt", time.Hour)
	store.Set(keyRefreshToken, "r1", time.Hour)

	err := client.Session.Hydrate()
	require.Error(t, err)
	require.False(t, client.Session.Identity().IsAuthenticated)
	for _, key := range credentialKeys {
		_, ok := store.Get(key)
		require.False(t, ok)
	}
}

func TestHydrateWithoutTokenIsNoop(t *testing.T) {
	client, _ := newTestClient(t, "http://127.0.0.1:0")
	require.NoError(t, client.Session.Hydrate())
	require.False(t, client.Session.Identity().IsAuthenticated)
	require.Nil(t, client.Session.Identity().User)
}

// A fresh client over an already-populated store starts Authenticated:
// the session survives process restarts.
func TestSessionResumesFromPersistedStore(t *testing.T) {
	store := credstore.NewMemory()
	t.Cleanup(store.Close)
	seedSession(store, "a1", "r1")

	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:0", Store: store})
	require.NoError(t, err)
	defer client.Close()

	require.Equal(t, StateAuthenticated, client.Session.State())
	require.True(t, client.Session.Identity().IsAuthenticated)
}

func TestLockSignalSetsAdvisoryFlagOnly(t *testing.T) {
	client, store := newTestClient(t, "http://127.0.0.1:0")
	seedSession(store, "a1", "r1")

	client.Locks.Notify()
	require.Eventually(t, client.Session.Locked, time.Second, 5*time.Millisecond)
	require.True(t, client.Session.Identity().IsAuthenticated, "lock never clears credentials")

	client.Session.AcknowledgeLock()
	require.False(t, client.Session.Locked())
}

func TestLoginClearsStaleLock(t *testing.T) {
	srv := loginServer(t, map[string]any{
		"accessToken":  "a1",
		"refreshToken": "r1",
		"user":         map[string]any{"id": "u1", "role": "admin"},
	})
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	client.Locks.Notify()
	require.Eventually(t, client.Session.Locked, time.Second, 5*time.Millisecond)

	require.NoError(t, client.Session.Login(context.Background(), "admin@shop.test", "hunter2"))
	require.False(t, client.Session.Locked(), "re-authentication exits the locked state")
}
