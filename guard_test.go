package storekeep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardAllow(t *testing.T) {
	client, store := newTestClient(t, "http://127.0.0.1:0")
	guard := &Guard{
		Session:        client.Session,
		AdminPrefixes:  []string{"/settings", "/campaigns"},
		PublicPrefixes: []string{"/login"},
	}

	t.Run("anonymous", func(t *testing.T) {
		require.NoError(t, guard.Allow("/login"))
		require.ErrorIs(t, guard.Allow("/orders"), ErrLoginRequired)
		require.ErrorIs(t, guard.Allow("/settings"), ErrLoginRequired)
	})

	t.Run("authenticated non-admin", func(t *testing.T) {
		seedSession(store, "a1", "r1")
		store.Set(keyIsAdmin, "false", 0)
		store.Set(keyUserRole, "support", 0)

		require.NoError(t, guard.Allow("/orders"))
		require.NoError(t, guard.Allow("/tickets/42"))
		require.ErrorIs(t, guard.Allow("/settings"), ErrAdminRequired)
		require.ErrorIs(t, guard.Allow("/campaigns/summer"), ErrAdminRequired)
	})

	t.Run("admin", func(t *testing.T) {
		seedSession(store, "a1", "r1")
		require.NoError(t, guard.Allow("/settings"))
		require.NoError(t, guard.Allow("/orders"))
	})
}
