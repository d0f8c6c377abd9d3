package storekeep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storekeep/storekeep-go/credstore"
)

// The admin-scoped key wins over the legacy storefront key; legacy values
// only fill gaps, and each field resolves independently.
func TestLegacyKeyFallbackPrecedence(t *testing.T) {
	store := credstore.NewMemory()
	defer store.Close()

	t.Run("admin key wins when both present", func(t *testing.T) {
		store.Clear()
		store.Set(keyAccessToken, "admin-a", time.Hour)
		store.Set(legacyKeyAccessToken, "legacy-a", time.Hour)

		require.Equal(t, "admin-a", loadCredential(store).AccessToken)
	})

	t.Run("legacy key fills gap", func(t *testing.T) {
		store.Clear()
		store.Set(legacyKeyAccessToken, "legacy-a", time.Hour)
		store.Set(legacyKeyRefreshToken, "legacy-r", time.Hour)

		cred := loadCredential(store)
		require.Equal(t, "legacy-a", cred.AccessToken)
		require.Equal(t, "legacy-r", cred.RefreshToken)
	})

	t.Run("fields resolve independently", func(t *testing.T) {
		store.Clear()
		store.Set(keyAccessToken, "admin-a", time.Hour)
		store.Set(legacyKeyRefreshToken, "legacy-r", time.Hour)

		cred := loadCredential(store)
		require.Equal(t, "admin-a", cred.AccessToken)
		require.Equal(t, "legacy-r", cred.RefreshToken)
	})
}

func TestClearCredentialLeavesLegacyKeys(t *testing.T) {
	store := credstore.NewMemory()
	defer store.Close()
	seedSession(store, "a1", "r1")
	store.Set(legacyKeyAccessToken, "storefront-a", time.Hour)

	clearCredential(store)

	for _, key := range credentialKeys {
		_, ok := store.Get(key)
		require.False(t, ok)
	}
	got, ok := store.Get(legacyKeyAccessToken)
	require.True(t, ok, "the storefront session is not ours to clear")
	require.Equal(t, "storefront-a", got)
}

func TestSaveCredentialWritesWholeSetAtomically(t *testing.T) {
	store := credstore.NewMemory()
	defer store.Close()

	saveCredential(store, credential{
		AccessToken:  "a1",
		RefreshToken: "r1",
		UserID:       "u1",
		IsAdmin:      true,
		Role:         "admin",
	})

	cred := loadCredential(store)
	require.Equal(t, "a1", cred.AccessToken)
	require.Equal(t, "r1", cred.RefreshToken)
	require.Equal(t, "u1", cred.UserID)
	require.Equal(t, "admin", cred.Role)
	require.True(t, cred.IsAdmin)
}
