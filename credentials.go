package storekeep

import (
	"strconv"
	"time"

	"github.com/storekeep/storekeep-go/credstore"
)

// Persisted credential keys. The admin_ prefix scopes them away from the
// storefront session, which uses the legacy unprefixed pair.
const (
	keyAccessToken  = "admin_token"
	keyRefreshToken = "admin_refreshToken"
	keyUserID       = "admin_userId"
	keyIsAdmin      = "admin_isAdmin"
	keyUserRole     = "admin_userRole"

	// Legacy storefront keys, read as a fallback source of truth only.
	// The admin-scoped key wins whenever both are present; each field
	// resolves independently so a stale legacy token never shadows a
	// fresh admin one.
	legacyKeyAccessToken  = "token"
	legacyKeyRefreshToken = "refreshToken"
)

// Credential TTLs mirror the cookie lifetimes of the admin dashboard:
// identity fields ride with the access token, the refresh token outlives
// them all.
const (
	accessTokenTTL  = 7 * 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	identityTTL     = accessTokenTTL
)

// credentialKeys lists every admin-scoped key, in the order they are
// cleared. Legacy keys belong to the storefront session and are left alone.
var credentialKeys = []string{
	keyAccessToken,
	keyRefreshToken,
	keyUserID,
	keyIsAdmin,
	keyUserRole,
}

// credential is the logical credential set derived from the store. Access
// and refresh tokens are written and cleared together; a refresh token may
// briefly outlive the access token mid-refresh, never the reverse.
type credential struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	IsAdmin      bool
	Role         string
}

func loadCredential(store credstore.Store) credential {
	var c credential
	c.AccessToken = getWithFallback(store, keyAccessToken, legacyKeyAccessToken)
	c.RefreshToken = getWithFallback(store, keyRefreshToken, legacyKeyRefreshToken)
	c.UserID, _ = store.Get(keyUserID)
	c.Role, _ = store.Get(keyUserRole)
	if raw, ok := store.Get(keyIsAdmin); ok {
		c.IsAdmin, _ = strconv.ParseBool(raw)
	}
	return c
}

func getWithFallback(store credstore.Store, key, legacyKey string) string {
	if v, ok := store.Get(key); ok {
		return v
	}
	v, _ := store.Get(legacyKey)
	return v
}

// saveCredential commits the whole set in one atomic write. Callers must
// have validated that both tokens are present first.
func saveCredential(store credstore.Store, c credential) {
	store.SetAll(map[string]credstore.Entry{
		keyAccessToken:  {Value: c.AccessToken, TTL: accessTokenTTL},
		keyRefreshToken: {Value: c.RefreshToken, TTL: refreshTokenTTL},
		keyUserID:       {Value: c.UserID, TTL: identityTTL},
		keyIsAdmin:      {Value: strconv.FormatBool(c.IsAdmin), TTL: identityTTL},
		keyUserRole:     {Value: c.Role, TTL: identityTTL},
	})
}

// saveAccessToken rewrites only the access token after a refresh exchange;
// the refresh token is not rotated by the admin API.
func saveAccessToken(store credstore.Store, token string) {
	store.Set(keyAccessToken, token, accessTokenTTL)
}

// clearCredential removes the admin-scoped set in one atomic operation.
func clearCredential(store credstore.Store) {
	store.RemoveAll(credentialKeys...)
}
