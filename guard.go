package storekeep

import "strings"

// Guard answers allow/deny for navigation into protected surfaces. It is a
// pure consumer of Session.Identity and holds no state of its own.
type Guard struct {
	Session *Session

	// AdminPrefixes lists path prefixes that additionally require the
	// admin role, e.g. "/settings" or "/campaigns".
	AdminPrefixes []string

	// PublicPrefixes lists path prefixes reachable without a session,
	// e.g. "/login".
	PublicPrefixes []string
}

// Allow returns nil when the current identity may enter path, or
// ErrLoginRequired / ErrAdminRequired otherwise.
func (g *Guard) Allow(path string) error {
	if hasPrefix(path, g.PublicPrefixes) {
		return nil
	}
	id := g.Session.Identity()
	if !id.IsAuthenticated {
		return ErrLoginRequired
	}
	if hasPrefix(path, g.AdminPrefixes) && !id.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
