package storekeep

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storekeep/storekeep-go/auth"
	"github.com/storekeep/storekeep-go/credstore"
	"github.com/storekeep/storekeep-go/locksignal"
)

// State is the session lifecycle state.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	// StateRefreshing is entered implicitly when a 401 cascade triggers a
	// token refresh, and resolves back to Authenticated or Anonymous.
	StateRefreshing State = "refreshing"
)

// Identity is the derived view consumers gate on. IsAuthenticated follows
// token presence; User is nil until a login response or hydration fills it.
type Identity struct {
	IsAuthenticated bool
	IsAdmin         bool
	Role            string
	User            *auth.User
}

// Session owns login/logout and the identity derived from the credential
// store. It is the single injection point for the whole consumer tree;
// construct it through NewClient rather than sharing an implicit global.
type Session struct {
	mu     sync.Mutex
	auth   *auth.Client
	store  credstore.Store
	logger zerolog.Logger
	state  State
	user   *auth.User

	// locked is advisory: the account-lock signal gates UI surfaces but
	// never touches credentials or IsAuthenticated.
	locked     bool
	lockCancel func()
	done       chan struct{}
}

func newSession(authClient *auth.Client, store credstore.Store, logger zerolog.Logger, locks *locksignal.Signal) *Session {
	s := &Session{
		auth:   authClient,
		store:  store,
		logger: logger,
		state:  StateAnonymous,
		done:   make(chan struct{}),
	}
	if loadCredential(store).AccessToken != "" {
		s.state = StateAuthenticated
	}
	ch, cancel := locks.Subscribe()
	s.lockCancel = cancel
	go s.watchLock(ch)
	return s
}

func (s *Session) watchLock(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
			s.mu.Lock()
			s.locked = true
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Close tears down the lock subscription. Needed for tests and for hosts
// that build more than one session per process.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockCancel != nil {
		s.lockCancel()
		s.lockCancel = nil
		close(s.done)
	}
}

// Login exchanges credentials for a token pair and commits the credential
// set atomically. A response missing either token is ErrMalformedLogin and
// commits nothing.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setState(StateAuthenticating)
	resp, err := s.auth.Login(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		s.settle()
		return err
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		s.settle()
		return ErrMalformedLogin
	}

	cred := credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		cred.UserID = resp.User.ID
		cred.Role = resp.User.Role
		cred.IsAdmin = resp.User.Admin()
	}
	saveCredential(s.store, cred)

	s.mu.Lock()
	s.user = resp.User
	s.locked = false
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.logger.Info().Bool("admin", cred.IsAdmin).Msg("login successful")
	return nil
}

// Logout clears the credential set unconditionally and returns to
// Anonymous. It has no failure mode and makes no network call.
func (s *Session) Logout(ctx context.Context) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked()
}

func (s *Session) logoutLocked() {
	clearCredential(s.store)
	s.user = nil
	s.locked = false
	s.state = StateAnonymous
	s.logger.Info().Msg("logged out")
}

// Identity derives the current identity from the credential store. It never
// mutates state, so it is safe to call from any consumer at any time.
func (s *Session) Identity() Identity {
	cred := loadCredential(s.store)
	id := Identity{
		IsAuthenticated: cred.AccessToken != "",
		IsAdmin:         cred.IsAdmin,
		Role:            cred.Role,
	}
	s.mu.Lock()
	id.User = s.user
	s.mu.Unlock()
	if id.User != nil {
		id.IsAdmin = id.IsAdmin || id.User.Admin()
		if id.Role == "" {
			id.Role = id.User.Role
		}
	}
	return id
}

// Hydrate reconstructs the user summary after a process restart: a stored
// token with no in-memory user is filled from the persisted identity
// fields, falling back to the token's own claims. If neither source yields
// an identity the session logs out rather than staying authenticated with
// no user. Calling it again is a no-op.
func (s *Session) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred := loadCredential(s.store)
	if cred.AccessToken == "" {
		return nil
	}
	if s.user != nil {
		return nil
	}
	if cred.UserID != "" {
		s.user = &auth.User{ID: cred.UserID, Role: cred.Role, IsAdmin: cred.IsAdmin}
		s.state = StateAuthenticated
		return nil
	}
	claims, err := auth.DecodeClaims(cred.AccessToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("hydration failed, logging out")
		s.logoutLocked()
		return fmt.Errorf("storekeep: hydration failed: %w", err)
	}
	user := claims.UserSummary()
	s.user = &user
	s.state = StateAuthenticated
	// Backfill the persisted fields so the next restart hydrates without
	// touching the token again.
	s.store.SetAll(map[string]credstore.Entry{
		keyUserID:   {Value: user.ID, TTL: identityTTL},
		keyUserRole: {Value: user.Role, TTL: identityTTL},
		keyIsAdmin:  {Value: fmt.Sprintf("%t", user.Admin()), TTL: identityTTL},
	})
	return nil
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Locked reports the advisory account-lock flag.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// AcknowledgeLock clears the advisory lock flag once the user has seen the
// notice. Credentials are untouched either way.
func (s *Session) AcknowledgeLock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// settle resolves a transitional state back to whatever the store implies.
func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loadCredential(s.store).AccessToken != "" {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
}

// refreshStarted implements sessionObserver.
func (s *Session) refreshStarted() {
	s.setState(StateRefreshing)
}

// refreshEnded implements sessionObserver.
func (s *Session) refreshEnded(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.state = StateAuthenticated
		return
	}
	s.user = nil
	s.state = StateAnonymous
}
