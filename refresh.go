package storekeep

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/storekeep/storekeep-go/auth"
	"github.com/storekeep/storekeep-go/credstore"
)

// sessionObserver lets the refresher report state transitions without the
// refresher owning session semantics.
type sessionObserver interface {
	refreshStarted()
	refreshEnded(ok bool)
}

// refresher performs the refresh-token exchange behind a single-flight
// guard: when several requests hit 401 at once, exactly one exchange goes
// over the wire and every caller shares its outcome.
type refresher struct {
	auth      *auth.Client
	store     credstore.Store
	logger    zerolog.Logger
	telemetry TelemetryHooks
	observer  sessionObserver
	group     singleflight.Group
}

// canRefresh reports whether a refresh token is available. A 401 without
// one is terminal for the caller; there is nothing to exchange.
func (r *refresher) canRefresh() bool {
	return loadCredential(r.store).RefreshToken != ""
}

// refresh exchanges the stored refresh token for a new access token and
// rewrites the store. On failure the whole credential set is cleared and
// ErrSessionExpired is returned to every waiting caller.
func (r *refresher) refresh(ctx context.Context) (string, error) {
	token, err, shared := r.group.Do("refresh", func() (any, error) {
		return r.exchange(ctx)
	})
	if shared {
		r.logger.Debug().Msg("refresh outcome shared with concurrent caller")
	}
	if r.telemetry.OnRefresh != nil {
		r.telemetry.OnRefresh(ctx, err)
	}
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (r *refresher) exchange(ctx context.Context) (any, error) {
	cred := loadCredential(r.store)
	if cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", ErrSessionExpired)
	}
	if r.observer != nil {
		r.observer.refreshStarted()
	}
	// Detached from the triggering request so one caller navigating away
	// does not cancel the exchange for everyone still waiting on it.
	resp, err := r.auth.Refresh(context.WithoutCancel(ctx), auth.RefreshRequest{Token: cred.RefreshToken})
	if err == nil && resp.AccessToken == "" {
		err = errors.New("refresh response missing access token")
	}
	if err != nil {
		r.logger.Warn().Err(err).Msg("refresh exchange failed, clearing session")
		clearCredential(r.store)
		if r.observer != nil {
			r.observer.refreshEnded(false)
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	saveAccessToken(r.store, resp.AccessToken)
	if r.observer != nil {
		r.observer.refreshEnded(true)
	}
	r.logger.Debug().Msg("access token refreshed")
	return resp.AccessToken, nil
}
