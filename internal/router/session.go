package router

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/archerctl/internal/logging"
)

// MaxRecoveries bounds how many automatic recoveries (re-login after expiry,
// forced login after a conflict) one top-level call may perform.
const MaxRecoveries = 2

// SessionSnapshot is a copy of the session flags at one point in time
type SessionSnapshot struct {
	// Authenticated is true while a stok/sysauth pair is held
	Authenticated bool

	// ForceLogin is true once a conflict has escalated logins to evict other users
	ForceLogin bool

	// Polite reports whether the client refuses to evict other users
	Polite bool
}

// sessionState is the mutable part of a session. Token and cookie are only ever
// set and cleared together.
type sessionState struct {
	cred          Credential
	authenticated bool
	forceLogin    bool
}

// establish records a freshly minted credential
func (s *sessionState) establish(cred Credential) {
	s.cred = cred
	s.authenticated = true
}

// reset returns the session to Unauthenticated
func (s *sessionState) reset() {
	s.cred = Credential{}
	s.authenticated = false
}

// authenticatedCall is a one-shot request made with the current credential
type authenticatedCall func(ctx context.Context, cred Credential) error

// session owns the router session and serializes every operation on it.
// The lock is held for a whole top-level call, retries included.
type session struct {
	mu     sync.Mutex
	secret string
	polite bool
	auth   *Authenticator
	state  sessionState
}

func newSession(secret string, polite bool, auth *Authenticator) *session {
	return &session{
		secret: secret,
		polite: polite,
		auth:   auth,
	}
}

// withAuthenticatedCall runs call with a valid credential, logging in first when
// needed and recovering once from a stale session or a session conflict.
func (s *session) withAuthenticatedCall(ctx context.Context, call authenticatedCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiryRecovered, conflictRecovered bool

	for recoveries := 0; ; recoveries++ {
		fresh, err := s.attempt(ctx, call)
		if err == nil {
			return nil
		}
		if recoveries >= MaxRecoveries {
			return err
		}

		switch KindOf(err) {
		case KindSessionExpired:
			// A session minted during this call that is already rejected will not
			// get better by logging in again.
			if fresh || expiryRecovered {
				return err
			}
			logging.Info("Authorization expired, re-authenticating")
			s.state.reset()
			expiryRecovered = true

		case KindSessionConflict:
			if s.polite || conflictRecovered {
				return err
			}
			logging.Warn("Another user is logged in, retrying with forced login",
				zap.Bool("had_session", s.state.authenticated))
			s.state.forceLogin = true
			// The retry must actually log in for the eviction to happen
			s.state.reset()
			conflictRecovered = true

		default:
			return err
		}
	}
}

// attempt performs one pass: authenticate if needed, then call. fresh is true when
// no pre-existing credential was involved, including when authentication failed.
func (s *session) attempt(ctx context.Context, call authenticatedCall) (fresh bool, err error) {
	if !s.state.authenticated {
		cred, err := s.auth.Authenticate(ctx, s.secret, s.state.forceLogin)
		if err != nil {
			return true, err
		}
		s.state.establish(cred)
		fresh = true
	}

	return fresh, call(ctx, s.state.cred)
}

// withCurrentSession runs fn under the session lock without any login or retry.
func (s *session) withCurrentSession(fn func(state *sessionState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// snapshot returns a copy of the session flags
func (s *session) snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		Authenticated: s.state.authenticated,
		ForceLogin:    s.state.forceLogin,
		Polite:        s.polite,
	}
}
