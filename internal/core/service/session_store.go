package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// SessionStore holds the authenticated identity and credential pair for one
// client instance, backed by a StateStore for durability across restarts.
// It is explicitly constructed and injected wherever session state is
// needed; there is no package-level instance.
type SessionStore struct {
	mu      sync.RWMutex
	state   ports.StateStore
	log     zerolog.Logger
	session domain.Session
}

func NewSessionStore(state ports.StateStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{state: state, log: log}
}

// Current returns a snapshot of the session. The actor is cloned so callers
// cannot mutate stored state through the returned pointer.
func (s *SessionStore) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{
		Actor:       s.session.Actor.Clone(),
		Credentials: s.session.Credentials,
	}
}

// Login replaces the session with a freshly authenticated one and persists
// it.
func (s *SessionStore) Login(ctx context.Context, actor *domain.Actor, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.Session{
		Actor: actor.Clone(),
		Credentials: domain.CredentialPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}
	return s.persistLocked(ctx)
}

// Logout clears the actor and both credentials, in memory first and then in
// durable storage. Idempotent. It performs no network calls.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.Session{}
	if err := s.state.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
		return err
	}
	return nil
}

// UpdateTokens replaces the access token and, when refreshToken is
// non-empty, the refresh token. A no-op when no session exists.
func (s *SessionStore) UpdateTokens(ctx context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Authenticated() {
		return nil
	}
	s.session.Credentials.AccessToken = accessToken
	if refreshToken != "" {
		s.session.Credentials.RefreshToken = refreshToken
	}
	return s.persistLocked(ctx)
}

// Rehydrate reconstructs the session from durable storage. Corrupt or
// unreadable state is discarded and resolves to an unauthenticated session,
// never an error.
func (s *SessionStore) Rehydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.state.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable session state")
		if clearErr := s.state.Clear(ctx); clearErr != nil {
			s.log.Debug().Err(clearErr).Msg("failed to clear corrupt session state")
		}
		s.session = domain.Session{}
		return nil
	}
	if rec == nil {
		s.session = domain.Session{}
		return nil
	}

	// The stored is_authenticated flag is advisory; the invariant over actor
	// and access token decides.
	if rec.User == nil || rec.AccessToken == "" {
		s.session = domain.Session{}
		return nil
	}

	s.session = domain.Session{
		Actor: rec.User.Clone(),
		Credentials: domain.CredentialPair{
			AccessToken:  rec.AccessToken,
			RefreshToken: rec.RefreshToken,
		},
	}
	s.log.Debug().Str("user_id", rec.User.ID).Msg("session rehydrated")
	return nil
}

func (s *SessionStore) persistLocked(ctx context.Context) error {
	rec := &ports.PersistedSession{
		User:            s.session.Actor,
		AccessToken:     s.session.Credentials.AccessToken,
		RefreshToken:    s.session.Credentials.RefreshToken,
		IsAuthenticated: s.session.Authenticated(),
	}
	if err := s.state.Save(ctx, rec); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
		return err
	}
	return nil
}
