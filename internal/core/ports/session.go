package ports

import (
	"context"

	"github.com/inventorypro/client-go/internal/core/domain"
)

// PersistedSession is the single durable record the client keeps between
// runs, stored under one namespaced key.
type PersistedSession struct {
	Version         int           `json:"version"`
	User            *domain.Actor `json:"user"`
	AccessToken     string        `json:"access_token"`
	RefreshToken    string        `json:"refresh_token"`
	IsAuthenticated bool          `json:"is_authenticated"`
}

// StateStore persists the session record. Implementations must tolerate a
// missing record (first run) and decode legacy record layouts by migrating
// them to the current shape at load time.
type StateStore interface {
	// Load returns the persisted record, or (nil, nil) when none exists.
	// A non-nil error means the stored data is unreadable or corrupt.
	Load(ctx context.Context) (*PersistedSession, error)
	Save(ctx context.Context, rec *PersistedSession) error
	Clear(ctx context.Context) error
}

// SessionStore is the single source of truth for who is logged in and with
// what credentials.
type SessionStore interface {
	// Current returns a snapshot of the session. The returned actor is a
	// copy; mutating it does not affect the store.
	Current() domain.Session

	// Login replaces the session with a freshly authenticated one.
	Login(ctx context.Context, actor *domain.Actor, accessToken, refreshToken string) error

	// Logout clears the actor and both credentials. Idempotent. It performs
	// no network calls; notifying the backend is the caller's concern.
	Logout(ctx context.Context) error

	// UpdateTokens replaces the access token and, when refreshToken is
	// non-empty, the refresh token. A no-op when no session exists.
	UpdateTokens(ctx context.Context, accessToken, refreshToken string) error

	// Rehydrate reconstructs the session from durable storage. Runs once at
	// startup. Corrupt or unreadable state resolves to an unauthenticated
	// session, never an error.
	Rehydrate(ctx context.Context) error
}
