package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

type stubStateStore struct {
	rec     *ports.PersistedSession
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (s *stubStateStore) Load(_ context.Context) (*ports.PersistedSession, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.rec == nil {
		return nil, nil
	}
	copy := *s.rec
	return &copy, nil
}

func (s *stubStateStore) Save(_ context.Context, rec *ports.PersistedSession) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	copy := *rec
	s.rec = &copy
	s.saves++
	return nil
}

func (s *stubStateStore) Clear(_ context.Context) error {
	s.rec = nil
	s.clears++
	return nil
}

func testActor() *domain.Actor {
	return &domain.Actor{
		ID:         "u1",
		Name:       "Alice",
		Email:      "alice@example.com",
		Role:       domain.RoleStaff,
		Department: &domain.Department{ID: "D1"},
		IsActive:   true,
	}
}

func TestSessionStore_LoginPersistsAndAuthenticates(t *testing.T) {
	state := &stubStateStore{}
	store := NewSessionStore(state, zerolog.Nop())

	if err := store.Login(context.Background(), testActor(), "access-1", "refresh-1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess := store.Current()
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if sess.Credentials.AccessToken != "access-1" || sess.Credentials.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected credentials: %+v", sess.Credentials)
	}
	if state.saves != 1 {
		t.Fatalf("expected 1 persistence write, got %d", state.saves)
	}
	if state.rec == nil || !state.rec.IsAuthenticated {
		t.Fatalf("persisted record should be authenticated: %+v", state.rec)
	}
}

func TestSessionStore_CurrentReturnsCopy(t *testing.T) {
	store := NewSessionStore(&stubStateStore{}, zerolog.Nop())
	if err := store.Login(context.Background(), testActor(), "a", "r"); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess := store.Current()
	sess.Actor.Name = "mutated"
	sess.Actor.Department.ID = "D9"

	again := store.Current()
	if again.Actor.Name != "Alice" || again.Actor.Department.ID != "D1" {
		t.Fatalf("store state mutated through snapshot: %+v", again.Actor)
	}
}

func TestSessionStore_LogoutClearsAndIsIdempotent(t *testing.T) {
	state := &stubStateStore{}
	store := NewSessionStore(state, zerolog.Nop())
	_ = store.Login(context.Background(), testActor(), "a", "r")

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Current().Authenticated() {
		t.Fatalf("session should be unauthenticated after logout")
	}
	if state.rec != nil {
		t.Fatalf("persisted record should be cleared")
	}

	// Second logout is a no-op that still succeeds.
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
	if state.clears != 2 {
		t.Fatalf("expected 2 clear calls, got %d", state.clears)
	}
}

func TestSessionStore_UpdateTokens(t *testing.T) {
	state := &stubStateStore{}
	store := NewSessionStore(state, zerolog.Nop())
	_ = store.Login(context.Background(), testActor(), "old-access", "old-refresh")

	if err := store.UpdateTokens(context.Background(), "new-access", ""); err != nil {
		t.Fatalf("update tokens: %v", err)
	}
	sess := store.Current()
	if sess.Credentials.AccessToken != "new-access" {
		t.Fatalf("access token not replaced: %+v", sess.Credentials)
	}
	if sess.Credentials.RefreshToken != "old-refresh" {
		t.Fatalf("refresh token should be untouched when empty: %+v", sess.Credentials)
	}

	if err := store.UpdateTokens(context.Background(), "newer-access", "new-refresh"); err != nil {
		t.Fatalf("update tokens: %v", err)
	}
	sess = store.Current()
	if sess.Credentials.AccessToken != "newer-access" || sess.Credentials.RefreshToken != "new-refresh" {
		t.Fatalf("both tokens should be replaced: %+v", sess.Credentials)
	}
}

func TestSessionStore_UpdateTokensWithoutSessionIsNoOp(t *testing.T) {
	state := &stubStateStore{}
	store := NewSessionStore(state, zerolog.Nop())

	if err := store.UpdateTokens(context.Background(), "access", "refresh"); err != nil {
		t.Fatalf("update tokens without session should not fail: %v", err)
	}
	if store.Current().Authenticated() {
		t.Fatalf("no session should have been created")
	}
	if state.saves != 0 {
		t.Fatalf("no persistence write expected, got %d", state.saves)
	}
}

func TestSessionStore_Rehydrate(t *testing.T) {
	state := &stubStateStore{rec: &ports.PersistedSession{
		Version:         1,
		User:            testActor(),
		AccessToken:     "persisted-access",
		RefreshToken:    "persisted-refresh",
		IsAuthenticated: true,
	}}
	store := NewSessionStore(state, zerolog.Nop())

	if err := store.Rehydrate(context.Background()); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	sess := store.Current()
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session after rehydrate")
	}
	if sess.Actor.ID != "u1" || sess.Credentials.AccessToken != "persisted-access" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestSessionStore_RehydrateFirstRun(t *testing.T) {
	store := NewSessionStore(&stubStateStore{}, zerolog.Nop())
	if err := store.Rehydrate(context.Background()); err != nil {
		t.Fatalf("rehydrate with no record: %v", err)
	}
	if store.Current().Authenticated() {
		t.Fatalf("expected unauthenticated session on first run")
	}
}

func TestSessionStore_RehydrateCorruptStateResolvesUnauthenticated(t *testing.T) {
	state := &stubStateStore{loadErr: errors.New("unexpected end of JSON input")}
	store := NewSessionStore(state, zerolog.Nop())

	if err := store.Rehydrate(context.Background()); err != nil {
		t.Fatalf("corrupt state must not surface an error, got %v", err)
	}
	if store.Current().Authenticated() {
		t.Fatalf("expected unauthenticated session")
	}
	if state.clears != 1 {
		t.Fatalf("corrupt record should be discarded, clears = %d", state.clears)
	}
}

func TestSessionStore_RehydrateEnforcesInvariant(t *testing.T) {
	// A record claiming authentication without an access token is demoted.
	state := &stubStateStore{rec: &ports.PersistedSession{
		Version:         1,
		User:            testActor(),
		AccessToken:     "",
		IsAuthenticated: true,
	}}
	store := NewSessionStore(state, zerolog.Nop())

	if err := store.Rehydrate(context.Background()); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if store.Current().Authenticated() {
		t.Fatalf("invariant violated: authenticated without access token")
	}
}
