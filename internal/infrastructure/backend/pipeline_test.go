package backend

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/backendtest"
	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
	"github.com/inventorypro/client-go/internal/core/service"
)

type memStateStore struct {
	mu  sync.Mutex
	rec *ports.PersistedSession
}

func (m *memStateStore) Load(_ context.Context) (*ports.PersistedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, nil
}

func (m *memStateStore) Save(_ context.Context, rec *ports.PersistedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	return nil
}

func (m *memStateStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	expired  int
}

func (n *recordingNotifier) Notify(_, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) SessionExpired() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired++
}

func (n *recordingNotifier) snapshot() ([]string, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...), n.expired
}

type rig struct {
	backend  *backendtest.Server
	ts       *httptest.Server
	sessions *service.SessionStore
	notifier *recordingNotifier
	client   *Client
}

func newRig(t *testing.T) *rig {
	t.Helper()

	fake := backendtest.New()
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)

	notifier := &recordingNotifier{}
	sessions := service.NewSessionStore(&memStateStore{}, zerolog.Nop())
	client := NewClient(Options{BaseURL: ts.URL, HTTPClient: ts.Client()}, sessions, notifier, zerolog.Nop())

	return &rig{backend: fake, ts: ts, sessions: sessions, notifier: notifier, client: client}
}

func (r *rig) establishSession(t *testing.T, access, refresh string, actor domain.Actor) {
	t.Helper()
	if err := r.sessions.Login(context.Background(), &actor, access, refresh); err != nil {
		t.Fatalf("establish session: %v", err)
	}
}

func TestAuthenticatedCallSucceeds(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 40, 10)
	access, refresh := r.backend.IssueTokens(actor.Email)
	r.establishSession(t, access, refresh, actor)

	product, err := NewProductGateway(r.client).Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if product.Name != "Hex bolts" || product.Quantity != 40 {
		t.Errorf("unexpected product %+v", product)
	}
	if calls := r.backend.RefreshCalls(); calls != 0 {
		t.Errorf("refresh calls = %d, want 0", calls)
	}
}

func TestExpiredAccessTokenRefreshedOnce(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 40, 10)
	_, refresh := r.backend.IssueTokens(actor.Email)
	expired := r.backend.IssueExpiredAccess(actor.Email)
	r.establishSession(t, expired, refresh, actor)

	if _, err := NewProductGateway(r.client).Get(context.Background(), "p1"); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}

	if calls := r.backend.RefreshCalls(); calls != 1 {
		t.Errorf("refresh calls = %d, want 1", calls)
	}
	creds := r.sessions.Current().Credentials
	if creds.AccessToken == expired || creds.AccessToken == "" {
		t.Error("access token was not replaced after refresh")
	}
	if creds.RefreshToken != refresh {
		t.Error("refresh token must survive an access-token refresh")
	}
}

func TestRevokedRefreshTokenForcesLogout(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleStaff, "dept-1")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 40, 10)
	_, refresh := r.backend.IssueTokens(actor.Email)
	expired := r.backend.IssueExpiredAccess(actor.Email)
	r.establishSession(t, expired, refresh, actor)
	r.backend.RevokeRefresh(refresh)

	_, err := NewProductGateway(r.client).Get(context.Background(), "p1")
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	if r.sessions.Current().Authenticated() {
		t.Error("session must be cleared after an unrecoverable refresh failure")
	}
	_, expired401 := r.notifier.snapshot()
	if expired401 != 1 {
		t.Errorf("SessionExpired notifications = %d, want 1", expired401)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")
	access, refresh := r.backend.IssueTokens(actor.Email)
	r.establishSession(t, access, refresh, actor)

	_, err := NewProductGateway(r.client).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	messages, _ := r.notifier.snapshot()
	if len(messages) != 1 {
		t.Fatalf("notifications = %v, want exactly one", messages)
	}
}

func TestValidationErrorHandledInline(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 40, 10)
	access, refresh := r.backend.IssueTokens(actor.Email)
	r.establishSession(t, access, refresh, actor)

	_, err := NewInventoryGateway(r.client).SubmitAdjustment(context.Background(), domain.StockAdjustmentRequest{
		ProductID:       "p1",
		ChangeType:      "restock",
		QuantityChanged: 0,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if messages, _ := r.notifier.snapshot(); len(messages) != 0 {
		t.Errorf("inline-handled error must not notify, got %v", messages)
	}
}

func TestInvalidCredentialsPassThrough(t *testing.T) {
	r := newRig(t)
	r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")

	_, err := NewAuthGateway(r.client).Login(context.Background(), ports.LoginInput{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if calls := r.backend.RefreshCalls(); calls != 0 {
		t.Errorf("a 401 on an unauthenticated call must not trigger a refresh, got %d", calls)
	}
	if messages, _ := r.notifier.snapshot(); len(messages) != 0 {
		t.Errorf("invalid credentials are handled inline, got notifications %v", messages)
	}
}

func TestUnreachableBackend(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")
	access, refresh := r.backend.IssueTokens(actor.Email)
	r.establishSession(t, access, refresh, actor)
	r.ts.Close()

	_, err := NewProductGateway(r.client).List(context.Background())
	if !errors.Is(err, domain.ErrBackendUnreachable) {
		t.Fatalf("err = %v, want ErrBackendUnreachable", err)
	}
	messages, _ := r.notifier.snapshot()
	if len(messages) != 1 || messages[0] != "Cannot reach the server. Check that the backend is running." {
		t.Errorf("unexpected notifications %v", messages)
	}
	if !r.sessions.Current().Authenticated() {
		t.Error("a network failure must not touch the session")
	}
}

func TestConcurrentCallsShareOneRefresh(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleManager, "")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 40, 10)
	_, refresh := r.backend.IssueTokens(actor.Email)
	expired := r.backend.IssueExpiredAccess(actor.Email)
	r.establishSession(t, expired, refresh, actor)
	r.backend.SetRefreshDelay(100 * time.Millisecond)

	const callers = 5
	products := NewProductGateway(r.client)
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := products.Get(context.Background(), "p1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Get: %v", err)
		}
	}
	if calls := r.backend.RefreshCalls(); calls != 1 {
		t.Errorf("refresh calls = %d, want 1 (coalesced)", calls)
	}
}

func TestAdjustmentRoundTrip(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("ana@example.com", "s3cret", domain.RoleStaff, "dept-1")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 10, 5)
	access, refresh := r.backend.IssueTokens(actor.Email)
	r.establishSession(t, access, refresh, actor)

	res, err := NewInventoryGateway(r.client).SubmitAdjustment(context.Background(), domain.StockAdjustmentRequest{
		ProductID:       "p1",
		ChangeType:      domain.ChangeSale,
		QuantityChanged: 3,
	})
	if err != nil {
		t.Fatalf("SubmitAdjustment: %v", err)
	}
	if res.Delta.PreviousQuantity != 10 || res.Delta.NewQuantity != 7 || res.Delta.SignedChange != -3 {
		t.Errorf("unexpected delta %+v", res.Delta)
	}
	if p, _ := r.backend.Product("p1"); p.Quantity != 7 {
		t.Errorf("stored quantity = %d, want 7", p.Quantity)
	}
}

func TestForbiddenMapping(t *testing.T) {
	r := newRig(t)
	actor := r.backend.SeedUser("bo@example.com", "s3cret", domain.RoleStaff, "dept-2")
	r.backend.SeedProduct("p1", "Hex bolts", "dept-1", 10, 5)
	access, refresh := r.backend.IssueTokens(actor.Email)
	r.establishSession(t, access, refresh, actor)

	err := NewProductGateway(r.client).Delete(context.Background(), "p1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
