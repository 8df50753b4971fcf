// Package backendtest provides an in-process double of the inventory
// backend for integration tests of the request pipeline and gateways. It
// speaks the same wire protocol as the real service, mints and verifies the
// same token shapes, and applies stock movements with the same arithmetic,
// so tests exercise the full request/refresh/retry path over real HTTP.
package backendtest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/inventorypro/client-go/internal/core/domain"
)

const defaultAccessTTL = time.Hour

type seededUser struct {
	actor        domain.Actor
	passwordHash []byte
}

type movement struct {
	ProductID       string    `json:"productId"`
	ChangeType      string    `json:"changeType"`
	QuantityChanged int       `json:"quantityChanged"`
	SignedChange    int       `json:"signedChange"`
	Reason          string    `json:"reason,omitempty"`
	ReferenceNumber string    `json:"referenceNumber,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	departmentID    string
	category        string
}

// Server is the fake backend. Zero-value maps are initialised by New.
type Server struct {
	secret    string
	accessTTL time.Duration

	mu            sync.Mutex
	users         map[string]*seededUser // keyed by email
	refreshTokens map[string]string      // raw refresh token -> email
	products      map[string]*domain.Product
	movements     []movement
	refreshCalls  int
	refreshDelay  time.Duration
	nextID        int

	echo *echo.Echo
}

func New() *Server {
	s := &Server{
		secret:        "backendtest-secret",
		accessTTL:     defaultAccessTTL,
		users:         make(map[string]*seededUser),
		refreshTokens: make(map[string]string),
		products:      make(map[string]*domain.Product),
	}
	s.echo = s.router()
	return s
}

// Handler returns the HTTP handler, ready for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.echo }

// SetRefreshDelay makes /auth/refresh take at least d, widening the window
// in which concurrent callers observe an in-flight refresh.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// RefreshCalls reports how many times /auth/refresh was hit.
func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// SeedUser registers a user and returns its actor. deptID may be empty.
func (s *Server) SeedUser(email, password, role, deptID string) domain.Actor {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("backendtest: hash password: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	actor := domain.Actor{
		ID:       fmt.Sprintf("u%d", s.nextID),
		Name:     strings.SplitN(email, "@", 2)[0],
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if deptID != "" {
		actor.Department = &domain.Department{ID: deptID}
	}
	s.users[email] = &seededUser{actor: actor, passwordHash: hash}
	return actor
}

// SeedProduct registers a product. deptID may be empty for an unassigned
// product.
func (s *Server) SeedProduct(id, name, deptID string, quantity, reorderLevel int) domain.Product {
	p := domain.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         name,
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
		UpdatedAt:    time.Now().UTC(),
	}
	if deptID != "" {
		p.Department = &domain.Department{ID: deptID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := p
	s.products[id] = &stored
	return p
}

// Product returns a snapshot of a seeded product's current state.
func (s *Server) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, false
	}
	return *p, true
}

// IssueTokens mints a valid access/refresh pair for a seeded user.
func (s *Server) IssueTokens(email string) (access, refresh string) {
	access = s.mintAccess(email, time.Now().Add(s.accessTTL))
	refresh = randomHex(32)
	s.mu.Lock()
	s.refreshTokens[refresh] = email
	s.mu.Unlock()
	return access, refresh
}

// IssueExpiredAccess mints an access token that is already expired, for
// exercising the refresh-and-retry path.
func (s *Server) IssueExpiredAccess(email string) string {
	return s.mintAccess(email, time.Now().Add(-time.Minute))
}

// RevokeRefresh invalidates a refresh token so the next refresh attempt
// fails.
func (s *Server) RevokeRefresh(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refreshTokens, token)
}

func (s *Server) mintAccess(email string, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := tok.SignedString([]byte(s.secret))
	if err != nil {
		panic(fmt.Sprintf("backendtest: sign token: %v", err))
	}
	return signed
}

func (s *Server) userByEmail(email string) (*seededUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	return u, ok
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("backendtest: random: %v", err))
	}
	return hex.EncodeToString(buf)
}
