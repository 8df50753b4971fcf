package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

const logoutNotifyTimeout = 5 * time.Second

// AuthService drives the session lifecycle: login through the gateway,
// local session establishment, and logout with a best-effort backend
// notification.
type AuthService struct {
	sessions ports.SessionStore
	gateway  ports.AuthGateway
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(sessions ports.SessionStore, gateway ports.AuthGateway, log zerolog.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		gateway:  gateway,
		validate: validator.New(),
		log:      log,
	}
}

// Login authenticates against the backend and establishes the session.
// Invalid credentials surface as domain.ErrInvalidCredentials for the login
// form to handle inline.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*domain.Actor, error) {
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}

	res, err := s.gateway.Login(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Login(ctx, res.Actor, res.AccessToken, res.RefreshToken); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", res.Actor.ID).Str("role", res.Actor.Role).Msg("logged in")
	return res.Actor, nil
}

// Logout clears the local session immediately. The backend is notified in
// the background so a slow or unreachable server never delays the clear.
func (s *AuthService) Logout(ctx context.Context) error {
	refreshToken := s.sessions.Current().Credentials.RefreshToken

	err := s.sessions.Logout(ctx)

	if refreshToken != "" {
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutNotifyTimeout)
			defer cancel()
			if notifyErr := s.gateway.Logout(notifyCtx, refreshToken); notifyErr != nil {
				s.log.Debug().Err(notifyErr).Msg("backend logout notification failed")
			}
		}()
	}

	return err
}
