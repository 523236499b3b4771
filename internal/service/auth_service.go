package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/config"
	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/repository"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// AuthService issues and validates sessions.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		logger:   logger,
	}
}

// Authenticate checks an email/secret pair and mints a session token.
// Unknown emails and wrong secrets fail identically.
func (s *AuthService) Authenticate(ctx context.Context, email, secret string) (*domain.User, string, domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", domain.Session{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", domain.Session{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, secret); err != nil {
		s.logger.Info("authentication rejected", zap.String("user_id", user.ID))
		return nil, "", domain.Session{}, apperrors.NewInvalidCredentials()
	}

	token, session, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", domain.Session{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("session issued",
		zap.String("user_id", user.ID),
		zap.String("token_id", session.TokenID),
		zap.Time("expires_at", session.ExpiresAt))
	return user, token, session, nil
}

// Validate checks signature and expiry. It never extends the session.
func (s *AuthService) Validate(token string) (domain.Session, error) {
	session, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return domain.Session{}, apperrors.NewUnauthorized("invalid or expired session")
	}
	return session, nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
