package service

import (
	"context"
	"strings"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
)

// AuthService defines the sign-in flows of the client.
type AuthService interface {
	Register(ctx context.Context, name, email, password, confirmPassword string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) (string, error)
}

type authServiceImpl struct {
	backend   domain.AuthBackend
	session   *SessionStore
	validator *validation.Validator
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(backend domain.AuthBackend, session *SessionStore, validator *validation.Validator) AuthService {
	return &authServiceImpl{backend: backend, session: session, validator: validator}
}

// Register validates the form locally, creates the account and logs in with the
// returned token.
func (s *authServiceImpl) Register(ctx context.Context, name, email, password, confirmPassword string) error {
	if errs := s.validator.ValidateRegistration(name, email, password, confirmPassword); len(errs) > 0 {
		return errs
	}
	token, err := s.backend.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	if err != nil {
		logger.Get().Info("Registration rejected", zap.String("email", email), zap.Error(err))
		return err
	}
	return s.session.Login(ctx, token)
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) error {
	if errs := s.validator.ValidateLogin(email, password); len(errs) > 0 {
		return errs
	}
	token, err := s.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	logger.Get().Info("Logged in", zap.String("email", email))
	return s.session.Login(ctx, token)
}

func (s *authServiceImpl) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// ForgotPassword requests a reset link. The backend answers with the same message
// whether or not the account exists.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	if errs := s.validator.ValidateEmail(email); len(errs) > 0 {
		return "", errs
	}
	return s.backend.ForgotPassword(ctx, strings.TrimSpace(email))
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) (string, error) {
	if errs := s.validator.ValidatePasswordReset(resetToken, password, confirmPassword); len(errs) > 0 {
		return "", errs
	}
	return s.backend.ResetPassword(ctx, strings.TrimSpace(resetToken), password)
}
