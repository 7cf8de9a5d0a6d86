package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// ScopePasswordReset marks tokens that may only be used to reset a password.
	ScopePasswordReset = "password_reset"
	ResetTokenTTL      = 15 * time.Minute

	TokenTypeBearer = "bearer"

	ForgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."
	ResetPasswordMessage  = "Password has been reset successfully."
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthClaims are the claims of every token the devserver issues. Subject is the e-mail.
type AuthClaims struct {
	UserID int64  `json:"id,omitempty"`
	Scope  string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// AuthService registers and authenticates accounts.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*AuthClaims, error)
	CreateJWT(user *domain.User, ttl time.Duration, scope string) (string, error)
}

type authServiceImpl struct {
	users     domain.UserRepository
	validator *validation.Validator
	secret    []byte
	tokenTTL  time.Duration
}

// NewAuthService creates the auth service. A JWT secret is required.
func NewAuthService(users domain.UserRepository, cfg config.DevServerConfig) (AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("devserver.jwt_secret is not configured")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authServiceImpl{
		users:     users,
		validator: validation.NewValidator(),
		secret:    []byte(cfg.JWTSecret),
		tokenTTL:  ttl,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authServiceImpl) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)
	if errs := s.validator.ValidateEmail(email); len(errs) > 0 {
		return "", errs
	}
	if password == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("password")}
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", domain.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return "", domain.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewInternalError("failed to hash password", err)
	}
	user := &domain.User{Name: strings.TrimSpace(name), Email: email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	logger.Get().Info("User registered", zap.Int64("userID", user.ID), zap.String("email", email))
	return s.CreateJWT(user, s.tokenTTL, "")
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", domain.NewInternalError("failed to look up user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.NewUnauthorizedError("Incorrect email or password")
	}
	return s.CreateJWT(user, s.tokenTTL, "")
}

// ForgotPassword answers with the same message whether or not the account exists. The
// reset token is written to the log in place of an e-mail.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", domain.NewInternalError("failed to look up user", err)
	}
	if user != nil {
		token, err := s.CreateJWT(user, ResetTokenTTL, ScopePasswordReset)
		if err != nil {
			return "", domain.NewInternalError("failed to create reset token", err)
		}
		logger.Get().Info("Password reset requested",
			zap.String("email", user.Email),
			zap.String("resetToken", token))
	}
	return ForgotPasswordMessage, nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	claims, err := s.ValidateJWT(ctx, token)
	if err != nil || claims.Scope != ScopePasswordReset || claims.Subject == "" {
		return "", domain.NewUnauthorizedError("Invalid or expired password reset link.")
	}
	if newPassword == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("new_password")}
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return "", domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return "", domain.NewNotFoundError("User not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewInternalError("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return "", err
	}
	logger.Get().Info("Password reset", zap.Int64("userID", user.ID))
	return ResetPasswordMessage, nil
}

// CreateJWT signs an HS256 token for user. Access tokens have an empty scope.
func (s *authServiceImpl) CreateJWT(user *domain.User, ttl time.Duration, scope string) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if scope == "" {
		claims.UserID = user.ID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authServiceImpl) ValidateJWT(_ context.Context, tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Debug("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}
