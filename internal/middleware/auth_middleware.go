package middleware

import (
	"context"
	"strings"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/tutor"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals

	credentialsMessage = "Could not validate credentials"
)

// TokenValidator validates bearer tokens. tutor.AuthService implements it.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*tutor.AuthClaims, error)
}

// Protected requires a valid access token and stores the caller's user id in the
// request locals. Password reset tokens are not access tokens.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c)
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c)
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c)
		}
		if claims.Scope != "" || claims.UserID == 0 {
			logger.Get().Debug("Rejected non-access token", zap.String("scope", claims.Scope))
			return unauthorized(c)
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Detail: credentialsMessage})
}

// UserID returns the id stored by Protected.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(UserIDKey).(int64)
	return id
}
