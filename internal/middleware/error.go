package middleware

import (
	"errors"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalErrorDetail = "Internal server error"

// ErrorHandler renders every error returned by a handler as {"detail": ...}.
// Validation failures carry the list of field errors as their detail.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, detail := translate(err)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		}
		var derr *domain.DomainError
		if errors.As(err, &derr) {
			fields = append(fields, zap.String("code", string(derr.Code)))
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Get().Error("Request failed", fields...)
		default:
			logger.Get().Info("Request rejected", fields...)
		}

		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return c.Status(status).JSON(dto.ErrorResponse{Detail: detail})
	}
}

// translate picks the response status and detail for err.
func translate(err error) (int, any) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest, []domain.FieldError(verrs)
	}

	var derr *domain.DomainError
	if errors.As(err, &derr) {
		return statusForCode(derr), derr.Message
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, ferr.Message
	}

	return fiber.StatusInternalServerError, internalErrorDetail
}

func statusForCode(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	// Duplicate registrations answer 400, like the hosted backend.
	case domain.CodeValidation, domain.CodeConflict:
		return fiber.StatusBadRequest
	case domain.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case domain.CodeForbidden:
		return fiber.StatusForbidden
	case domain.CodeLLMService:
		return fiber.StatusServiceUnavailable
	case domain.CodeBackend:
		if err.Status >= fiber.StatusBadRequest {
			return err.Status
		}
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
