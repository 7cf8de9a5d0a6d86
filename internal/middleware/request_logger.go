package middleware

import (
	"study-buddy/internal/logger"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request, tagged with the client's X-Request-ID. Errors
// from the chain are rendered by the app's error handler first so the logged status is
// the one sent.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Get().Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("requestID", c.Get(RequestIDHeader)),
		)
		return nil
	}
}
