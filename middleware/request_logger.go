package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"fanout-runner/logging"
)

// RequestLogger writes one access log entry per request through logger.
// Server errors log at ERROR, client errors at WARN, everything else at INFO.
func RequestLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		fields := []logging.Field{
			logging.String("method", c.Method()),
			logging.String("path", c.Path()),
			logging.Int("status", status),
			logging.Duration("latency", time.Since(start)),
			logging.String("ip", c.IP()),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", err, fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}
