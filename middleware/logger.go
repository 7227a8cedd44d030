package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Fiber locals handlers fill in so the request log names the task touched
// and the action (complete, reschedule, dismiss, ignore) applied to it
const (
	TaskIDKey = "taskID"
	ActionKey = "taskAction"
)

// StructuredLogger logs one line per request tagged with a generated request id
func StructuredLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.New().String()

		c.Locals("requestID", requestID)
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		latency := time.Since(start)

		logAttrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.String("ip", c.IP()),
			slog.String("user_agent", c.Get("User-Agent")),
			slog.Int("bytes", len(c.Response().Body())),
		}

		if taskID, ok := c.Locals(TaskIDKey).(int64); ok {
			logAttrs = append(logAttrs, slog.Int64("task_id", taskID))
		}
		if action, ok := c.Locals(ActionKey).(string); ok && action != "" {
			logAttrs = append(logAttrs, slog.String("action", action))
		}

		if err != nil {
			logAttrs = append(logAttrs, slog.String("error", err.Error()))
			logger.LogAttrs(c.Context(), slog.LevelError, "request error", logAttrs...)
		} else if status >= 500 {
			logger.LogAttrs(c.Context(), slog.LevelError, "server error", logAttrs...)
		} else if status >= 400 {
			logger.LogAttrs(c.Context(), slog.LevelWarn, "client error", logAttrs...)
		} else {
			logger.LogAttrs(c.Context(), slog.LevelInfo, "request completed", logAttrs...)
		}

		return err
	}
}
