package middleware

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tokobuku/internal/apperror"
)

// StatusOf maps err to the HTTP status and client message it is reported
// with. Errors without a status are internal errors.
func StatusOf(err error) (int, string) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Status, appErr.Message
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}
	return fiber.StatusInternalServerError, err.Error()
}

// ErrorHandler formats every error returned by a handler as
// {"message": ..., "stack": ...}. The stack is omitted in production.
func ErrorHandler(lg *zap.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := StatusOf(err)
		if status >= fiber.StatusInternalServerError {
			lg.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.OriginalURL()),
				zap.Error(err),
			)
		}

		body := fiber.Map{"message": message}
		if appErr, ok := apperror.As(err); ok && len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		if !production {
			body["stack"] = fmt.Sprintf("%+v", err)
		}
		return c.Status(status).JSON(body)
	}
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return apperror.NotFound(fmt.Sprintf("Not Found - %s", c.OriginalURL()))
}
