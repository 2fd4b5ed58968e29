// Package httpx holds the echo middleware and request helpers shared by
// every HTTP handler.
package httpx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-Id"
	ctxRequestID    = "request_id"
)

// RequestID ensures every request carries an X-Request-Id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, id)
			c.Set(ctxRequestID, id)
			return next(c)
		}
	}
}

func RequestIDFrom(c echo.Context) string {
	id, _ := c.Get(ctxRequestID).(string)
	return id
}

// RequestLogger logs one line per request. Errors are passed to echo's
// error handler first so the logged status is the one sent.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			fields := []zap.Field{
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			log.Info("request", fields...)
			return nil
		}
	}
}

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Bind decodes the request body into v, reporting malformed input as a
// ValidationError.
func Bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return &ValidationError{Field: "body", Message: "invalid json"}
	}
	return nil
}
