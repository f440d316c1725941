package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hairfit-server/internal/logging"
)

// RequestLogger writes one structured line per request.
func RequestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP,
			}
			if u := CurrentUser(c); u != nil {
				args = append(args, "user_id", u.ID)
			}
			switch {
			case v.Error != nil:
				logger.Error(ctx, "request failed", append(args, "error", v.Error)...)
			case v.Status >= 500:
				logger.Error(ctx, "request", args...)
			default:
				logger.Info(ctx, "request", args...)
			}
			return nil
		},
	})
}
