package echoapi

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/bibleschool/core"
)

// requestLogger logs one line per request once the response is written.
func requestLogger(logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}

			req, res := ctx.Request(), ctx.Response()
			logger.Info(fmt.Sprintf("%s %s", req.Method, req.URL.Path), map[string]interface{}{
				"status":    res.Status,
				"bytes_out": res.Size,
				"latency":   time.Since(start).String(),
				"remote_ip": ctx.RealIP(),
			})
			return nil
		}
	}
}
