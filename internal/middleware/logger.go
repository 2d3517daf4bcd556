package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"adterminal/internal/logging"
	"adterminal/internal/pkg/response"
)

// RequestLogger logs every request once it finishes and turns panics into a
// 500 JSON error.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logging.Error().
					Err(err).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				}
				c.Abort()
			}
			logRequest(c, start)
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, start time.Time) {
	status := c.Writer.Status()

	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = logging.Error()
	case status >= http.StatusBadRequest:
		event = logging.Warn()
	default:
		event = logging.Info()
	}

	event = event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Str("request_id", c.GetString(ContextRequestID))

	if id := c.GetInt64(ContextAdminID); id != 0 {
		event = event.Int64("admin_id", id)
	}
	if len(c.Errors) > 0 {
		event = event.Str("errors", c.Errors.String())
	}
	event.Msg("request")
}
