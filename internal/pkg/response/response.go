package response

import (
	"adterminal/internal/logging"
	"adterminal/internal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Message writes {"message": ...} merged with any extra fields.
func Message(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// Fail maps err onto the error taxonomy and writes it. Upstream failures are
// logged with their cause and reported with a generic message.
func Fail(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindUpstream {
		_ = c.Error(err)
		logging.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg(appErr.Message)
		Error(c, appErr.HTTPStatus(), appErr.Code, "Internal server error")
		return
	}
	Error(c, appErr.HTTPStatus(), appErr.Code, appErr.Message)
}

// AbortFail is Fail for middleware.
func AbortFail(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
