package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"adterminal/internal/pkg/apperrors"
	"adterminal/internal/pkg/jwt"
	"adterminal/internal/pkg/response"
)

const (
	ContextAdminID  = "admin_id"
	ContextUsername = "username"
)

var (
	errMissingToken = apperrors.Unauthorized("MISSING_TOKEN", "Access token required")
	errInvalidToken = apperrors.Forbidden("INVALID_TOKEN", "Invalid or expired token")
)

// JWTAuth requires a valid admin bearer token and exposes its claims as
// admin_id and username on the context. A header without a token part is
// 401; a token that is present but unusable, including one sent under another
// scheme, is 403.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) < 2 {
			response.AbortFail(c, errMissingToken)
			return
		}
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.AbortFail(c, errInvalidToken)
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			response.AbortFail(c, errInvalidToken)
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// AdminID returns the authenticated admin id, or 0 outside JWTAuth.
func AdminID(c *gin.Context) int64 {
	return c.GetInt64(ContextAdminID)
}
