package admin

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts login, the only unauthenticated auth endpoint.
func (h *AuthHandler) RegisterPublicRoutes(auth *gin.RouterGroup, limit ...gin.HandlerFunc) {
	auth.POST("/login", append(limit, h.Login)...)
}

// RegisterProtectedRoutes expects auth to already carry the JWT middleware.
func (h *AuthHandler) RegisterProtectedRoutes(auth *gin.RouterGroup) {
	auth.GET("/verify", h.Verify)
}

func (h *ManagementHandler) RegisterRoutes(admins *gin.RouterGroup) {
	admins.GET("", h.ListAdmins)
	admins.POST("", h.CreateAdmin)
	admins.PUT("/:id/password", h.ChangePassword)
	admins.DELETE("/:id", h.DeleteAdmin)
}
