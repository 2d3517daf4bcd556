package ad

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the authenticated CRUD endpoints on ads.
func (h *Handler) RegisterRoutes(ads *gin.RouterGroup) {
	ads.GET("", h.List)
	ads.GET("/:id", h.Get)
	ads.POST("", h.Create)
	ads.PUT("/:id", h.Update)
	ads.DELETE("/:id", h.Delete)
}

// RegisterRoutes mounts the public feed on integration.
func (h *IntegrationHandler) RegisterRoutes(integration *gin.RouterGroup) {
	integration.GET("/ads", h.ListVisible)
	integration.GET("/ads/category/:category", h.ListVisibleByCategory)
}
