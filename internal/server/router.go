package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adterminal/internal/database"
	"adterminal/internal/domain/ad"
	"adterminal/internal/domain/admin"
	"adterminal/internal/domain/upload"
	"adterminal/internal/middleware"
	"adterminal/internal/pkg/response"
)

func (a *App) newRouter() *gin.Engine {
	cfg := a.Config

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	if !cfg.TrustProxy {
		// client IPs (rate limit keys, logs) come from the socket, not X-Forwarded-For
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.PrometheusMetrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/healthz", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if local, ok := a.Assets.(*upload.LocalStore); ok {
		r.Static(upload.StaticURLBase, local.Dir())
	}

	authHandler := admin.NewAuthHandler(a.Admins)
	managementHandler := admin.NewManagementHandler(a.Admins)
	adHandler := ad.NewHandler(a.Ads)
	integrationHandler := ad.NewIntegrationHandler(a.Ads, cfg.PublicBaseURL, cfg.TrustProxy)

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api.Group("/auth"),
			middleware.RateLimit("login", a.newLimiter(cfg.LoginRateLimit)))

		integration := api.Group("/integration",
			middleware.RateLimit("integration", a.newLimiter(cfg.IntegrationRateLimit)))
		integrationHandler.RegisterRoutes(integration)

		protected := api.Group("", middleware.JWTAuth(a.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected.Group("/auth"))
			adHandler.RegisterRoutes(protected.Group("/ads"))
			managementHandler.RegisterRoutes(protected.Group("/admins"))
		}
	}

	r.NoRoute(spaFallback(cfg.PublicDir))
	return r
}

func (a *App) health(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), a.DB); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// spaFallback serves files from the dashboard directory and index.html for
// any other GET, so client-side routes survive a reload. Unknown /api paths
// stay JSON 404s.
func spaFallback(publicDir string) gin.HandlerFunc {
	index := filepath.Join(publicDir, "index.html")

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
			return
		}

		file := filepath.Join(publicDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	}
}
