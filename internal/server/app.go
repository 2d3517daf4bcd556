package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"adterminal/internal/config"
	"adterminal/internal/database"
	"adterminal/internal/domain/ad"
	"adterminal/internal/domain/admin"
	"adterminal/internal/domain/upload"
	"adterminal/internal/logging"
	"adterminal/internal/middleware"
	"adterminal/internal/pkg/jwt"
)

const limiterCleanupInterval = 5 * time.Minute

// App is a fully started backend: storage reachable, schema migrated and the
// bootstrap admin present. Handlers are only built from an App.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	JWT    *jwt.Service
	Assets upload.Store
	Ads    *ad.Service
	Admins *admin.Service
	Router *gin.Engine

	limiters []*middleware.RateLimiter
}

// Bootstrap runs the startup sequence. Any failure is fatal to the caller;
// nothing is served from a partially initialised App.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Ping(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if !database.IsPostgres(cfg.DatabaseURL) && cfg.AppEnv != "dev" && cfg.AppEnv != "test" {
		logging.Warn().Str("app_env", cfg.AppEnv).Msg("running on SQLite outside development")
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&ad.Ad{}, &admin.AdminUser{}); err != nil {
			closeDB(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	assets, err := NewAssetStore(ctx, cfg)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("asset store: %w", err)
	}

	if cfg.UsesDefaultJWTSecret() {
		logging.Warn().Msg("JWT_SECRET not set, signing tokens with the built-in development secret")
	}
	jwtService := jwt.New(cfg.JWTSecret, jwt.TokenTTL)

	app := &App{
		Config: cfg,
		DB:     db,
		JWT:    jwtService,
		Assets: assets,
		Ads:    ad.NewService(ad.NewRepository(db), assets),
		Admins: admin.NewService(admin.NewAdminRepository(db), jwtService),
	}

	if _, err := app.Admins.EnsureBootstrapAdmin(ctx, cfg.AdminPassword, cfg.AdminPasswordDefault); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	app.Router = app.newRouter()
	return app, nil
}

// Close drains background asset deletions, then releases the database. Call
// it after http.Server.Shutdown has returned.
func (a *App) Close() {
	a.Ads.Close()
	for _, l := range a.limiters {
		l.Stop()
	}
	closeDB(a.DB)
}

func (a *App) newLimiter(perMinute int) *middleware.RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	l := middleware.NewRateLimiter(perMinute)
	l.StartCleanup(limiterCleanupInterval)
	a.limiters = append(a.limiters, l)
	return l
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
