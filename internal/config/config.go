package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort                 = "3001"
	defaultJWTSecret            = "infoland-ads-secret-key-change-in-production"
	DefaultAdminPassword        = "admin123"
	defaultPublicDir            = "./public"
	defaultUploadsDir           = "./uploads"
	defaultCloudinaryFolder     = "infoland-ads"
	defaultIntegrationRateLimit = "120"
	defaultLoginRateLimit       = "10"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseURL string
	AutoMigrate bool

	JWTSecret string

	AdminPassword        string
	AdminPasswordDefault bool

	PublicBaseURL string
	PublicDir     string
	UploadsDir    string

	Cloudinary CloudinaryConfig
	S3         S3Config

	CORSAllowedOrigins []string

	// TrustProxy honours X-Forwarded-For / X-Forwarded-Proto from a fronting proxy.
	TrustProxy bool

	// requests per minute per client IP
	IntegrationRateLimit int
	LoginRateLimit       int

	LogLevel  string
	LogFormat string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type S3Config struct {
	Bucket          string
	Region          string
	Prefix          string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from the environment. A missing database URL is fatal.
func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", os.Getenv("SUPABASE_DB_URL")))
	cfg.AutoMigrate = parseBoolEnv("AUTO_MIGRATE", "true")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = DefaultAdminPassword
		cfg.AdminPasswordDefault = true
	}

	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")
	cfg.PublicDir = strings.TrimSpace(getEnv("PUBLIC_DIR", defaultPublicDir))
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))

	cfg.Cloudinary = CloudinaryConfig{
		CloudName: strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
		APIKey:    strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
		APISecret: strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
		Folder:    strings.TrimSpace(getEnv("CLOUDINARY_FOLDER", defaultCloudinaryFolder)),
	}

	cfg.S3 = S3Config{
		Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		Region:          strings.TrimSpace(getEnv("S3_REGION", os.Getenv("AWS_REGION"))),
		Prefix:          strings.Trim(strings.TrimSpace(getEnv("S3_PREFIX", "ads")), "/"),
		PublicBaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")), "/"),
		AccessKeyID:     strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),
	}

	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.TrustProxy = parseBoolEnv("TRUST_PROXY", "false")

	var err error
	cfg.IntegrationRateLimit, err = parseIntEnv("INTEGRATION_RATE_LIMIT", defaultIntegrationRateLimit)
	if err != nil {
		return nil, err
	}
	cfg.LoginRateLimit, err = parseIntEnv("LOGIN_RATE_LIMIT", defaultLoginRateLimit)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat(cfg.AppEnv)))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL (or SUPABASE_DB_URL) must be set")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT value %q", cfg.Port)
	}
	if cfg.IntegrationRateLimit < 0 || cfg.LoginRateLimit < 0 {
		return fmt.Errorf("rate limits must be >= 0")
	}
	if cfg.S3.Enabled() && cfg.S3.Region == "" {
		return fmt.Errorf("S3_REGION must be set when S3_BUCKET is set")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in production JWT_SECRET must be set and not default")
		}
		if cfg.AdminPasswordDefault || cfg.AdminPassword == DefaultAdminPassword {
			return fmt.Errorf("in production ADMIN_PASSWORD must be set and not default")
		}
	}
	return nil
}

// IsProdLike reports whether the environment is production or release.
func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

// UsesDefaultJWTSecret reports whether tokens are signed with the built-in secret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return isEmptyOrDefault(c.JWTSecret, defaultJWTSecret)
}

func defaultLogFormat(env string) string {
	if env == "dev" || env == "development" {
		return "console"
	}
	return "json"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
