package server

import (
	"context"

	"adterminal/internal/config"
	"adterminal/internal/domain/upload"
	"adterminal/internal/logging"
)

// NewAssetStore picks Cloudinary when credentials are configured, then S3
// when a bucket is, and local disk otherwise.
func NewAssetStore(ctx context.Context, cfg *config.Config) (upload.Store, error) {
	switch {
	case cfg.Cloudinary.Enabled():
		logging.Info().Str("backend", "cloudinary").Str("folder", cfg.Cloudinary.Folder).Msg("asset store configured")
		return upload.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
	case cfg.S3.Enabled():
		logging.Info().Str("backend", "s3").Str("bucket", cfg.S3.Bucket).Msg("asset store configured")
		return upload.NewS3Store(ctx, upload.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		logging.Info().Str("backend", "local").Str("dir", cfg.UploadsDir).Msg("asset store configured")
		return upload.NewLocalStore(cfg.UploadsDir)
	}
}
