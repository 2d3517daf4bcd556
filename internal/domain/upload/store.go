package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const MaxFileSize = 5 * 1024 * 1024 // 5 MB

// AllowedMimeTypes maps accepted image types to their canonical extension.
var AllowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps ad images and hands back a URL for them. Delete must tolerate
// URLs the store did not produce.
type Store interface {
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
	Name() string
}

// opened is an uploaded image that passed the size and type checks.
type opened struct {
	file     multipart.File
	mimeType string
	ext      string
	name     string
	size     int64
}

func (o *opened) Close() error {
	return o.file.Close()
}

// open validates the upload and rewinds it so callers can stream it whole.
func open(fileHeader *multipart.FileHeader) (*opened, error) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	mimeType := http.DetectContentType(buf[:n])
	mimeType = strings.Split(mimeType, ";")[0]

	ext, ok := AllowedMimeTypes[mimeType]
	if !ok {
		_ = file.Close()
		return nil, ErrInvalidMimeType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	return &opened{
		file:     file,
		mimeType: mimeType,
		ext:      ext,
		name:     sanitizeName(fileHeader.Filename),
		size:     fileHeader.Size,
	}, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "image"
	}
	return name
}
