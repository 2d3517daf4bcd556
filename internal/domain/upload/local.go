package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	UploadsBaseDir = "./uploads"
	StaticURLBase  = "/uploads"
)

// LocalStore writes images to a directory served under /uploads.
type LocalStore struct {
	baseDir    string
	staticBase string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = UploadsBaseDir
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, staticBase: StaticURLBase}, nil
}

func (s *LocalStore) Name() string { return "local" }

// Dir is the directory files are written to.
func (s *LocalStore) Dir() string { return s.baseDir }

func (s *LocalStore) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	img, err := open(fileHeader)
	if err != nil {
		return "", err
	}
	defer img.Close()

	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), img.name, img.ext)
	absPath := filepath.Join(s.baseDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, img.file); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.staticBase + "/" + filename, nil
}

// Delete removes a file previously returned by Save. Other URLs are ignored.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.staticBase+"/") {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, s.staticBase+"/"))
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
