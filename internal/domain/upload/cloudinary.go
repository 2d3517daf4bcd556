package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	DefaultCloudinaryFolder = "infoland-ads"
	cloudinaryTransform     = "c_limit,h_1200,w_1200/q_auto"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore uploads images to a Cloudinary folder and serves the
// secure URL Cloudinary returns.
type CloudinaryStore struct {
	api    cloudinaryAPI
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return newCloudinaryStore(&cld.Upload, folder), nil
}

func newCloudinaryStore(api cloudinaryAPI, folder string) *CloudinaryStore {
	if folder == "" {
		folder = DefaultCloudinaryFolder
	}
	return &CloudinaryStore{api: api, folder: folder}
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

func (s *CloudinaryStore) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	img, err := open(fileHeader)
	if err != nil {
		return "", err
	}
	defer img.Close()

	res, err := s.api.Upload(ctx, img.file, uploader.UploadParams{
		Folder:         s.folder,
		Transformation: cloudinaryTransform,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure_url")
	}
	return res.SecureURL, nil
}

// Delete destroys the asset behind a Cloudinary delivery URL. Anything else
// is left alone.
func (s *CloudinaryStore) Delete(ctx context.Context, url string) error {
	publicID, ok := CloudinaryPublicID(url)
	if !ok {
		return nil
	}
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if res != nil && res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Error.Message)
	}
	return nil
}

func IsCloudinaryURL(url string) bool {
	return strings.Contains(url, "cloudinary.com")
}

// CloudinaryPublicID extracts the public id from a delivery URL of the form
// https://res.cloudinary.com/<cloud>/image/upload/[v123/]<folder>/<name>.<ext>.
func CloudinaryPublicID(url string) (string, bool) {
	if url == "" || !IsCloudinaryURL(url) {
		return "", false
	}
	parts := strings.Split(url, "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx == -1 || idx == len(parts)-1 {
		return "", false
	}
	rest := parts[idx+1:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	id := strings.Join(rest, "/")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	if id == "" {
		return "", false
	}
	return id, true
}
