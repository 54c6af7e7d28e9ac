package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/joeyShea/travel-map/internal/db"
)

const maxImageBytes = 10 << 20 // 10 MiB

var ErrInvalidImage = errors.New("file is not a valid image")

// allowedImageTypes maps accepted content types to the stored extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var allowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// Service records uploaded images and derives their public URLs. The bytes
// themselves land in object storage fronted by baseURL.
type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	return &Service{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

// SaveImage validates the upload, records it under the given folder and
// returns the public URL.
func (s *Service) SaveImage(ctx context.Context, ownerID, folder string, header *multipart.FileHeader) (string, error) {
	if header == nil || header.Filename == "" {
		return "", ErrInvalidImage
	}
	if header.Size <= 0 || header.Size > maxImageBytes {
		return "", fmt.Errorf("%w: size out of range", ErrInvalidImage)
	}

	contentType := header.Header.Get("Content-Type")
	ext, typeOK := allowedImageTypes[contentType]
	if !typeOK {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}
	if fileExt := strings.ToLower(path.Ext(header.Filename)); !allowedImageExtensions[fileExt] {
		return "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidImage, fileExt)
	}

	if folder == "" {
		folder = "trips"
	}

	key := folder + "/" + uuid.NewString() + ext
	url := s.baseURL + "/" + key

	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, owner_user_id, object_key, url, content_type, size_bytes)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, uuid.NewString(), ownerID, key, url, contentType, header.Size)
	if err != nil {
		return "", err
	}
	return url, nil
}
