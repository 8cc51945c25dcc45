package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go-catalog-admin/internal/ws"
	"go-catalog-admin/pkg/storage"

	"github.com/google/uuid"
)

// Extensions accepted for product thumbnails. Everything else is rejected
// before any write attempt.
var allowedThumbnailExts = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

type AssetService interface {
	PutThumbnail(ctx context.Context, productID uuid.UUID, r io.Reader, contentType, filename string) (string, error)
	SignedThumbnailURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	DeleteThumbnail(ctx context.Context, path string) error
}

type assetService struct {
	store storage.ObjectStore
	wsHub *ws.Hub
}

func NewAssetService(store storage.ObjectStore, hub *ws.Hub) AssetService {
	return &assetService{store: store, wsHub: hub}
}

// ThumbnailPath derives the deterministic storage key for a product's image.
// Re-uploading always targets the same slot; only the path is durable state.
func ThumbnailPath(productID uuid.UUID, ext string) string {
	return fmt.Sprintf("products/%s.%s", productID, strings.ToLower(ext))
}

func (s *assetService) PutThumbnail(ctx context.Context, productID uuid.UUID, r io.Reader, contentType, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", invalid("file", "filename has no extension")
	}
	if _, ok := allowedThumbnailExts[ext]; !ok {
		return "", invalid("file", "extension ."+ext+" is not an accepted image type")
	}

	path := ThumbnailPath(productID, ext)

	// Overwrite-allowed write: an existing object at this path is replaced,
	// never duplicated.
	if err := s.store.Write(ctx, path, r, contentType); err != nil {
		return "", &StorageWriteError{Path: path, Err: err}
	}

	if s.wsHub != nil {
		go s.wsHub.PublishJSON(map[string]interface{}{
			"type":   "catalog_update",
			"action": "thumbnail_uploaded",
			"data":   map[string]interface{}{"product_id": productID, "path": path},
		})
	}
	return path, nil
}

// SignedThumbnailURL issues a time-limited read URL. Callers must treat it as
// opaque and never persist it; a fresh one is issued on every call.
func (s *assetService) SignedThumbnailURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return s.store.SignedURL(ctx, path, ttl)
}

// DeleteThumbnail removes the object at path, best-effort: the store is an
// external system, so this is not transactional with any row delete.
func (s *assetService) DeleteThumbnail(ctx context.Context, path string) error {
	return s.store.Delete(ctx, path)
}
