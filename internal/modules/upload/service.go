// Package upload is the admin placement surface: it moves media bytes into
// the blob store and places the resulting reference, or a text box, onto a
// page in one operation.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/pkg/blob"
	"go.uber.org/zap"
)

// ErrInvalidPage reports a non-positive target page number. Validation runs
// before any blob or document write.
var ErrInvalidPage = errors.New("page number must be positive")

// ErrEmptyFile reports a zero-length upload.
var ErrEmptyFile = errors.New("uploaded file is empty")

// BlobStore is the transfer seam, satisfied by the S3-backed blob store.
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress blob.ProgressFunc) (string, error)
	Delete(ctx context.Context, key string) error
}

// ItemPlacer places items on pages once their content is resolved.
type ItemPlacer interface {
	CreateMedia(ctx context.Context, page int, downloadURL string) (*models.ItemModel, error)
	CreateText(ctx context.Context, page int, text string) (*models.ItemModel, error)
}

// Service coordinates the two-phase placement: blob transfer, then the
// catalog write. A failed transfer leaves no item behind.
type Service struct {
	blobs  BlobStore
	items  ItemPlacer
	logger *zap.Logger
}

func NewService(blobs BlobStore, items ItemPlacer, logger *zap.Logger) *Service {
	return &Service{blobs: blobs, items: items, logger: logger}
}

// PlaceMedia streams the file into the blob store under the page-scoped
// key and places an item referencing it. The returned item carries the
// public download URL as its content reference.
func (s *Service) PlaceMedia(ctx context.Context, page int, filename string, r io.Reader, size int64, contentType string) (*models.ItemModel, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if size <= 0 {
		return nil, ErrEmptyFile
	}

	key := blob.ObjectKey(page, filename)
	url, err := s.blobs.Upload(ctx, key, r, size, contentType, s.progressFor(key))
	if err != nil {
		return nil, fmt.Errorf("transfer %q: %w", key, err)
	}

	item, err := s.items.CreateMedia(ctx, page, url)
	if err != nil {
		// the blob is orphaned; reap it so retries do not accumulate copies
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), key); delErr != nil && s.logger != nil {
			s.logger.Warn("failed to reap orphaned blob", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return item, nil
}

// PlaceText places a text box without touching the blob store.
func (s *Service) PlaceText(ctx context.Context, page int, text string) (*models.ItemModel, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	return s.items.CreateText(ctx, page, text)
}

func (s *Service) progressFor(key string) blob.ProgressFunc {
	if s.logger == nil {
		return nil
	}
	return func(transferred, total int64) {
		s.logger.Debug("upload progress",
			zap.String("key", key),
			zap.Int64("transferred", transferred),
			zap.Int64("total", total),
		)
	}
}
