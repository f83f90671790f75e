// Package content is the only way to create, change or delete records that own
// stored images. Every path, including bulk deletes, ends in the asset
// lifecycle hooks, so no blob outlives the row that referenced it.
package content

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/app/repository"
	"github.com/fielmedina/backend/internal/pkg/assets"
)

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = fmt.Errorf("content: %w", gorm.ErrRecordNotFound)

// LinkShortener turns an ad link into a tracked short link.
type LinkShortener interface {
	Shorten(ctx context.Context, link string) (shortLink, shortID string, err error)
}

// Upload is one file of a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// Saved is a stored record plus what happened to each image slot.
type Saved[T any] struct {
	Record  *T                    `json:"record"`
	Images  []models.GalleryImage `json:"images,omitempty"`
	Results []assets.Result       `json:"results"`
	// Removed reports gallery images dropped by an update.
	Removed *assets.DeleteReport `json:"removed,omitempty"`
}

// DeleteResult reports a (bulk) delete.
type DeleteResult struct {
	Deleted int64               `json:"deleted"`
	Files   assets.DeleteReport `json:"files"`
}

// Service routes record mutations through the asset lifecycle.
type Service struct {
	repos     *repository.Repositories
	assets    *assets.Manager
	shortener LinkShortener
}

// Option configures a Service.
type Option func(*Service)

// WithLinkShortener enables short links for ads.
func WithLinkShortener(s LinkShortener) Option {
	return func(svc *Service) {
		svc.shortener = s
	}
}

// NewService creates the content service. The manager's deletions are guarded
// by a check against every table that stores keys.
func NewService(factory *repository.Factory, manager *assets.Manager, opts ...Option) *Service {
	repos := factory.GetRepositories()
	s := &Service{
		repos:  repos,
		assets: manager.WithLiveCheck(KeyInUse(repos.AssetKey)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyInUse adapts the asset key repository to the lifecycle manager.
func KeyInUse(repo repository.AssetKeyRepository) assets.LiveCheck {
	return func(_ context.Context, key string) (bool, error) {
		return repo.KeyInUse(key)
	}
}

// notFound maps a missing row to ErrNotFound. id is a numeric id or a slug.
func notFound(what string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %v: %w", what, id, err)
}
