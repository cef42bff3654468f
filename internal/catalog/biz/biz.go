// Package biz holds the catalog business logic: the ingestion
// pipeline and the localized query paths over file assets.
package biz

import (
	"context"
	"io"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	taxtypes "github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

var ErrFileNotFound = errors.New(errors.ErrFileNotFound)

// Config carries the catalog behavior knobs
type Config struct {
	// FallbackLanguage is the second-choice language for localized
	// resolution
	FallbackLanguage string

	// DefaultPageSize applies when a query omits take
	DefaultPageSize int

	// MaxUploadFiles caps the number of files per ingestion call
	MaxUploadFiles int

	// MaxFileSize caps a single uploaded file, in bytes
	MaxFileSize int64
}

// FileRepo abstracts file asset persistence. CreateBatch must write
// all assets with their labels and tags in a single transaction.
type FileRepo interface {
	CreateBatch(ctx context.Context, assets []*types.FileAsset) error
	GetByID(ctx context.Context, id uint64) (*types.FileAsset, error)
	List(ctx context.Context, filter types.FileFilter) ([]*types.FileAsset, int64, error)
	ListByTag(ctx context.Context, filter types.TagFilter) ([]*types.FileAsset, int64, error)
	UpsertLabel(ctx context.Context, label *types.FileLabel) error
	Delete(ctx context.Context, id uint64) error
}

// ObjectStore abstracts the durable byte store. Keys are opaque and
// collision-resistant; the store never sees user-supplied filenames as
// keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
	PresignedURL(ctx context.Context, key, filename string) (string, error)
}

// TaxonomyReader is the catalog's narrow view of the taxonomy store.
// Translation lookups return an empty set for unknown ids; the
// ingestion pipeline tolerates that by omitting the tag.
type TaxonomyReader interface {
	ContentTypeExists(ctx context.Context, id uint64) (bool, error)
	CategoryTranslations(ctx context.Context, id uint64) ([]taxtypes.Translation, error)
	SubcategoryTranslations(ctx context.Context, id uint64) ([]taxtypes.Translation, error)
}
