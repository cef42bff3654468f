// Package biz holds the taxonomy business logic: slug derivation,
// localized listing with caching, full-replace translation updates and
// dependency-checked deletes.
package biz

import (
	"context"
	"time"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

var (
	ErrCategoryNotFound    = errors.New(errors.ErrCategoryNotFound)
	ErrSubcategoryNotFound = errors.New(errors.ErrSubcategoryNotFound)
	ErrContentTypeNotFound = errors.New(errors.ErrContentTypeNotFound)
)

// CategoryRepo abstracts category persistence
type CategoryRepo interface {
	Create(ctx context.Context, category *types.Category) error
	GetByID(ctx context.Context, id uint64) (*types.Category, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]*types.Category, error)
	Translations(ctx context.Context, id uint64) ([]types.Translation, error)
	ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error
	Delete(ctx context.Context, id uint64) error
}

// SubcategoryRepo abstracts subcategory persistence
type SubcategoryRepo interface {
	Create(ctx context.Context, sub *types.Subcategory) error
	GetByID(ctx context.Context, id uint64) (*types.Subcategory, error)
	ExistsBySlug(ctx context.Context, categoryID uint64, slug string) (bool, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]*types.Subcategory, error)
	CountByCategory(ctx context.Context, categoryID uint64) (int64, error)
	Translations(ctx context.Context, id uint64) ([]types.Translation, error)
	ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error
	Delete(ctx context.Context, id uint64) error
}

// ContentTypeRepo abstracts content type persistence
type ContentTypeRepo interface {
	Create(ctx context.Context, ct *types.ContentType) error
	Exists(ctx context.Context, id uint64) (bool, error)
	GetByID(ctx context.Context, id uint64) (*types.ContentType, error)
	List(ctx context.Context) ([]*types.ContentType, error)
	CountByCategory(ctx context.Context, categoryID uint64) (int64, error)
	CountBySubcategory(ctx context.Context, subcategoryID uint64) (int64, error)
	Update(ctx context.Context, ct *types.ContentType) error
	ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error
	Delete(ctx context.Context, id uint64) error
}

// Config carries the localization and caching knobs shared by the
// taxonomy use cases.
type Config struct {
	// FallbackLanguage is the second-choice language for localized
	// resolution
	FallbackLanguage string

	// Languages are the listing languages the cache holds; mutations
	// invalidate exactly these
	Languages []string

	// CacheTTL bounds the staleness of cached listings
	CacheTTL time.Duration
}

// ListingCache stores rendered taxonomy listings per language with a
// TTL. A cache failure is never fatal to the read path.
type ListingCache interface {
	GetCategories(ctx context.Context, lang string) ([]types.CategoryView, bool)
	SetCategories(ctx context.Context, lang string, views []types.CategoryView, ttl time.Duration)
	GetSubcategories(ctx context.Context, categoryID uint64, lang string) ([]types.SubcategoryView, bool)
	SetSubcategories(ctx context.Context, categoryID uint64, lang string, views []types.SubcategoryView, ttl time.Duration)
	InvalidateCategories(ctx context.Context, langs []string)
	InvalidateSubcategories(ctx context.Context, categoryID uint64, langs []string)
}
