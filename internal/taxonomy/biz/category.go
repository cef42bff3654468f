package biz

import (
	"context"

	"go.uber.org/zap"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/i18n"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// CategoryUseCase implements category CRUD and localized listing
type CategoryUseCase struct {
	repo    CategoryRepo
	subRepo SubcategoryRepo
	ctRepo  ContentTypeRepo
	cache   ListingCache
	cfg     Config
	log     *logger.Logger
}

// NewCategoryUseCase creates a category use case
func NewCategoryUseCase(repo CategoryRepo, subRepo SubcategoryRepo, ctRepo ContentTypeRepo, cache ListingCache, cfg Config, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{
		repo:    repo,
		subRepo: subRepo,
		ctRepo:  ctRepo,
		cache:   cache,
		cfg:     cfg,
		log:     log,
	}
}

// Create derives a slug from the translations and persists the
// category. A taken slug is a conflict, not an overwrite.
func (uc *CategoryUseCase) Create(ctx context.Context, translations []types.TranslationInput) (*types.Category, error) {
	if len(translations) == 0 {
		return nil, errors.New(errors.ErrInvalidParams, "at least one translation is required")
	}

	s := deriveSlug(translations, "category")
	taken, err := uc.repo.ExistsBySlug(ctx, s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}
	if taken {
		return nil, errors.Newf(errors.ErrSlugConflict, "slug %q already exists", s)
	}

	category := &types.Category{Slug: s}
	for _, t := range translations {
		category.Translations = append(category.Translations, types.Translation{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}

	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	uc.cache.InvalidateCategories(ctx, uc.cfg.Languages)

	uc.log.WithContext(ctx).Info("category created",
		zap.Uint64("id", category.ID),
		zap.String("slug", category.Slug),
	)
	return category, nil
}

// Get returns a category with all its translations
func (uc *CategoryUseCase) Get(ctx context.Context, id uint64) (*types.Category, error) {
	return uc.repo.GetByID(ctx, id)
}

// List returns all categories resolved for one language. Listings are
// served from the cache when present; a category without any
// translation falls back to its slug as the display name.
func (uc *CategoryUseCase) List(ctx context.Context, lang string) ([]types.CategoryView, error) {
	if lang == "" {
		lang = uc.cfg.FallbackLanguage
	}

	if views, ok := uc.cache.GetCategories(ctx, lang); ok {
		return views, nil
	}

	categories, err := uc.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	views := make([]types.CategoryView, 0, len(categories))
	for _, c := range categories {
		view := types.CategoryView{
			ID:   c.ID,
			Slug: c.Slug,
			Lang: lang,
			Name: c.Slug,
		}
		if t, ok := i18n.Resolve(c.Translations, lang, uc.cfg.FallbackLanguage); ok {
			view.Name = t.Name
			view.Description = t.Description
		}
		views = append(views, view)
	}

	uc.cache.SetCategories(ctx, lang, views, uc.cfg.CacheTTL)
	return views, nil
}

// UpdateTranslations replaces the category's translation set.
// Languages absent from the payload are removed.
func (uc *CategoryUseCase) UpdateTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) (*types.Category, error) {
	if len(translations) == 0 {
		return nil, errors.New(errors.ErrInvalidParams, "at least one translation is required")
	}

	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceTranslations(ctx, id, translations); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	uc.cache.InvalidateCategories(ctx, uc.cfg.Languages)

	return uc.repo.GetByID(ctx, id)
}

// Delete removes a category. Deletion is blocked while dependent
// subcategories or content types exist; cascade would lose data.
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint64) error {
	subCount, err := uc.subRepo.CountByCategory(ctx, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternalServer)
	}
	if subCount > 0 {
		return errors.Newf(errors.ErrDependencyExists, "category has %d subcategories", subCount)
	}

	ctCount, err := uc.ctRepo.CountByCategory(ctx, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternalServer)
	}
	if ctCount > 0 {
		return errors.Newf(errors.ErrDependencyExists, "category has %d content types", ctCount)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.cache.InvalidateCategories(ctx, uc.cfg.Languages)
	uc.cache.InvalidateSubcategories(ctx, id, uc.cfg.Languages)

	uc.log.WithContext(ctx).Info("category deleted", zap.Uint64("id", id))
	return nil
}
