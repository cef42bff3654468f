package biz

import (
	"context"

	"go.uber.org/zap"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/i18n"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// SubcategoryUseCase implements subcategory CRUD and localized listing
type SubcategoryUseCase struct {
	repo    SubcategoryRepo
	catRepo CategoryRepo
	ctRepo  ContentTypeRepo
	cache   ListingCache
	cfg     Config
	log     *logger.Logger
}

// NewSubcategoryUseCase creates a subcategory use case
func NewSubcategoryUseCase(repo SubcategoryRepo, catRepo CategoryRepo, ctRepo ContentTypeRepo, cache ListingCache, cfg Config, log *logger.Logger) *SubcategoryUseCase {
	return &SubcategoryUseCase{
		repo:    repo,
		catRepo: catRepo,
		ctRepo:  ctRepo,
		cache:   cache,
		cfg:     cfg,
		log:     log,
	}
}

// Create persists a subcategory under an existing parent category. The
// slug only has to be unique within the parent.
func (uc *SubcategoryUseCase) Create(ctx context.Context, categoryID uint64, translations []types.TranslationInput) (*types.Subcategory, error) {
	if len(translations) == 0 {
		return nil, errors.New(errors.ErrInvalidParams, "at least one translation is required")
	}

	if _, err := uc.catRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, errors.ErrCategoryNotFound) {
			return nil, errors.Newf(errors.ErrInvalidReference, "category %d does not exist", categoryID)
		}
		return nil, err
	}

	s := deriveSlug(translations, "subcategory")
	taken, err := uc.repo.ExistsBySlug(ctx, categoryID, s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}
	if taken {
		return nil, errors.Newf(errors.ErrSlugConflict, "slug %q already exists in category %d", s, categoryID)
	}

	sub := &types.Subcategory{
		CategoryID: categoryID,
		Slug:       s,
	}
	for _, t := range translations {
		sub.Translations = append(sub.Translations, types.Translation{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}

	if err := uc.repo.Create(ctx, sub); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	uc.cache.InvalidateSubcategories(ctx, categoryID, uc.cfg.Languages)

	uc.log.WithContext(ctx).Info("subcategory created",
		zap.Uint64("id", sub.ID),
		zap.Uint64("category_id", categoryID),
		zap.String("slug", sub.Slug),
	)
	return sub, nil
}

// Get returns a subcategory with all its translations
func (uc *SubcategoryUseCase) Get(ctx context.Context, id uint64) (*types.Subcategory, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListByCategory returns a category's subcategories resolved for one
// language, served from the cache when present.
func (uc *SubcategoryUseCase) ListByCategory(ctx context.Context, categoryID uint64, lang string) ([]types.SubcategoryView, error) {
	if lang == "" {
		lang = uc.cfg.FallbackLanguage
	}

	if views, ok := uc.cache.GetSubcategories(ctx, categoryID, lang); ok {
		return views, nil
	}

	if _, err := uc.catRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	subs, err := uc.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	views := make([]types.SubcategoryView, 0, len(subs))
	for _, sub := range subs {
		view := types.SubcategoryView{
			ID:         sub.ID,
			CategoryID: sub.CategoryID,
			Slug:       sub.Slug,
			Lang:       lang,
			Name:       sub.Slug,
		}
		if t, ok := i18n.Resolve(sub.Translations, lang, uc.cfg.FallbackLanguage); ok {
			view.Name = t.Name
			view.Description = t.Description
		}
		views = append(views, view)
	}

	uc.cache.SetSubcategories(ctx, categoryID, lang, views, uc.cfg.CacheTTL)
	return views, nil
}

// UpdateTranslations replaces the subcategory's translation set.
// Languages absent from the payload are removed.
func (uc *SubcategoryUseCase) UpdateTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) (*types.Subcategory, error) {
	if len(translations) == 0 {
		return nil, errors.New(errors.ErrInvalidParams, "at least one translation is required")
	}

	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceTranslations(ctx, id, translations); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	uc.cache.InvalidateSubcategories(ctx, sub.CategoryID, uc.cfg.Languages)

	return uc.repo.GetByID(ctx, id)
}

// Delete removes a subcategory. Deletion is blocked while dependent
// content types exist.
func (uc *SubcategoryUseCase) Delete(ctx context.Context, id uint64) error {
	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ctCount, err := uc.ctRepo.CountBySubcategory(ctx, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternalServer)
	}
	if ctCount > 0 {
		return errors.Newf(errors.ErrDependencyExists, "subcategory has %d content types", ctCount)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.cache.InvalidateSubcategories(ctx, sub.CategoryID, uc.cfg.Languages)

	uc.log.WithContext(ctx).Info("subcategory deleted", zap.Uint64("id", id))
	return nil
}
