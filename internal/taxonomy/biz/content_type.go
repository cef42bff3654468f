package biz

import (
	"context"

	"go.uber.org/zap"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/i18n"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// CreateContentTypeInput is the write-side shape for content types
type CreateContentTypeInput struct {
	CategoryID    uint64                   `json:"category_id" binding:"required"`
	SubcategoryID *uint64                  `json:"subcategory_id"`
	ContentYear   int                      `json:"content_year"`
	Status        types.ContentTypeStatus  `json:"status"`
	Translations  []types.TranslationInput `json:"translations" binding:"required,dive"`
}

// UpdateContentTypeInput carries the mutable scalar fields
type UpdateContentTypeInput struct {
	ContentYear *int                     `json:"content_year"`
	Status      *types.ContentTypeStatus `json:"status"`
}

// ContentTypeUseCase implements content type CRUD and localized listing
type ContentTypeUseCase struct {
	repo    ContentTypeRepo
	catRepo CategoryRepo
	subRepo SubcategoryRepo
	cfg     Config
	log     *logger.Logger
}

// NewContentTypeUseCase creates a content type use case
func NewContentTypeUseCase(repo ContentTypeRepo, catRepo CategoryRepo, subRepo SubcategoryRepo, cfg Config, log *logger.Logger) *ContentTypeUseCase {
	return &ContentTypeUseCase{
		repo:    repo,
		catRepo: catRepo,
		subRepo: subRepo,
		cfg:     cfg,
		log:     log,
	}
}

// Create persists a content type after checking its taxonomy
// references: the category must exist, and the subcategory, when set,
// must belong to that category.
func (uc *ContentTypeUseCase) Create(ctx context.Context, input CreateContentTypeInput) (*types.ContentType, error) {
	if len(input.Translations) == 0 {
		return nil, errors.New(errors.ErrInvalidParams, "at least one translation is required")
	}

	if _, err := uc.catRepo.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, errors.ErrCategoryNotFound) {
			return nil, errors.Newf(errors.ErrInvalidReference, "category %d does not exist", input.CategoryID)
		}
		return nil, err
	}

	if input.SubcategoryID != nil {
		sub, err := uc.subRepo.GetByID(ctx, *input.SubcategoryID)
		if err != nil {
			if errors.Is(err, errors.ErrSubcategoryNotFound) {
				return nil, errors.Newf(errors.ErrInvalidReference, "subcategory %d does not exist", *input.SubcategoryID)
			}
			return nil, err
		}
		if sub.CategoryID != input.CategoryID {
			return nil, errors.Newf(errors.ErrSubcategoryMismatch,
				"subcategory %d belongs to category %d, not %d", sub.ID, sub.CategoryID, input.CategoryID)
		}
	}

	status := input.Status
	if status == "" {
		status = types.StatusDraft
	}
	if !status.Valid() {
		return nil, errors.Newf(errors.ErrInvalidParams, "unknown status %q", status)
	}

	ct := &types.ContentType{
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		ContentYear:   input.ContentYear,
		Status:        status,
	}
	for _, t := range input.Translations {
		ct.Translations = append(ct.Translations, types.Translation{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}

	if err := uc.repo.Create(ctx, ct); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	uc.log.WithContext(ctx).Info("content type created",
		zap.Uint64("id", ct.ID),
		zap.Uint64("category_id", ct.CategoryID),
	)
	return ct, nil
}

// Get returns a content type with all its translations
func (uc *ContentTypeUseCase) Get(ctx context.Context, id uint64) (*types.ContentType, error) {
	return uc.repo.GetByID(ctx, id)
}

// List returns content types resolved for one language. Rows without
// any translation are skipped rather than surfaced with empty names.
func (uc *ContentTypeUseCase) List(ctx context.Context, lang string) ([]types.ContentTypeView, error) {
	if lang == "" {
		lang = uc.cfg.FallbackLanguage
	}

	cts, err := uc.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	views := make([]types.ContentTypeView, 0, len(cts))
	for _, ct := range cts {
		t, ok := i18n.Resolve(ct.Translations, lang, uc.cfg.FallbackLanguage)
		if !ok {
			continue
		}
		views = append(views, types.ContentTypeView{
			ID:              ct.ID,
			CategoryID:      ct.CategoryID,
			SubcategoryID:   ct.SubcategoryID,
			CategorySlug:    ct.CategorySlug,
			SubcategorySlug: ct.SubcategorySlug,
			ContentYear:     ct.ContentYear,
			Status:          ct.Status,
			Lang:            lang,
			Name:            t.Name,
			Description:     t.Description,
			CreatedAt:       ct.CreatedAt,
		})
	}
	return views, nil
}

// Update stores the mutable scalar fields; unset fields keep their
// current value.
func (uc *ContentTypeUseCase) Update(ctx context.Context, id uint64, input UpdateContentTypeInput) (*types.ContentType, error) {
	ct, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ContentYear != nil {
		ct.ContentYear = *input.ContentYear
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, errors.Newf(errors.ErrInvalidParams, "unknown status %q", *input.Status)
		}
		ct.Status = *input.Status
	}

	if err := uc.repo.Update(ctx, ct); err != nil {
		if errors.Is(err, errors.ErrContentTypeNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	return uc.repo.GetByID(ctx, id)
}

// UpdateTranslations replaces the content type's translation set.
// Languages absent from the payload are removed.
func (uc *ContentTypeUseCase) UpdateTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) (*types.ContentType, error) {
	if len(translations) == 0 {
		return nil, errors.New(errors.ErrInvalidParams, "at least one translation is required")
	}

	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceTranslations(ctx, id, translations); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	return uc.repo.GetByID(ctx, id)
}

// Delete removes a content type and its translations
func (uc *ContentTypeUseCase) Delete(ctx context.Context, id uint64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.WithContext(ctx).Info("content type deleted", zap.Uint64("id", id))
	return nil
}
