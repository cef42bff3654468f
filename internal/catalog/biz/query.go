package biz

import (
	"context"

	"go.uber.org/zap"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/i18n"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
)

// FileList is one page of resolved file views
type FileList struct {
	Items []types.FileView `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Take  int              `json:"take"`
}

// FileQueryUseCase implements the catalog read and maintenance paths.
// Every read resolves labels through the same fallback rule.
type FileQueryUseCase struct {
	repo     FileRepo
	store    ObjectStore
	taxonomy TaxonomyReader
	cfg      Config
	log      *logger.Logger
}

// NewFileQueryUseCase creates a file query use case
func NewFileQueryUseCase(repo FileRepo, store ObjectStore, taxonomy TaxonomyReader, cfg Config, log *logger.Logger) *FileQueryUseCase {
	return &FileQueryUseCase{
		repo:     repo,
		store:    store,
		taxonomy: taxonomy,
		cfg:      cfg,
		log:      log,
	}
}

// ListFiles returns a page of files, optionally narrowed to a content
// type and classification.
func (uc *FileQueryUseCase) ListFiles(ctx context.Context, filter types.FileFilter, lang string) (*FileList, error) {
	lang = uc.lang(lang)
	uc.normalize(&filter.Skip, &filter.Take)

	assets, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	return uc.page(assets, total, filter.Skip, filter.Take, lang), nil
}

// ListByCategory returns files tagged with the category's localized
// name. Files also carrying a subcategory tag are excluded; they
// surface through the subcategory listing instead. Tag matching is by
// name string, so files ingested before a rename no longer match the
// new name.
func (uc *FileQueryUseCase) ListByCategory(ctx context.Context, categoryID uint64, filter types.FileFilter, lang string) (*FileList, error) {
	lang = uc.lang(lang)
	uc.normalize(&filter.Skip, &filter.Take)

	labels, err := uc.taxonomy.CategoryTranslations(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}
	name, ok := i18n.Resolve(labels, lang, uc.cfg.FallbackLanguage)
	if !ok {
		return &FileList{Items: []types.FileView{}, Skip: filter.Skip, Take: filter.Take}, nil
	}

	assets, total, err := uc.repo.ListByTag(ctx, types.TagFilter{
		Key:            types.TagKeyCategory,
		Value:          name.Name,
		ExcludeKey:     types.TagKeySubcategory,
		Classification: filter.Classification,
		Skip:           filter.Skip,
		Take:           filter.Take,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	return uc.page(assets, total, filter.Skip, filter.Take, lang), nil
}

// ListBySubcategory returns files tagged with the subcategory's
// localized name.
func (uc *FileQueryUseCase) ListBySubcategory(ctx context.Context, subcategoryID uint64, filter types.FileFilter, lang string) (*FileList, error) {
	lang = uc.lang(lang)
	uc.normalize(&filter.Skip, &filter.Take)

	labels, err := uc.taxonomy.SubcategoryTranslations(ctx, subcategoryID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}
	name, ok := i18n.Resolve(labels, lang, uc.cfg.FallbackLanguage)
	if !ok {
		return &FileList{Items: []types.FileView{}, Skip: filter.Skip, Take: filter.Take}, nil
	}

	assets, total, err := uc.repo.ListByTag(ctx, types.TagFilter{
		Key:            types.TagKeySubcategory,
		Value:          name.Name,
		Classification: filter.Classification,
		Skip:           filter.Skip,
		Take:           filter.Take,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	return uc.page(assets, total, filter.Skip, filter.Take, lang), nil
}

// GetFile returns one file resolved for a language
func (uc *FileQueryUseCase) GetFile(ctx context.Context, id uint64, lang string) (*types.FileView, error) {
	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := resolveView(uc.store, asset, uc.lang(lang), uc.cfg.FallbackLanguage)
	return &view, nil
}

// DownloadURL returns a time-bounded presigned URL for the file's
// bytes, with the original filename as the download name.
func (uc *FileQueryUseCase) DownloadURL(ctx context.Context, id uint64) (string, error) {
	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := uc.store.PresignedURL(ctx, asset.StorageKey, asset.FileName)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrStorageFailed)
	}
	return url, nil
}

// UpdateLabel upserts the file's label for one language
func (uc *FileQueryUseCase) UpdateLabel(ctx context.Context, id uint64, lang, displayName, description string) (*types.FileView, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	label := &types.FileLabel{
		FileID:       id,
		LanguageCode: uc.lang(lang),
		DisplayName:  displayName,
		Description:  description,
	}
	if err := uc.repo.UpsertLabel(ctx, label); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternalServer)
	}

	return uc.GetFile(ctx, id, lang)
}

// DeleteFile removes the catalog rows and then the bytes. The rows go
// first so a removal failure cannot leave a row pointing at nothing;
// the leftover object is logged for the reconciliation sweep.
func (uc *FileQueryUseCase) DeleteFile(ctx context.Context, id uint64) error {
	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.ErrInternalServer)
	}

	if err := uc.store.Remove(ctx, asset.StorageKey); err != nil {
		uc.log.WithContext(ctx).Error("orphaned object left in storage after delete",
			zap.Uint64("file_id", id),
			zap.String("storage_key", asset.StorageKey),
			zap.Error(err),
		)
	}

	uc.log.WithContext(ctx).Info("file deleted", zap.Uint64("id", id))
	return nil
}

func (uc *FileQueryUseCase) lang(lang string) string {
	if lang == "" {
		return uc.cfg.FallbackLanguage
	}
	return lang
}

func (uc *FileQueryUseCase) normalize(skip, take *int) {
	if *skip < 0 {
		*skip = 0
	}
	if *take <= 0 {
		*take = uc.cfg.DefaultPageSize
	}
}

func (uc *FileQueryUseCase) page(assets []*types.FileAsset, total int64, skip, take int, lang string) *FileList {
	items := make([]types.FileView, len(assets))
	for i, a := range assets {
		items[i] = resolveView(uc.store, a, lang, uc.cfg.FallbackLanguage)
	}
	return &FileList{Items: items, Total: total, Skip: skip, Take: take}
}

// resolveView shapes one asset for a language. A file without any
// label falls back to its original filename.
func resolveView(store ObjectStore, a *types.FileAsset, lang, fallback string) types.FileView {
	v := types.FileView{
		ID:             a.ID,
		ContentTypeID:  a.ContentTypeID,
		FileName:       a.FileName,
		DisplayName:    a.FileName,
		FileSize:       a.FileSize,
		Classification: a.Classification,
		URL:            store.PublicURL(a.StorageKey),
		UploadedAt:     a.UploadedAt,
	}
	if t, ok := i18n.Resolve(a.Labels, lang, fallback); ok {
		v.DisplayName = t.DisplayName
		v.Description = t.Description
	}
	if len(a.Tags) > 0 {
		v.Tags = make(map[string]string, len(a.Tags))
		for _, tag := range a.Tags {
			v.Tags[tag.Key] = tag.Value
		}
	}
	return v
}
