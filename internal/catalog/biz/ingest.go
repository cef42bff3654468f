package biz

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/i18n"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
)

// IngestFile is one raw upload
type IngestFile struct {
	FileName string
	MIMEType string
	Size     int64
	Reader   io.Reader
}

// IngestInput is one ingestion call. All files in a call share the
// content type, classification, language and derived tag set.
type IngestInput struct {
	ContentTypeID  uint64
	Classification types.Classification
	LanguageCode   string
	CategoryID     *uint64
	SubcategoryID  *uint64
	DisplayName    string
	Description    string
	ContentYear    int
	Files          []IngestFile
}

// IngestUseCase runs the ingestion pipeline: validate, write bytes,
// then commit catalog rows in one transaction. Bytes go to the object
// store first because that write cannot join the transaction; on
// commit failure they are removed best-effort.
type IngestUseCase struct {
	repo     FileRepo
	store    ObjectStore
	taxonomy TaxonomyReader
	cfg      Config
	log      *logger.Logger
}

// NewIngestUseCase creates an ingestion use case
func NewIngestUseCase(repo FileRepo, store ObjectStore, taxonomy TaxonomyReader, cfg Config, log *logger.Logger) *IngestUseCase {
	return &IngestUseCase{
		repo:     repo,
		store:    store,
		taxonomy: taxonomy,
		cfg:      cfg,
		log:      log,
	}
}

// Ingest validates and catalogs a batch of files. Either every file in
// the batch ends up as a catalog row with backing bytes, or none does.
func (uc *IngestUseCase) Ingest(ctx context.Context, input IngestInput) ([]types.FileView, error) {
	if err := uc.validate(ctx, &input); err != nil {
		return nil, err
	}

	lang := input.LanguageCode
	if lang == "" {
		lang = uc.cfg.FallbackLanguage
	}

	tags, err := uc.deriveTags(ctx, &input, lang)
	if err != nil {
		return nil, err
	}

	// Bytes first. The object store is not a transaction participant,
	// so every written key must be compensated by hand if anything
	// after this point fails.
	assets := make([]*types.FileAsset, 0, len(input.Files))
	written := make([]string, 0, len(input.Files))
	for _, f := range input.Files {
		key := newStorageKey()
		if err := uc.store.Put(ctx, key, f.Reader, f.Size, f.MIMEType); err != nil {
			uc.compensate(ctx, written)
			return nil, errors.Wrapf(err, errors.ErrStorageFailed, "writing %q", f.FileName)
		}
		written = append(written, key)

		asset := &types.FileAsset{
			ContentTypeID:  input.ContentTypeID,
			FileName:       f.FileName,
			StorageKey:     key,
			MIMEType:       f.MIMEType,
			Extension:      strings.TrimPrefix(filepath.Ext(f.FileName), "."),
			FileSize:       f.Size,
			Classification: input.Classification,
			Labels: []types.FileLabel{{
				LanguageCode: lang,
				DisplayName:  displayNameFor(input.DisplayName, f.FileName),
				Description:  input.Description,
			}},
		}
		for _, t := range tags {
			asset.Tags = append(asset.Tags, types.FileTag{Key: t.Key, Value: t.Value})
		}
		assets = append(assets, asset)
	}

	if err := uc.repo.CreateBatch(ctx, assets); err != nil {
		uc.compensate(ctx, written)
		return nil, errors.Wrap(err, errors.ErrInternalServer, "cataloging upload batch")
	}

	views := make([]types.FileView, len(assets))
	for i, a := range assets {
		views[i] = resolveView(uc.store, a, lang, uc.cfg.FallbackLanguage)
	}

	uc.log.WithContext(ctx).Info("ingested file batch",
		zap.Uint64("content_type_id", input.ContentTypeID),
		zap.String("classification", input.Classification.String()),
		zap.Int("files", len(assets)),
	)
	return views, nil
}

// validate runs the pre-write checks. A failure here has produced no
// side effect at all.
func (uc *IngestUseCase) validate(ctx context.Context, input *IngestInput) error {
	if len(input.Files) == 0 {
		return errors.New(errors.ErrEmptyUpload)
	}
	if len(input.Files) > uc.cfg.MaxUploadFiles {
		return errors.Newf(errors.ErrInvalidParams, "at most %d files per upload", uc.cfg.MaxUploadFiles)
	}
	if !input.Classification.Valid() {
		return errors.Newf(errors.ErrInvalidClassification, "unknown classification %q", input.Classification)
	}

	exists, err := uc.taxonomy.ContentTypeExists(ctx, input.ContentTypeID)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternalServer)
	}
	if !exists {
		return errors.Newf(errors.ErrInvalidReference, "content type %d does not exist", input.ContentTypeID)
	}

	allowed := types.AllowedMediaTypes(input.Classification)
	for _, f := range input.Files {
		if f.Size <= 0 {
			return errors.Newf(errors.ErrInvalidParams, "file %q is empty", f.FileName)
		}
		if f.Size > uc.cfg.MaxFileSize {
			return errors.Newf(errors.ErrInvalidParams, "file %q exceeds the %d byte limit", f.FileName, uc.cfg.MaxFileSize)
		}
		if len(allowed) > 0 && !containsMIME(allowed, f.MIMEType) {
			return errors.Newf(errors.ErrUnsupportedMediaType,
				"file %q has media type %q, classification %q accepts %s",
				f.FileName, f.MIMEType, input.Classification, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// deriveTags builds the tag set shared by every file in the batch.
// Category and subcategory tags carry the node's localized name at
// this moment; a missing node or a node without translations is
// tolerated and its tag omitted.
func (uc *IngestUseCase) deriveTags(ctx context.Context, input *IngestInput, lang string) ([]types.FileTag, error) {
	var tags []types.FileTag

	if input.CategoryID != nil {
		labels, err := uc.taxonomy.CategoryTranslations(ctx, *input.CategoryID)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternalServer)
		}
		if t, ok := i18n.Resolve(labels, lang, uc.cfg.FallbackLanguage); ok {
			tags = append(tags, types.FileTag{Key: types.TagKeyCategory, Value: t.Name})
		}
	}

	if input.SubcategoryID != nil {
		labels, err := uc.taxonomy.SubcategoryTranslations(ctx, *input.SubcategoryID)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternalServer)
		}
		if t, ok := i18n.Resolve(labels, lang, uc.cfg.FallbackLanguage); ok {
			tags = append(tags, types.FileTag{Key: types.TagKeySubcategory, Value: t.Name})
		}
	}

	if input.ContentYear != 0 {
		if input.ContentYear < 1900 || input.ContentYear > 2200 {
			return nil, errors.Newf(errors.ErrMalformedMetadata, "content year %d out of range", input.ContentYear)
		}
		tags = append(tags, types.FileTag{Key: types.TagKeyContentYear, Value: strconv.Itoa(input.ContentYear)})
	}

	return tags, nil
}

// compensate removes written bytes after a downstream failure. A
// removal failure is logged and swallowed so it never masks the error
// that triggered it.
func (uc *IngestUseCase) compensate(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := uc.store.Remove(ctx, key); err != nil {
			uc.log.WithContext(ctx).Error("orphaned object left in storage after failed ingest",
				zap.String("storage_key", key),
				zap.Error(err),
			)
		}
	}
}

// newStorageKey returns a random 128-bit identifier rendered as hex.
// Keys are never derived from user-supplied filenames.
func newStorageKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func displayNameFor(requested, filename string) string {
	if requested != "" {
		return requested
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func containsMIME(allowed []string, mime string) bool {
	for _, m := range allowed {
		if strings.EqualFold(m, mime) {
			return true
		}
	}
	return false
}
