package biz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	apperrors "github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	taxtypes "github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "console"})
	require.NoError(t, err)
	return log
}

type fakeFileRepo struct {
	created    []*types.FileAsset
	assets     map[uint64]*types.FileAsset
	nextID     uint64
	failCreate error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{assets: make(map[uint64]*types.FileAsset)}
}

func (r *fakeFileRepo) CreateBatch(ctx context.Context, assets []*types.FileAsset) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, a := range assets {
		r.nextID++
		a.ID = r.nextID
		r.assets[a.ID] = a
		r.created = append(r.created, a)
	}
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id uint64) (*types.FileAsset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	return a, nil
}

func (r *fakeFileRepo) List(ctx context.Context, filter types.FileFilter) ([]*types.FileAsset, int64, error) {
	var out []*types.FileAsset
	for _, a := range r.created {
		if filter.ContentTypeID != 0 && a.ContentTypeID != filter.ContentTypeID {
			continue
		}
		if filter.Classification != "" && a.Classification != filter.Classification {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFileRepo) ListByTag(ctx context.Context, filter types.TagFilter) ([]*types.FileAsset, int64, error) {
	var out []*types.FileAsset
	for _, a := range r.created {
		matched := false
		excluded := false
		for _, tag := range a.Tags {
			if tag.Key == filter.Key && tag.Value == filter.Value {
				matched = true
			}
			if filter.ExcludeKey != "" && tag.Key == filter.ExcludeKey {
				excluded = true
			}
		}
		if matched && !excluded {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeFileRepo) UpsertLabel(ctx context.Context, label *types.FileLabel) error {
	a, ok := r.assets[label.FileID]
	if !ok {
		return ErrFileNotFound
	}
	for i := range a.Labels {
		if a.Labels[i].LanguageCode == label.LanguageCode {
			a.Labels[i].DisplayName = label.DisplayName
			a.Labels[i].Description = label.Description
			return nil
		}
	}
	a.Labels = append(a.Labels, *label)
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.assets[id]; !ok {
		return ErrFileNotFound
	}
	delete(r.assets, id)
	return nil
}

type fakeObjectStore struct {
	objects    map[string][]byte
	removed    []string
	puts       int
	failPutAt  int // fail the Nth Put (1-based), 0 disables
	failRemove bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.puts++
	if s.failPutAt != 0 && s.puts == s.failPutAt {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Remove(ctx context.Context, key string) error {
	s.removed = append(s.removed, key)
	if s.failRemove {
		return errors.New("remove failed")
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) PublicURL(key string) string {
	return "http://files.local/content-catalog/" + key
}

func (s *fakeObjectStore) PresignedURL(ctx context.Context, key, filename string) (string, error) {
	return fmt.Sprintf("http://files.local/content-catalog/%s?signed=1&name=%s", key, filename), nil
}

type fakeTaxonomy struct {
	contentTypes map[uint64]bool
	catLabels    map[uint64][]taxtypes.Translation
	subLabels    map[uint64][]taxtypes.Translation
}

func newFakeTaxonomy() *fakeTaxonomy {
	return &fakeTaxonomy{
		contentTypes: map[uint64]bool{1: true},
		catLabels:    make(map[uint64][]taxtypes.Translation),
		subLabels:    make(map[uint64][]taxtypes.Translation),
	}
}

func (f *fakeTaxonomy) ContentTypeExists(ctx context.Context, id uint64) (bool, error) {
	return f.contentTypes[id], nil
}

func (f *fakeTaxonomy) CategoryTranslations(ctx context.Context, id uint64) ([]taxtypes.Translation, error) {
	return f.catLabels[id], nil
}

func (f *fakeTaxonomy) SubcategoryTranslations(ctx context.Context, id uint64) ([]taxtypes.Translation, error) {
	return f.subLabels[id], nil
}

func testConfig() Config {
	return Config{
		FallbackLanguage: "hi",
		DefaultPageSize:  20,
		MaxUploadFiles:   10,
		MaxFileSize:      10 << 20,
	}
}

func pngFile(name string) IngestFile {
	return IngestFile{
		FileName: name,
		MIMEType: "image/png",
		Size:     4,
		Reader:   bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}),
	}
}

func uintPtr(v uint64) *uint64 { return &v }

func TestIngestRejectsUnknownContentType(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	uc := NewIngestUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  99,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidReference, apperrors.ExtractCode(err))
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.created)
}

func TestIngestRejectsUnsupportedMediaType(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	uc := NewIngestUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files: []IngestFile{
			pngFile("ok.png"),
			{FileName: "notes.txt", MIMEType: "text/plain", Size: 5, Reader: strings.NewReader("hello")},
		},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnsupportedMediaType, apperrors.ExtractCode(err))
	assert.Contains(t, err.Error(), "notes.txt")
	// Validation failures carry no side effects at all.
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.created)
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	uc := NewIngestUseCase(newFakeFileRepo(), newFakeObjectStore(), newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrEmptyUpload, apperrors.ExtractCode(err))
}

func TestIngestRejectsUnknownClassification(t *testing.T) {
	uc := NewIngestUseCase(newFakeFileRepo(), newFakeObjectStore(), newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: "hologram",
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidClassification, apperrors.ExtractCode(err))
}

func TestIngestCreatesRowsAndBytes(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	taxonomy := newFakeTaxonomy()
	taxonomy.catLabels[7] = []taxtypes.Translation{
		{ID: 1, LanguageCode: "hi", Name: "रिपोर्ट"},
		{ID: 2, LanguageCode: "en", Name: "Reports"},
	}
	uc := NewIngestUseCase(repo, store, taxonomy, testConfig(), testLogger(t))

	views, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(7),
		DisplayName:    "Quarterly chart",
		Files:          []IngestFile{pngFile("q1.png"), pngFile("q2.png")},
	})

	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Len(t, repo.created, 2)
	assert.Len(t, store.objects, 2)

	hexKey := regexp.MustCompile(`^[0-9a-f]{32}$`)
	for _, a := range repo.created {
		assert.Regexp(t, hexKey, a.StorageKey)
		require.Len(t, a.Labels, 1)
		assert.Equal(t, "en", a.Labels[0].LanguageCode)
		assert.Equal(t, "Quarterly chart", a.Labels[0].DisplayName)
		require.Len(t, a.Tags, 1)
		assert.Equal(t, types.TagKeyCategory, a.Tags[0].Key)
		assert.Equal(t, "Reports", a.Tags[0].Value)

		_, written := store.objects[a.StorageKey]
		assert.True(t, written, "bytes missing for %s", a.StorageKey)
	}

	assert.NotEqual(t, repo.created[0].StorageKey, repo.created[1].StorageKey)
	assert.Contains(t, views[0].URL, repo.created[0].StorageKey)
}

func TestIngestTagFallsBackToFallbackLanguage(t *testing.T) {
	repo := newFakeFileRepo()
	taxonomy := newFakeTaxonomy()
	taxonomy.catLabels[7] = []taxtypes.Translation{
		{ID: 1, LanguageCode: "hi", Name: "रिपोर्ट"},
	}
	uc := NewIngestUseCase(repo, newFakeObjectStore(), taxonomy, testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(7),
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.NoError(t, err)
	require.Len(t, repo.created[0].Tags, 1)
	assert.Equal(t, "रिपोर्ट", repo.created[0].Tags[0].Value)
}

func TestIngestOmitsTagForUnknownCategory(t *testing.T) {
	repo := newFakeFileRepo()
	uc := NewIngestUseCase(repo, newFakeObjectStore(), newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(404),
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.NoError(t, err)
	assert.Empty(t, repo.created[0].Tags)
}

func TestIngestContentYearTag(t *testing.T) {
	repo := newFakeFileRepo()
	uc := NewIngestUseCase(repo, newFakeObjectStore(), newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		ContentYear:    2024,
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.NoError(t, err)
	require.Len(t, repo.created[0].Tags, 1)
	assert.Equal(t, types.TagKeyContentYear, repo.created[0].Tags[0].Key)
	assert.Equal(t, "2024", repo.created[0].Tags[0].Value)
}

func TestIngestRejectsOutOfRangeContentYear(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	uc := NewIngestUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		ContentYear:    12,
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrMalformedMetadata, apperrors.ExtractCode(err))
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.created)
}

func TestIngestCompensatesOnCommitFailure(t *testing.T) {
	repo := newFakeFileRepo()
	repo.failCreate = errors.New("deadlock detected")
	store := newFakeObjectStore()
	uc := NewIngestUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files:          []IngestFile{pngFile("a.png"), pngFile("b.png")},
	})

	require.Error(t, err)
	assert.Empty(t, repo.created)
	// Every byte written in the call is removed before the error
	// surfaces.
	assert.Len(t, store.removed, 2)
	assert.Empty(t, store.objects)
}

func TestIngestCompensatesOnPutFailure(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	store.failPutAt = 2
	uc := NewIngestUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files:          []IngestFile{pngFile("a.png"), pngFile("b.png")},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrStorageFailed, apperrors.ExtractCode(err))
	assert.Empty(t, repo.created)
	assert.Len(t, store.removed, 1)
	assert.Empty(t, store.objects)
}

func TestIngestCompensationFailureDoesNotMaskError(t *testing.T) {
	repo := newFakeFileRepo()
	repo.failCreate = errors.New("deadlock detected")
	store := newFakeObjectStore()
	store.failRemove = true
	uc := NewIngestUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		Files:          []IngestFile{pngFile("a.png")},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInternalServer, apperrors.ExtractCode(err))
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestIngestOtherClassificationAcceptsAnyMediaType(t *testing.T) {
	repo := newFakeFileRepo()
	uc := NewIngestUseCase(repo, newFakeObjectStore(), newFakeTaxonomy(), testConfig(), testLogger(t))

	_, err := uc.Ingest(context.Background(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationOther,
		Files: []IngestFile{
			{FileName: "blob.bin", MIMEType: "application/octet-stream", Size: 3, Reader: strings.NewReader("abc")},
		},
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
}

func TestStorageKeyShape(t *testing.T) {
	seen := make(map[string]struct{})
	hexKey := regexp.MustCompile(`^[0-9a-f]{32}$`)
	for i := 0; i < 100; i++ {
		key := newStorageKey()
		assert.Regexp(t, hexKey, key)
		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}
