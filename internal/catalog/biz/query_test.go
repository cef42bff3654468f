package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	apperrors "github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	taxtypes "github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// ingestOne runs a real ingestion so query tests operate on assets
// shaped exactly as the pipeline writes them.
func ingestOne(t *testing.T, repo *fakeFileRepo, store *fakeObjectStore, taxonomy *fakeTaxonomy, input IngestInput) types.FileView {
	t.Helper()
	uc := NewIngestUseCase(repo, store, taxonomy, testConfig(), testLogger(t))
	views, err := uc.Ingest(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, views, 1)
	return views[0]
}

func TestListByCategoryMatchesLocalizedTag(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	taxonomy := newFakeTaxonomy()
	taxonomy.catLabels[7] = []taxtypes.Translation{
		{ID: 1, LanguageCode: "hi", Name: "रिपोर्ट"},
		{ID: 2, LanguageCode: "en", Name: "Reports"},
	}
	taxonomy.catLabels[8] = []taxtypes.Translation{
		{ID: 3, LanguageCode: "en", Name: "Forms"},
	}

	ingestOne(t, repo, store, taxonomy, IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(7),
		Files:          []IngestFile{pngFile("report.png")},
	})

	uc := NewFileQueryUseCase(repo, store, taxonomy, testConfig(), testLogger(t))

	list, err := uc.ListByCategory(context.Background(), 7, types.FileFilter{}, "en")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "report.png", list.Items[0].FileName)

	// A different category matches nothing.
	other, err := uc.ListByCategory(context.Background(), 8, types.FileFilter{}, "en")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestListByCategoryExcludesSubcategoryTagged(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	taxonomy := newFakeTaxonomy()
	taxonomy.catLabels[7] = []taxtypes.Translation{{ID: 1, LanguageCode: "en", Name: "Reports"}}
	taxonomy.subLabels[3] = []taxtypes.Translation{{ID: 2, LanguageCode: "en", Name: "Quarterly"}}

	ingestOne(t, repo, store, taxonomy, IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(7),
		Files:          []IngestFile{pngFile("loose.png")},
	})
	ingestOne(t, repo, store, taxonomy, IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(7),
		SubcategoryID:  uintPtr(3),
		Files:          []IngestFile{pngFile("scoped.png")},
	})

	uc := NewFileQueryUseCase(repo, store, taxonomy, testConfig(), testLogger(t))

	byCategory, err := uc.ListByCategory(context.Background(), 7, types.FileFilter{}, "en")
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, "loose.png", byCategory.Items[0].FileName)

	bySub, err := uc.ListBySubcategory(context.Background(), 3, types.FileFilter{}, "en")
	require.NoError(t, err)
	require.Len(t, bySub.Items, 1)
	assert.Equal(t, "scoped.png", bySub.Items[0].FileName)
}

func TestRenameOrphansExistingTags(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	taxonomy := newFakeTaxonomy()
	taxonomy.catLabels[7] = []taxtypes.Translation{{ID: 1, LanguageCode: "en", Name: "Reports"}}

	ingestOne(t, repo, store, taxonomy, IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		CategoryID:     uintPtr(7),
		Files:          []IngestFile{pngFile("old.png")},
	})

	// Rename the category. Tags are point-in-time snapshots, so the
	// lookup by the new name finds nothing.
	taxonomy.catLabels[7] = []taxtypes.Translation{{ID: 1, LanguageCode: "en", Name: "Archives"}}

	uc := NewFileQueryUseCase(repo, store, taxonomy, testConfig(), testLogger(t))
	list, err := uc.ListByCategory(context.Background(), 7, types.FileFilter{}, "en")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestListByCategoryWithoutLabelsReturnsEmpty(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	list, err := uc.ListByCategory(context.Background(), 404, types.FileFilter{}, "en")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestListFilesDefaultsTake(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	list, err := uc.ListFiles(context.Background(), types.FileFilter{Skip: -3}, "en")
	require.NoError(t, err)
	assert.Equal(t, 20, list.Take)
	assert.Equal(t, 0, list.Skip)
}

func TestGetFileFallsBackToFilename(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	asset := &types.FileAsset{
		ContentTypeID:  1,
		FileName:       "unnamed.bin",
		StorageKey:     "aaaabbbbccccddddeeeeffff00001111",
		MIMEType:       "application/octet-stream",
		FileSize:       3,
		Classification: types.ClassificationOther,
	}
	require.NoError(t, repo.CreateBatch(context.Background(), []*types.FileAsset{asset}))
	store.objects[asset.StorageKey] = []byte("abc")

	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))
	view, err := uc.GetFile(context.Background(), asset.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "unnamed.bin", view.DisplayName)
}

func TestGetFileLabelFallback(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	view := ingestOne(t, repo, store, newFakeTaxonomy(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "hi",
		DisplayName:    "वार्षिक चार्ट",
		Files:          []IngestFile{pngFile("chart.png")},
	})

	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	// Requesting an unsupported language falls back to the fallback
	// language label.
	got, err := uc.GetFile(context.Background(), view.ID, "fr")
	require.NoError(t, err)
	assert.Equal(t, "वार्षिक चार्ट", got.DisplayName)
}

func TestUpdateLabelUpserts(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	view := ingestOne(t, repo, store, newFakeTaxonomy(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "hi",
		DisplayName:    "चार्ट",
		Files:          []IngestFile{pngFile("chart.png")},
	})

	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	updated, err := uc.UpdateLabel(context.Background(), view.ID, "en", "Chart", "yearly numbers")
	require.NoError(t, err)
	assert.Equal(t, "Chart", updated.DisplayName)

	// The original language label is untouched.
	hi, err := uc.GetFile(context.Background(), view.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "चार्ट", hi.DisplayName)
}

func TestDeleteFileRemovesRowsAndBytes(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	view := ingestOne(t, repo, store, newFakeTaxonomy(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files:          []IngestFile{pngFile("gone.png")},
	})

	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	require.NoError(t, uc.DeleteFile(context.Background(), view.ID))
	assert.Empty(t, store.objects)

	_, err := uc.GetFile(context.Background(), view.ID, "en")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrFileNotFound, apperrors.ExtractCode(err))
}

func TestDeleteFileSurvivesStorageFailure(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	view := ingestOne(t, repo, store, newFakeTaxonomy(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files:          []IngestFile{pngFile("stuck.png")},
	})
	store.failRemove = true

	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	// Rows are gone even though the byte removal failed; the leftover
	// object is only logged.
	require.NoError(t, uc.DeleteFile(context.Background(), view.ID))
	_, err := uc.GetFile(context.Background(), view.ID, "en")
	require.Error(t, err)
}

func TestDownloadURLUsesOriginalFilename(t *testing.T) {
	repo := newFakeFileRepo()
	store := newFakeObjectStore()
	view := ingestOne(t, repo, store, newFakeTaxonomy(), IngestInput{
		ContentTypeID:  1,
		Classification: types.ClassificationImage,
		LanguageCode:   "en",
		Files:          []IngestFile{pngFile("original.png")},
	})

	uc := NewFileQueryUseCase(repo, store, newFakeTaxonomy(), testConfig(), testLogger(t))

	url, err := uc.DownloadURL(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "original.png")
}
