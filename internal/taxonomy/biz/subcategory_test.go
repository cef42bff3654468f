package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

func newSubcategoryUseCase(t *testing.T) (*SubcategoryUseCase, *fakeCategoryRepo, *fakeSubcategoryRepo, *fakeContentTypeRepo, *fakeListingCache) {
	t.Helper()
	catRepo := newFakeCategoryRepo()
	repo := newFakeSubcategoryRepo()
	cts := newFakeContentTypeRepo()
	cache := newFakeListingCache()
	uc := NewSubcategoryUseCase(repo, catRepo, cts, cache, testTaxConfig(), testLogger(t))
	return uc, catRepo, repo, cts, cache
}

func seedCategory(t *testing.T, repo *fakeCategoryRepo) *types.Category {
	t.Helper()
	category := &types.Category{
		Slug: "health",
		Translations: []types.Translation{
			{ID: 1, LanguageCode: "hi", Name: "स्वास्थ्य"},
			{ID: 2, LanguageCode: "en", Name: "Health"},
		},
	}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func TestCreateSubcategoryUnknownParent(t *testing.T) {
	uc, _, _, _, _ := newSubcategoryUseCase(t)

	_, err := uc.Create(context.Background(), 99, []types.TranslationInput{{LanguageCode: "en", Name: "Clinics"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidReference, apperrors.ExtractCode(err))
}

func TestCreateSubcategorySlugScopedToParent(t *testing.T) {
	uc, catRepo, _, _, _ := newSubcategoryUseCase(t)
	first := seedCategory(t, catRepo)

	second := &types.Category{Slug: "education"}
	require.NoError(t, catRepo.Create(context.Background(), second))

	sub1, err := uc.Create(context.Background(), first.ID, []types.TranslationInput{{LanguageCode: "en", Name: "Clinics"}})
	require.NoError(t, err)
	assert.Equal(t, "clinics", sub1.Slug)

	// The same slug is free under a different parent.
	sub2, err := uc.Create(context.Background(), second.ID, []types.TranslationInput{{LanguageCode: "en", Name: "Clinics"}})
	require.NoError(t, err)
	assert.Equal(t, "clinics", sub2.Slug)

	// But taken within the same parent.
	_, err = uc.Create(context.Background(), first.ID, []types.TranslationInput{{LanguageCode: "en", Name: "Clinics"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSlugConflict, apperrors.ExtractCode(err))
}

func TestListSubcategoriesResolvesAndCaches(t *testing.T) {
	uc, catRepo, _, _, cache := newSubcategoryUseCase(t)
	category := seedCategory(t, catRepo)

	_, err := uc.Create(context.Background(), category.ID, []types.TranslationInput{
		{LanguageCode: "hi", Name: "क्लिनिक"},
		{LanguageCode: "en", Name: "Clinics"},
	})
	require.NoError(t, err)

	views, err := uc.ListByCategory(context.Background(), category.ID, "en")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Clinics", views[0].Name)

	_, cached := cache.GetSubcategories(context.Background(), category.ID, "en")
	assert.True(t, cached)
}

func TestDeleteSubcategoryBlockedByContentTypes(t *testing.T) {
	uc, catRepo, repo, cts, _ := newSubcategoryUseCase(t)
	category := seedCategory(t, catRepo)

	sub, err := uc.Create(context.Background(), category.ID, []types.TranslationInput{{LanguageCode: "en", Name: "Clinics"}})
	require.NoError(t, err)

	require.NoError(t, cts.Create(context.Background(), &types.ContentType{
		CategoryID:    category.ID,
		SubcategoryID: &sub.ID,
		Status:        types.StatusDraft,
	}))

	err = uc.Delete(context.Background(), sub.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDependencyExists, apperrors.ExtractCode(err))
	_, stillThere := repo.subs[sub.ID]
	assert.True(t, stillThere)
}

func TestUpdateSubcategoryTranslationsInvalidatesCache(t *testing.T) {
	uc, catRepo, _, _, cache := newSubcategoryUseCase(t)
	category := seedCategory(t, catRepo)

	sub, err := uc.Create(context.Background(), category.ID, []types.TranslationInput{{LanguageCode: "en", Name: "Clinics"}})
	require.NoError(t, err)

	_, err = uc.ListByCategory(context.Background(), category.ID, "en")
	require.NoError(t, err)

	_, err = uc.UpdateTranslations(context.Background(), sub.ID, []types.TranslationInput{{LanguageCode: "en", Name: "Hospitals"}})
	require.NoError(t, err)

	_, cached := cache.GetSubcategories(context.Background(), category.ID, "en")
	assert.False(t, cached)
}
