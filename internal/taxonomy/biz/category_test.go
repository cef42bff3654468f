package biz

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lokmitra/content-catalog-backend/internal/pkg/errors"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "console"})
	require.NoError(t, err)
	return log
}

func testTaxConfig() Config {
	return Config{
		FallbackLanguage: "hi",
		Languages:        []string{"hi", "en"},
		CacheTTL:         10 * time.Minute,
	}
}

type fakeCategoryRepo struct {
	categories map[uint64]*types.Category
	nextID     uint64
	listCalls  int
	deleted    []uint64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uint64]*types.Category)}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *types.Category) error {
	r.nextID++
	category.ID = r.nextID
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id uint64) (*types.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]*types.Category, error) {
	r.listCalls++
	out := make([]*types.Category, 0, len(r.categories))
	for id := uint64(1); id <= r.nextID; id++ {
		if c, ok := r.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Translations(ctx context.Context, id uint64) ([]types.Translation, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	return c.Translations, nil
}

func (r *fakeCategoryRepo) ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error {
	c, ok := r.categories[id]
	if !ok {
		return ErrCategoryNotFound
	}
	c.Translations = nil
	for _, t := range translations {
		c.Translations = append(c.Translations, types.Translation{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.categories, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeSubcategoryRepo struct {
	subs   map[uint64]*types.Subcategory
	nextID uint64
}

func newFakeSubcategoryRepo() *fakeSubcategoryRepo {
	return &fakeSubcategoryRepo{subs: make(map[uint64]*types.Subcategory)}
}

func (r *fakeSubcategoryRepo) Create(ctx context.Context, sub *types.Subcategory) error {
	r.nextID++
	sub.ID = r.nextID
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubcategoryRepo) GetByID(ctx context.Context, id uint64) (*types.Subcategory, error) {
	s, ok := r.subs[id]
	if !ok {
		return nil, ErrSubcategoryNotFound
	}
	return s, nil
}

func (r *fakeSubcategoryRepo) ExistsBySlug(ctx context.Context, categoryID uint64, slug string) (bool, error) {
	for _, s := range r.subs {
		if s.CategoryID == categoryID && s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubcategoryRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*types.Subcategory, error) {
	var out []*types.Subcategory
	for id := uint64(1); id <= r.nextID; id++ {
		if s, ok := r.subs[id]; ok && s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubcategoryRepo) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var n int64
	for _, s := range r.subs {
		if s.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeSubcategoryRepo) Translations(ctx context.Context, id uint64) ([]types.Translation, error) {
	s, ok := r.subs[id]
	if !ok {
		return nil, nil
	}
	return s.Translations, nil
}

func (r *fakeSubcategoryRepo) ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error {
	s, ok := r.subs[id]
	if !ok {
		return ErrSubcategoryNotFound
	}
	s.Translations = nil
	for _, t := range translations {
		s.Translations = append(s.Translations, types.Translation{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}
	return nil
}

func (r *fakeSubcategoryRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.subs[id]; !ok {
		return ErrSubcategoryNotFound
	}
	delete(r.subs, id)
	return nil
}

type fakeContentTypeRepo struct {
	cts    map[uint64]*types.ContentType
	nextID uint64
}

func newFakeContentTypeRepo() *fakeContentTypeRepo {
	return &fakeContentTypeRepo{cts: make(map[uint64]*types.ContentType)}
}

func (r *fakeContentTypeRepo) Create(ctx context.Context, ct *types.ContentType) error {
	r.nextID++
	ct.ID = r.nextID
	r.cts[ct.ID] = ct
	return nil
}

func (r *fakeContentTypeRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	_, ok := r.cts[id]
	return ok, nil
}

func (r *fakeContentTypeRepo) GetByID(ctx context.Context, id uint64) (*types.ContentType, error) {
	ct, ok := r.cts[id]
	if !ok {
		return nil, ErrContentTypeNotFound
	}
	return ct, nil
}

func (r *fakeContentTypeRepo) List(ctx context.Context) ([]*types.ContentType, error) {
	out := make([]*types.ContentType, 0, len(r.cts))
	for id := uint64(1); id <= r.nextID; id++ {
		if ct, ok := r.cts[id]; ok {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (r *fakeContentTypeRepo) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var n int64
	for _, ct := range r.cts {
		if ct.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeContentTypeRepo) CountBySubcategory(ctx context.Context, subcategoryID uint64) (int64, error) {
	var n int64
	for _, ct := range r.cts {
		if ct.SubcategoryID != nil && *ct.SubcategoryID == subcategoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeContentTypeRepo) Update(ctx context.Context, ct *types.ContentType) error {
	stored, ok := r.cts[ct.ID]
	if !ok {
		return ErrContentTypeNotFound
	}
	stored.ContentYear = ct.ContentYear
	stored.Status = ct.Status
	return nil
}

func (r *fakeContentTypeRepo) ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error {
	ct, ok := r.cts[id]
	if !ok {
		return ErrContentTypeNotFound
	}
	ct.Translations = nil
	for _, t := range translations {
		ct.Translations = append(ct.Translations, types.Translation{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}
	return nil
}

func (r *fakeContentTypeRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.cts[id]; !ok {
		return ErrContentTypeNotFound
	}
	delete(r.cts, id)
	return nil
}

type fakeListingCache struct {
	categories    map[string][]types.CategoryView
	subcategories map[string][]types.SubcategoryView
	invalidations []string
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{
		categories:    make(map[string][]types.CategoryView),
		subcategories: make(map[string][]types.SubcategoryView),
	}
}

func (c *fakeListingCache) GetCategories(ctx context.Context, lang string) ([]types.CategoryView, bool) {
	v, ok := c.categories[lang]
	return v, ok
}

func (c *fakeListingCache) SetCategories(ctx context.Context, lang string, views []types.CategoryView, ttl time.Duration) {
	c.categories[lang] = views
}

func (c *fakeListingCache) GetSubcategories(ctx context.Context, categoryID uint64, lang string) ([]types.SubcategoryView, bool) {
	v, ok := c.subcategories[fmt.Sprintf("%d:%s", categoryID, lang)]
	return v, ok
}

func (c *fakeListingCache) SetSubcategories(ctx context.Context, categoryID uint64, lang string, views []types.SubcategoryView, ttl time.Duration) {
	c.subcategories[fmt.Sprintf("%d:%s", categoryID, lang)] = views
}

func (c *fakeListingCache) InvalidateCategories(ctx context.Context, langs []string) {
	for _, lang := range langs {
		delete(c.categories, lang)
		c.invalidations = append(c.invalidations, "categories:"+lang)
	}
}

func (c *fakeListingCache) InvalidateSubcategories(ctx context.Context, categoryID uint64, langs []string) {
	for _, lang := range langs {
		key := fmt.Sprintf("%d:%s", categoryID, lang)
		delete(c.subcategories, key)
		c.invalidations = append(c.invalidations, "subcategories:"+key)
	}
}

func newCategoryUseCase(t *testing.T) (*CategoryUseCase, *fakeCategoryRepo, *fakeSubcategoryRepo, *fakeContentTypeRepo, *fakeListingCache) {
	t.Helper()
	repo := newFakeCategoryRepo()
	subs := newFakeSubcategoryRepo()
	cts := newFakeContentTypeRepo()
	cache := newFakeListingCache()
	uc := NewCategoryUseCase(repo, subs, cts, cache, testTaxConfig(), testLogger(t))
	return uc, repo, subs, cts, cache
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	uc, _, _, _, _ := newCategoryUseCase(t)

	category, err := uc.Create(context.Background(), []types.TranslationInput{
		{LanguageCode: "en", Name: "Health Reports"},
		{LanguageCode: "hi", Name: "स्वास्थ्य रिपोर्ट"},
	})

	require.NoError(t, err)
	assert.Equal(t, "health-reports", category.Slug)
	assert.Len(t, category.Translations, 2)
}

func TestCreateCategorySlugConflict(t *testing.T) {
	uc, _, _, _, _ := newCategoryUseCase(t)

	_, err := uc.Create(context.Background(), []types.TranslationInput{{LanguageCode: "en", Name: "Health"}})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), []types.TranslationInput{{LanguageCode: "en", Name: "Health"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSlugConflict, apperrors.ExtractCode(err))
}

func TestCreateCategorySynthesizesSlug(t *testing.T) {
	uc, _, _, _, _ := newCategoryUseCase(t)

	category, err := uc.Create(context.Background(), []types.TranslationInput{
		{LanguageCode: "en", Name: "!!!"},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(category.Slug, "category-"), "got slug %q", category.Slug)
}

func TestCreateCategoryRequiresTranslations(t *testing.T) {
	uc, _, _, _, _ := newCategoryUseCase(t)

	_, err := uc.Create(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidParams, apperrors.ExtractCode(err))
}

func TestListCategoriesResolvesAndCaches(t *testing.T) {
	uc, repo, _, _, cache := newCategoryUseCase(t)

	_, err := uc.Create(context.Background(), []types.TranslationInput{
		{LanguageCode: "hi", Name: "स्वास्थ्य"},
		{LanguageCode: "en", Name: "Health"},
	})
	require.NoError(t, err)

	views, err := uc.List(context.Background(), "en")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Health", views[0].Name)

	// Second call is served from the cache.
	_, err = uc.List(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	_, cached := cache.GetCategories(context.Background(), "en")
	assert.True(t, cached)

	// An unsupported language falls back.
	views, err = uc.List(context.Background(), "fr")
	require.NoError(t, err)
	assert.Equal(t, "स्वास्थ्य", views[0].Name)
}

func TestListCategoriesFallsBackToSlug(t *testing.T) {
	uc, repo, _, _, _ := newCategoryUseCase(t)

	repo.nextID++
	repo.categories[repo.nextID] = &types.Category{ID: repo.nextID, Slug: "bare"}

	views, err := uc.List(context.Background(), "en")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "bare", views[0].Name)
}

func TestUpdateCategoryTranslationsReplaces(t *testing.T) {
	uc, repo, _, _, cache := newCategoryUseCase(t)

	category, err := uc.Create(context.Background(), []types.TranslationInput{
		{LanguageCode: "hi", Name: "स्वास्थ्य"},
		{LanguageCode: "en", Name: "Health"},
	})
	require.NoError(t, err)

	_, err = uc.List(context.Background(), "en")
	require.NoError(t, err)

	// Full-replace semantics: the language missing from the payload is
	// deleted.
	updated, err := uc.UpdateTranslations(context.Background(), category.ID, []types.TranslationInput{
		{LanguageCode: "en", Name: "Wellness"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Translations, 1)
	assert.Equal(t, "Wellness", updated.Translations[0].Name)

	_, cached := cache.GetCategories(context.Background(), "en")
	assert.False(t, cached, "cache should be invalidated after update")
	assert.Len(t, repo.categories[category.ID].Translations, 1)
}

func TestDeleteCategoryBlockedBySubcategories(t *testing.T) {
	uc, repo, subs, _, _ := newCategoryUseCase(t)

	category, err := uc.Create(context.Background(), []types.TranslationInput{{LanguageCode: "en", Name: "Health"}})
	require.NoError(t, err)

	require.NoError(t, subs.Create(context.Background(), &types.Subcategory{CategoryID: category.ID, Slug: "clinics"}))

	err = uc.Delete(context.Background(), category.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDependencyExists, apperrors.ExtractCode(err))
	assert.Empty(t, repo.deleted)
	_, stillThere := repo.categories[category.ID]
	assert.True(t, stillThere)
}

func TestDeleteCategoryBlockedByContentTypes(t *testing.T) {
	uc, _, _, cts, _ := newCategoryUseCase(t)

	category, err := uc.Create(context.Background(), []types.TranslationInput{{LanguageCode: "en", Name: "Health"}})
	require.NoError(t, err)

	require.NoError(t, cts.Create(context.Background(), &types.ContentType{CategoryID: category.ID, Status: types.StatusDraft}))

	err = uc.Delete(context.Background(), category.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDependencyExists, apperrors.ExtractCode(err))
}

func TestDeleteCategoryWithoutDependents(t *testing.T) {
	uc, repo, _, _, _ := newCategoryUseCase(t)

	category, err := uc.Create(context.Background(), []types.TranslationInput{{LanguageCode: "en", Name: "Health"}})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), category.ID))
	assert.Equal(t, []uint64{category.ID}, repo.deleted)
}
