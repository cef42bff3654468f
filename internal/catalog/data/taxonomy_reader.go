package data

import (
	"context"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/biz"
	taxbiz "github.com/lokmitra/content-catalog-backend/internal/taxonomy/biz"
	taxtypes "github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// TaxonomyReader adapts the taxonomy repositories to the catalog's
// narrow read interface. Translation lookups on unknown ids return an
// empty set, which the ingestion pipeline treats as "no tag".
type TaxonomyReader struct {
	categories    taxbiz.CategoryRepo
	subcategories taxbiz.SubcategoryRepo
	contentTypes  taxbiz.ContentTypeRepo
}

// NewTaxonomyReader creates a taxonomy reader over the repositories
func NewTaxonomyReader(categories taxbiz.CategoryRepo, subcategories taxbiz.SubcategoryRepo, contentTypes taxbiz.ContentTypeRepo) biz.TaxonomyReader {
	return &TaxonomyReader{
		categories:    categories,
		subcategories: subcategories,
		contentTypes:  contentTypes,
	}
}

func (r *TaxonomyReader) ContentTypeExists(ctx context.Context, id uint64) (bool, error) {
	return r.contentTypes.Exists(ctx, id)
}

func (r *TaxonomyReader) CategoryTranslations(ctx context.Context, id uint64) ([]taxtypes.Translation, error) {
	return r.categories.Translations(ctx, id)
}

func (r *TaxonomyReader) SubcategoryTranslations(ctx context.Context, id uint64) ([]taxtypes.Translation, error) {
	return r.subcategories.Translations(ctx, id)
}
