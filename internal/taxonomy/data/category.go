package data

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/database"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/biz"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// CategoryPO is the GORM model for the categories table
type CategoryPO struct {
	ID           uint64                  `gorm:"primaryKey"`
	Slug         string                  `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt    time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"`
	Translations []CategoryTranslationPO `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (CategoryPO) TableName() string {
	return "categories"
}

// CategoryTranslationPO is the GORM model for category translations
type CategoryTranslationPO struct {
	ID           uint64 `gorm:"primaryKey"`
	CategoryID   uint64 `gorm:"not null;uniqueIndex:idx_category_translations_lang,priority:1"`
	LanguageCode string `gorm:"size:8;not null;uniqueIndex:idx_category_translations_lang,priority:2"`
	Name         string `gorm:"size:255;not null"`
	Description  string `gorm:"type:text"`
}

func (CategoryTranslationPO) TableName() string {
	return "category_translations"
}

// CategoryRepo is the GORM-backed category repository
type CategoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a category repository
func NewCategoryRepo(db *database.DB) biz.CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create persists a category together with its translations
func (r *CategoryRepo) Create(ctx context.Context, category *types.Category) error {
	po := &CategoryPO{
		Slug: category.Slug,
	}
	for _, t := range category.Translations {
		po.Translations = append(po.Translations, CategoryTranslationPO{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}

	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}

	category.ID = po.ID
	category.CreatedAt = po.CreatedAt
	category.Translations = toTranslations(po.Translations)
	return nil
}

// GetByID fetches a category with translations in stable order
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*types.Category, error) {
	var po CategoryPO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Translations", orderByID).
		First(&po, id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrCategoryNotFound
		}
		return nil, err
	}

	return toCategory(&po), nil
}

// ExistsBySlug reports whether a category with the slug exists
func (r *CategoryRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&CategoryPO{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// List returns all categories with translations, oldest first
func (r *CategoryRepo) List(ctx context.Context) ([]*types.Category, error) {
	var pos []CategoryPO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Translations", orderByID).
		Order("created_at ASC, id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	categories := make([]*types.Category, len(pos))
	for i := range pos {
		categories[i] = toCategory(&pos[i])
	}
	return categories, nil
}

// Translations returns the category's translations in stable order
func (r *CategoryRepo) Translations(ctx context.Context, id uint64) ([]types.Translation, error) {
	var pos []CategoryTranslationPO
	err := r.db.WithContext(ctx).GetDB().
		Where("category_id = ?", id).
		Order("id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toTranslations(pos), nil
}

// ReplaceTranslations applies full-replace semantics: languages absent
// from the payload are deleted, the rest are upserted, in one
// transaction.
func (r *CategoryRepo) ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		langs := make([]string, len(translations))
		for i, t := range translations {
			langs[i] = t.LanguageCode
		}

		if err := tx.Where("category_id = ? AND language_code NOT IN ?", id, langs).
			Delete(&CategoryTranslationPO{}).Error; err != nil {
			return err
		}

		for _, t := range translations {
			po := CategoryTranslationPO{
				CategoryID:   id,
				LanguageCode: t.LanguageCode,
				Name:         t.Name,
				Description:  t.Description,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "category_id"}, {Name: "language_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description"}),
			}).Create(&po).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a category; translations cascade
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).GetDB().
		Select("Translations").
		Delete(&CategoryPO{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrCategoryNotFound
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func toCategory(po *CategoryPO) *types.Category {
	return &types.Category{
		ID:           po.ID,
		Slug:         po.Slug,
		CreatedAt:    po.CreatedAt,
		Translations: toTranslations(po.Translations),
	}
}

func toTranslations(pos []CategoryTranslationPO) []types.Translation {
	out := make([]types.Translation, len(pos))
	for i, po := range pos {
		out[i] = types.Translation{
			ID:           po.ID,
			LanguageCode: po.LanguageCode,
			Name:         po.Name,
			Description:  po.Description,
		}
	}
	return out
}
