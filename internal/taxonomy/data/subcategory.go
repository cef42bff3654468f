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

// SubcategoryPO is the GORM model for the subcategories table. The
// slug is unique per parent category, not globally.
type SubcategoryPO struct {
	ID           uint64                     `gorm:"primaryKey"`
	CategoryID   uint64                     `gorm:"not null;uniqueIndex:idx_subcategories_slug,priority:1;index"`
	Slug         string                     `gorm:"size:255;not null;uniqueIndex:idx_subcategories_slug,priority:2"`
	CreatedAt    time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP"`
	Translations []SubcategoryTranslationPO `gorm:"foreignKey:SubcategoryID;constraint:OnDelete:CASCADE"`
}

func (SubcategoryPO) TableName() string {
	return "subcategories"
}

// SubcategoryTranslationPO is the GORM model for subcategory translations
type SubcategoryTranslationPO struct {
	ID            uint64 `gorm:"primaryKey"`
	SubcategoryID uint64 `gorm:"not null;uniqueIndex:idx_subcategory_translations_lang,priority:1"`
	LanguageCode  string `gorm:"size:8;not null;uniqueIndex:idx_subcategory_translations_lang,priority:2"`
	Name          string `gorm:"size:255;not null"`
	Description   string `gorm:"type:text"`
}

func (SubcategoryTranslationPO) TableName() string {
	return "subcategory_translations"
}

// SubcategoryRepo is the GORM-backed subcategory repository
type SubcategoryRepo struct {
	db *database.DB
}

// NewSubcategoryRepo creates a subcategory repository
func NewSubcategoryRepo(db *database.DB) biz.SubcategoryRepo {
	return &SubcategoryRepo{db: db}
}

// Create persists a subcategory together with its translations
func (r *SubcategoryRepo) Create(ctx context.Context, sub *types.Subcategory) error {
	po := &SubcategoryPO{
		CategoryID: sub.CategoryID,
		Slug:       sub.Slug,
	}
	for _, t := range sub.Translations {
		po.Translations = append(po.Translations, SubcategoryTranslationPO{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}

	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}

	sub.ID = po.ID
	sub.CreatedAt = po.CreatedAt
	sub.Translations = toSubcategoryTranslations(po.Translations)
	return nil
}

// GetByID fetches a subcategory with translations in stable order
func (r *SubcategoryRepo) GetByID(ctx context.Context, id uint64) (*types.Subcategory, error) {
	var po SubcategoryPO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Translations", orderByID).
		First(&po, id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrSubcategoryNotFound
		}
		return nil, err
	}

	return toSubcategory(&po), nil
}

// ExistsBySlug reports whether the slug is taken within the category
func (r *SubcategoryRepo) ExistsBySlug(ctx context.Context, categoryID uint64, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&SubcategoryPO{}).
		Where("category_id = ? AND slug = ?", categoryID, slug).
		Count(&count).Error
	return count > 0, err
}

// ListByCategory returns a category's subcategories, oldest first
func (r *SubcategoryRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*types.Subcategory, error) {
	var pos []SubcategoryPO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Translations", orderByID).
		Where("category_id = ?", categoryID).
		Order("created_at ASC, id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	subs := make([]*types.Subcategory, len(pos))
	for i := range pos {
		subs[i] = toSubcategory(&pos[i])
	}
	return subs, nil
}

// CountByCategory counts the subcategories under a category
func (r *SubcategoryRepo) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&SubcategoryPO{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// Translations returns the subcategory's translations in stable order
func (r *SubcategoryRepo) Translations(ctx context.Context, id uint64) ([]types.Translation, error) {
	var pos []SubcategoryTranslationPO
	err := r.db.WithContext(ctx).GetDB().
		Where("subcategory_id = ?", id).
		Order("id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toSubcategoryTranslations(pos), nil
}

// ReplaceTranslations applies full-replace semantics in one transaction
func (r *SubcategoryRepo) ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		langs := make([]string, len(translations))
		for i, t := range translations {
			langs[i] = t.LanguageCode
		}

		if err := tx.Where("subcategory_id = ? AND language_code NOT IN ?", id, langs).
			Delete(&SubcategoryTranslationPO{}).Error; err != nil {
			return err
		}

		for _, t := range translations {
			po := SubcategoryTranslationPO{
				SubcategoryID: id,
				LanguageCode:  t.LanguageCode,
				Name:          t.Name,
				Description:   t.Description,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "subcategory_id"}, {Name: "language_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description"}),
			}).Create(&po).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a subcategory; translations cascade
func (r *SubcategoryRepo) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).GetDB().
		Select("Translations").
		Delete(&SubcategoryPO{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrSubcategoryNotFound
	}
	return nil
}

func toSubcategory(po *SubcategoryPO) *types.Subcategory {
	return &types.Subcategory{
		ID:           po.ID,
		CategoryID:   po.CategoryID,
		Slug:         po.Slug,
		CreatedAt:    po.CreatedAt,
		Translations: toSubcategoryTranslations(po.Translations),
	}
}

func toSubcategoryTranslations(pos []SubcategoryTranslationPO) []types.Translation {
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
