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

// ContentTypePO is the GORM model for the content_types table
type ContentTypePO struct {
	ID            uint64                     `gorm:"primaryKey"`
	CategoryID    uint64                     `gorm:"not null;index"`
	SubcategoryID *uint64                    `gorm:"index"`
	ContentYear   int                        `gorm:""`
	Status        string                     `gorm:"size:32;not null;default:'draft'"`
	CreatedAt     time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP"`
	Category      *CategoryPO                `gorm:"foreignKey:CategoryID"`
	Subcategory   *SubcategoryPO             `gorm:"foreignKey:SubcategoryID"`
	Translations  []ContentTypeTranslationPO `gorm:"foreignKey:ContentTypeID;constraint:OnDelete:CASCADE"`
}

func (ContentTypePO) TableName() string {
	return "content_types"
}

// ContentTypeTranslationPO is the GORM model for content type translations
type ContentTypeTranslationPO struct {
	ID            uint64 `gorm:"primaryKey"`
	ContentTypeID uint64 `gorm:"not null;uniqueIndex:idx_content_type_translations_lang,priority:1"`
	LanguageCode  string `gorm:"size:8;not null;uniqueIndex:idx_content_type_translations_lang,priority:2"`
	Name          string `gorm:"size:255;not null"`
	Description   string `gorm:"type:text"`
}

func (ContentTypeTranslationPO) TableName() string {
	return "content_type_translations"
}

// ContentTypeRepo is the GORM-backed content type repository
type ContentTypeRepo struct {
	db *database.DB
}

// NewContentTypeRepo creates a content type repository
func NewContentTypeRepo(db *database.DB) biz.ContentTypeRepo {
	return &ContentTypeRepo{db: db}
}

// Create persists a content type together with its translations
func (r *ContentTypeRepo) Create(ctx context.Context, ct *types.ContentType) error {
	po := &ContentTypePO{
		CategoryID:    ct.CategoryID,
		SubcategoryID: ct.SubcategoryID,
		ContentYear:   ct.ContentYear,
		Status:        string(ct.Status),
	}
	for _, t := range ct.Translations {
		po.Translations = append(po.Translations, ContentTypeTranslationPO{
			LanguageCode: t.LanguageCode,
			Name:         t.Name,
			Description:  t.Description,
		})
	}

	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}

	ct.ID = po.ID
	ct.CreatedAt = po.CreatedAt
	ct.Translations = toContentTypeTranslations(po.Translations)
	return nil
}

// Exists reports whether a content type with the id exists
func (r *ContentTypeRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&ContentTypePO{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// GetByID fetches a content type with translations in stable order
func (r *ContentTypeRepo) GetByID(ctx context.Context, id uint64) (*types.ContentType, error) {
	var po ContentTypePO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Translations", orderByID).
		Preload("Category").
		Preload("Subcategory").
		First(&po, id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrContentTypeNotFound
		}
		return nil, err
	}

	return toContentType(&po), nil
}

// List returns all content types with translations, newest first
func (r *ContentTypeRepo) List(ctx context.Context) ([]*types.ContentType, error) {
	var pos []ContentTypePO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Translations", orderByID).
		Preload("Category").
		Preload("Subcategory").
		Order("created_at DESC, id DESC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	cts := make([]*types.ContentType, len(pos))
	for i := range pos {
		cts[i] = toContentType(&pos[i])
	}
	return cts, nil
}

// CountByCategory counts content types owned by a category
func (r *ContentTypeRepo) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&ContentTypePO{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// CountBySubcategory counts content types owned by a subcategory
func (r *ContentTypeRepo) CountBySubcategory(ctx context.Context, subcategoryID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).GetDB().
		Model(&ContentTypePO{}).
		Where("subcategory_id = ?", subcategoryID).
		Count(&count).Error
	return count, err
}

// Update stores the mutable scalar fields
func (r *ContentTypeRepo) Update(ctx context.Context, ct *types.ContentType) error {
	result := r.db.WithContext(ctx).GetDB().
		Model(&ContentTypePO{}).
		Where("id = ?", ct.ID).
		Updates(map[string]interface{}{
			"content_year": ct.ContentYear,
			"status":       string(ct.Status),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrContentTypeNotFound
	}
	return nil
}

// ReplaceTranslations applies full-replace semantics in one transaction
func (r *ContentTypeRepo) ReplaceTranslations(ctx context.Context, id uint64, translations []types.TranslationInput) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		langs := make([]string, len(translations))
		for i, t := range translations {
			langs[i] = t.LanguageCode
		}

		if err := tx.Where("content_type_id = ? AND language_code NOT IN ?", id, langs).
			Delete(&ContentTypeTranslationPO{}).Error; err != nil {
			return err
		}

		for _, t := range translations {
			po := ContentTypeTranslationPO{
				ContentTypeID: id,
				LanguageCode:  t.LanguageCode,
				Name:          t.Name,
				Description:   t.Description,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "content_type_id"}, {Name: "language_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description"}),
			}).Create(&po).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a content type; translations cascade
func (r *ContentTypeRepo) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).GetDB().
		Select("Translations").
		Delete(&ContentTypePO{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrContentTypeNotFound
	}
	return nil
}

func toContentType(po *ContentTypePO) *types.ContentType {
	ct := &types.ContentType{
		ID:            po.ID,
		CategoryID:    po.CategoryID,
		SubcategoryID: po.SubcategoryID,
		ContentYear:   po.ContentYear,
		Status:        types.ContentTypeStatus(po.Status),
		CreatedAt:     po.CreatedAt,
		Translations:  toContentTypeTranslations(po.Translations),
	}
	if po.Category != nil {
		ct.CategorySlug = po.Category.Slug
	}
	if po.Subcategory != nil {
		ct.SubcategorySlug = po.Subcategory.Slug
	}
	return ct
}

func toContentTypeTranslations(pos []ContentTypeTranslationPO) []types.Translation {
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
