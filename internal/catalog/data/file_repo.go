package data

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/biz"
	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/database"
)

// FileAssetPO is the GORM model for the file_assets table. The storage
// key is unique and never reused after deletion.
type FileAssetPO struct {
	ID             uint64        `gorm:"primaryKey"`
	ContentTypeID  uint64        `gorm:"not null;index"`
	FileName       string        `gorm:"size:512;not null"`
	StorageKey     string        `gorm:"size:64;not null;uniqueIndex"`
	MIMEType       string        `gorm:"size:128;not null"`
	Extension      string        `gorm:"size:32"`
	FileSize       int64         `gorm:"not null"`
	Classification string        `gorm:"size:32;not null;index"`
	UploadedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	Labels         []FileLabelPO `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
	Tags           []FileTagPO   `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (FileAssetPO) TableName() string {
	return "file_assets"
}

// FileLabelPO is the GORM model for localized file labels
type FileLabelPO struct {
	ID           uint64 `gorm:"primaryKey"`
	FileID       uint64 `gorm:"not null;uniqueIndex:idx_file_labels_lang,priority:1"`
	LanguageCode string `gorm:"size:8;not null;uniqueIndex:idx_file_labels_lang,priority:2"`
	DisplayName  string `gorm:"size:512;not null"`
	Description  string `gorm:"type:text"`
}

func (FileLabelPO) TableName() string {
	return "file_labels"
}

// FileTagPO is the GORM model for denormalized file tags
type FileTagPO struct {
	ID     uint64 `gorm:"primaryKey"`
	FileID uint64 `gorm:"not null;index"`
	Key    string `gorm:"size:64;not null;index:idx_file_tags_kv,priority:1"`
	Value  string `gorm:"size:512;not null;index:idx_file_tags_kv,priority:2"`
}

func (FileTagPO) TableName() string {
	return "file_tags"
}

// FileRepo is the GORM-backed file asset repository
type FileRepo struct {
	db *database.DB
}

// NewFileRepo creates a file repository
func NewFileRepo(db *database.DB) biz.FileRepo {
	return &FileRepo{db: db}
}

// CreateBatch writes every asset with its labels and tags in one
// transaction. Either all rows land or none do.
func (r *FileRepo) CreateBatch(ctx context.Context, assets []*types.FileAsset) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, asset := range assets {
			po := toFileAssetPO(asset)
			if err := tx.Create(po).Error; err != nil {
				return err
			}
			writeBack(asset, po)
		}
		return nil
	})
}

// GetByID fetches an asset with its labels and tags in stable order
func (r *FileRepo) GetByID(ctx context.Context, id uint64) (*types.FileAsset, error) {
	var po FileAssetPO
	err := r.db.WithContext(ctx).GetDB().
		Preload("Labels", orderByID).
		Preload("Tags", orderByID).
		First(&po, id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrFileNotFound
		}
		return nil, err
	}
	return toFileAsset(&po), nil
}

// List returns a page of assets, newest first
func (r *FileRepo) List(ctx context.Context, filter types.FileFilter) ([]*types.FileAsset, int64, error) {
	query := r.db.WithContext(ctx).GetDB().Model(&FileAssetPO{})
	if filter.ContentTypeID != 0 {
		query = query.Where("content_type_id = ?", filter.ContentTypeID)
	}
	if filter.Classification != "" {
		query = query.Where("classification = ?", string(filter.Classification))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pos []FileAssetPO
	err := query.
		Preload("Labels", orderByID).
		Preload("Tags", orderByID).
		Order("uploaded_at DESC, id DESC").
		Offset(filter.Skip).
		Limit(filter.Take).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	return toFileAssets(pos), total, nil
}

// ListByTag returns a page of assets carrying the (key, value) tag.
// When ExcludeKey is set, assets carrying that tag key are skipped.
func (r *FileRepo) ListByTag(ctx context.Context, filter types.TagFilter) ([]*types.FileAsset, int64, error) {
	query := r.db.WithContext(ctx).GetDB().Model(&FileAssetPO{}).
		Where("EXISTS (SELECT 1 FROM file_tags t WHERE t.file_id = file_assets.id AND t.key = ? AND t.value = ?)",
			filter.Key, filter.Value)
	if filter.ExcludeKey != "" {
		query = query.Where("NOT EXISTS (SELECT 1 FROM file_tags t WHERE t.file_id = file_assets.id AND t.key = ?)",
			filter.ExcludeKey)
	}
	if filter.Classification != "" {
		query = query.Where("classification = ?", string(filter.Classification))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pos []FileAssetPO
	err := query.
		Preload("Labels", orderByID).
		Preload("Tags", orderByID).
		Order("uploaded_at DESC, id DESC").
		Offset(filter.Skip).
		Limit(filter.Take).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	return toFileAssets(pos), total, nil
}

// UpsertLabel inserts or replaces the label for (file, language)
func (r *FileRepo) UpsertLabel(ctx context.Context, label *types.FileLabel) error {
	po := FileLabelPO{
		FileID:       label.FileID,
		LanguageCode: label.LanguageCode,
		DisplayName:  label.DisplayName,
		Description:  label.Description,
	}
	return r.db.WithContext(ctx).GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_id"}, {Name: "language_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "description"}),
	}).Create(&po).Error
}

// Delete removes an asset; labels and tags cascade
func (r *FileRepo) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).GetDB().
		Select("Labels", "Tags").
		Delete(&FileAssetPO{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biz.ErrFileNotFound
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func toFileAssetPO(a *types.FileAsset) *FileAssetPO {
	po := &FileAssetPO{
		ContentTypeID:  a.ContentTypeID,
		FileName:       a.FileName,
		StorageKey:     a.StorageKey,
		MIMEType:       a.MIMEType,
		Extension:      a.Extension,
		FileSize:       a.FileSize,
		Classification: string(a.Classification),
	}
	for _, l := range a.Labels {
		po.Labels = append(po.Labels, FileLabelPO{
			LanguageCode: l.LanguageCode,
			DisplayName:  l.DisplayName,
			Description:  l.Description,
		})
	}
	for _, t := range a.Tags {
		po.Tags = append(po.Tags, FileTagPO{Key: t.Key, Value: t.Value})
	}
	return po
}

func writeBack(a *types.FileAsset, po *FileAssetPO) {
	a.ID = po.ID
	a.UploadedAt = po.UploadedAt
	for i := range po.Labels {
		a.Labels[i].ID = po.Labels[i].ID
		a.Labels[i].FileID = po.ID
	}
	for i := range po.Tags {
		a.Tags[i].ID = po.Tags[i].ID
		a.Tags[i].FileID = po.ID
	}
}

func toFileAsset(po *FileAssetPO) *types.FileAsset {
	a := &types.FileAsset{
		ID:             po.ID,
		ContentTypeID:  po.ContentTypeID,
		FileName:       po.FileName,
		StorageKey:     po.StorageKey,
		MIMEType:       po.MIMEType,
		Extension:      po.Extension,
		FileSize:       po.FileSize,
		Classification: types.Classification(po.Classification),
		UploadedAt:     po.UploadedAt,
	}
	for _, l := range po.Labels {
		a.Labels = append(a.Labels, types.FileLabel{
			ID:           l.ID,
			FileID:       l.FileID,
			LanguageCode: l.LanguageCode,
			DisplayName:  l.DisplayName,
			Description:  l.Description,
		})
	}
	for _, t := range po.Tags {
		a.Tags = append(a.Tags, types.FileTag{
			ID:     t.ID,
			FileID: t.FileID,
			Key:    t.Key,
			Value:  t.Value,
		})
	}
	return a
}

func toFileAssets(pos []FileAssetPO) []*types.FileAsset {
	out := make([]*types.FileAsset, len(pos))
	for i := range pos {
		out[i] = toFileAsset(&pos[i])
	}
	return out
}
