package types

import "time"

// Translation is a localized name/description pair attached to a
// taxonomy entity.
type Translation struct {
	ID           uint64 `json:"id"`
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
}

// Locale implements i18n.Localized
func (t Translation) Locale() string { return t.LanguageCode }

// Category is a top-level taxonomy node
type Category struct {
	ID           uint64        `json:"id"`
	Slug         string        `json:"slug"`
	CreatedAt    time.Time     `json:"created_at"`
	Translations []Translation `json:"translations,omitempty"`
}

// Subcategory is a second-level taxonomy node owned by a Category
type Subcategory struct {
	ID           uint64        `json:"id"`
	CategoryID   uint64        `json:"category_id"`
	Slug         string        `json:"slug"`
	CreatedAt    time.Time     `json:"created_at"`
	Translations []Translation `json:"translations,omitempty"`
}

// ContentTypeStatus is the lifecycle status of a content type
type ContentTypeStatus string

const (
	StatusDraft     ContentTypeStatus = "draft"
	StatusPublished ContentTypeStatus = "published"
	StatusArchived  ContentTypeStatus = "archived"
)

// Valid reports whether the status is one of the known values
func (s ContentTypeStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ContentType groups file assets under a category and optional
// subcategory.
type ContentType struct {
	ID            uint64            `json:"id"`
	CategoryID    uint64            `json:"category_id"`
	SubcategoryID *uint64           `json:"subcategory_id,omitempty"`
	ContentYear   int               `json:"content_year,omitempty"`
	Status        ContentTypeStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	Translations  []Translation     `json:"translations,omitempty"`

	// Slugs of the owning nodes, populated on read paths
	CategorySlug    string `json:"category_slug,omitempty"`
	SubcategorySlug string `json:"subcategory_slug,omitempty"`
}

// TranslationInput is the write-side shape for translations
type TranslationInput struct {
	LanguageCode string `json:"language_code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
}

// CategoryView is a category resolved for one language
type CategoryView struct {
	ID          uint64 `json:"id"`
	Slug        string `json:"slug"`
	Lang        string `json:"lang"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SubcategoryView is a subcategory resolved for one language
type SubcategoryView struct {
	ID          uint64 `json:"id"`
	CategoryID  uint64 `json:"category_id"`
	Slug        string `json:"slug"`
	Lang        string `json:"lang"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ContentTypeView is a content type resolved for one language
type ContentTypeView struct {
	ID              uint64            `json:"id"`
	CategoryID      uint64            `json:"category_id"`
	SubcategoryID   *uint64           `json:"subcategory_id,omitempty"`
	CategorySlug    string            `json:"category_slug"`
	SubcategorySlug string            `json:"subcategory_slug,omitempty"`
	ContentYear     int               `json:"content_year,omitempty"`
	Status          ContentTypeStatus `json:"status"`
	Lang            string            `json:"lang"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}
