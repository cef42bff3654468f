package types

import "time"

// Tag keys form a small, explicitly enumerated vocabulary. Ingestion
// rejects any key outside this set.
const (
	TagKeyCategory    = "category"
	TagKeySubcategory = "subcategory"
	TagKeyContentYear = "content_year"
)

// ValidTagKey reports whether key belongs to the tag vocabulary
func ValidTagKey(key string) bool {
	switch key {
	case TagKeyCategory, TagKeySubcategory, TagKeyContentYear:
		return true
	}
	return false
}

// FileAsset is one cataloged binary. The storage key addresses its
// bytes in object storage and is never reused after deletion.
type FileAsset struct {
	ID             uint64         `json:"id"`
	ContentTypeID  uint64         `json:"content_type_id"`
	FileName       string         `json:"file_name"`
	StorageKey     string         `json:"-"`
	MIMEType       string         `json:"mime_type"`
	Extension      string         `json:"extension,omitempty"`
	FileSize       int64          `json:"file_size"`
	Classification Classification `json:"classification"`
	UploadedAt     time.Time      `json:"uploaded_at"`

	Labels []FileLabel `json:"labels,omitempty"`
	Tags   []FileTag   `json:"tags,omitempty"`
}

// FileLabel is the localized display name of a file. At most one label
// exists per (file, language).
type FileLabel struct {
	ID           uint64 `json:"id"`
	FileID       uint64 `json:"file_id"`
	LanguageCode string `json:"language_code"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description,omitempty"`
}

// Locale implements i18n.Localized
func (l FileLabel) Locale() string { return l.LanguageCode }

// FileTag is a denormalized key/value snapshot. For taxonomy tags the
// value is the localized node name at ingestion time, not the node id;
// a later rename does not update it.
type FileTag struct {
	ID     uint64 `json:"id"`
	FileID uint64 `json:"file_id"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// FileView is a file shaped for one requested language
type FileView struct {
	ID             uint64            `json:"id"`
	ContentTypeID  uint64            `json:"content_type_id"`
	FileName       string            `json:"file_name"`
	DisplayName    string            `json:"display_name"`
	Description    string            `json:"description,omitempty"`
	FileSize       int64             `json:"file_size"`
	Classification Classification    `json:"classification"`
	URL            string            `json:"url"`
	UploadedAt     time.Time         `json:"uploaded_at"`
	Tags           map[string]string `json:"tags,omitempty"`
}

// FileFilter selects files for the unfiltered and content-type listing
// paths
type FileFilter struct {
	ContentTypeID  uint64
	Classification Classification
	Skip           int
	Take           int
}

// TagFilter selects files whose tag set contains (Key, Value); when
// ExcludeKey is set, files carrying that tag key are skipped.
type TagFilter struct {
	Key            string
	Value          string
	ExcludeKey     string
	Classification Classification
	Skip           int
	Take           int
}
