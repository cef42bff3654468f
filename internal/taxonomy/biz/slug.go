package biz

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// deriveSlug builds an identifier slug from the first translation with
// a non-empty name. When no usable name exists it synthesizes
// "<prefix>-<unix>" so the entity can still be created.
func deriveSlug(translations []types.TranslationInput, prefix string) string {
	for _, t := range translations {
		if s := slug.Make(t.Name); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}
