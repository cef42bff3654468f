package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

func TestDeriveSlug(t *testing.T) {
	got := deriveSlug([]types.TranslationInput{
		{LanguageCode: "en", Name: "Health & Wellness Reports"},
	}, "category")
	assert.Equal(t, "health-and-wellness-reports", got)
}

func TestDeriveSlugSkipsUnusableNames(t *testing.T) {
	got := deriveSlug([]types.TranslationInput{
		{LanguageCode: "en", Name: "!!!"},
		{LanguageCode: "hi", Name: "Reports"},
	}, "category")
	assert.Equal(t, "reports", got)
}

func TestDeriveSlugSynthesizesFromTimestamp(t *testing.T) {
	got := deriveSlug([]types.TranslationInput{
		{LanguageCode: "en", Name: "???"},
	}, "subcategory")
	assert.True(t, strings.HasPrefix(got, "subcategory-"), "got %q", got)
}
