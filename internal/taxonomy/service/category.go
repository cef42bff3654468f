package service

import (
	"github.com/gin-gonic/gin"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/response"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// TranslationsRequest is the payload for create and full-replace
// translation updates.
type TranslationsRequest struct {
	Translations []types.TranslationInput `json:"translations" binding:"required,min=1,dive"`
}

// CreateCategory creates a category from its translations
func (s *TaxonomyService) CreateCategory(c *gin.Context) {
	var req TranslationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := s.categories.Create(c.Request.Context(), req.Translations)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, category)
}

// ListCategories lists categories resolved for the lang query param
func (s *TaxonomyService) ListCategories(c *gin.Context) {
	views, err := s.categories.List(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, views)
}

// GetCategory returns one category with all its translations
func (s *TaxonomyService) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	category, err := s.categories.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, category)
}

// UpdateCategory replaces the category's translation set
func (s *TaxonomyService) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	var req TranslationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := s.categories.UpdateTranslations(c.Request.Context(), id, req.Translations)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, category)
}

// DeleteCategory removes a category without dependents
func (s *TaxonomyService) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := s.categories.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, nil)
}
