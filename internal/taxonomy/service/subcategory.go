package service

import (
	"github.com/gin-gonic/gin"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/response"
)

// CreateSubcategory creates a subcategory under the path category
func (s *TaxonomyService) CreateSubcategory(c *gin.Context) {
	categoryID, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	var req TranslationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sub, err := s.subs.Create(c.Request.Context(), categoryID, req.Translations)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, sub)
}

// ListSubcategories lists a category's subcategories resolved for the
// lang query param
func (s *TaxonomyService) ListSubcategories(c *gin.Context) {
	categoryID, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	views, err := s.subs.ListByCategory(c.Request.Context(), categoryID, c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, views)
}

// GetSubcategory returns one subcategory with all its translations
func (s *TaxonomyService) GetSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid subcategory id")
		return
	}

	sub, err := s.subs.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, sub)
}

// UpdateSubcategory replaces the subcategory's translation set
func (s *TaxonomyService) UpdateSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid subcategory id")
		return
	}

	var req TranslationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sub, err := s.subs.UpdateTranslations(c.Request.Context(), id, req.Translations)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, sub)
}

// DeleteSubcategory removes a subcategory without dependents
func (s *TaxonomyService) DeleteSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid subcategory id")
		return
	}

	if err := s.subs.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, nil)
}
