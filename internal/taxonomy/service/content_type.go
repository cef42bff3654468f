package service

import (
	"github.com/gin-gonic/gin"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/response"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/biz"
)

// CreateContentType creates a content type under a category and
// optional subcategory
func (s *TaxonomyService) CreateContentType(c *gin.Context) {
	var req biz.CreateContentTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ct, err := s.contentTypes.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, ct)
}

// ListContentTypes lists content types resolved for the lang query
// param
func (s *TaxonomyService) ListContentTypes(c *gin.Context) {
	views, err := s.contentTypes.List(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, views)
}

// GetContentType returns one content type with all its translations
func (s *TaxonomyService) GetContentType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid content type id")
		return
	}

	ct, err := s.contentTypes.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, ct)
}

// UpdateContentType stores the mutable scalar fields
func (s *TaxonomyService) UpdateContentType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid content type id")
		return
	}

	var req biz.UpdateContentTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ct, err := s.contentTypes.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, ct)
}

// UpdateContentTypeTranslations replaces the content type's
// translation set
func (s *TaxonomyService) UpdateContentTypeTranslations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid content type id")
		return
	}

	var req TranslationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ct, err := s.contentTypes.UpdateTranslations(c.Request.Context(), id, req.Translations)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, ct)
}

// DeleteContentType removes a content type
func (s *TaxonomyService) DeleteContentType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid content type id")
		return
	}

	if err := s.contentTypes.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, nil)
}
