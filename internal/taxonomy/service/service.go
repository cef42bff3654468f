// Package service exposes the taxonomy over HTTP.
package service

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/biz"
)

// TaxonomyService carries the gin handlers for categories,
// subcategories and content types.
type TaxonomyService struct {
	categories   *biz.CategoryUseCase
	subs         *biz.SubcategoryUseCase
	contentTypes *biz.ContentTypeUseCase
	log          *logger.Logger
}

// NewTaxonomyService creates the taxonomy HTTP service
func NewTaxonomyService(categories *biz.CategoryUseCase, subs *biz.SubcategoryUseCase, contentTypes *biz.ContentTypeUseCase, log *logger.Logger) *TaxonomyService {
	return &TaxonomyService{
		categories:   categories,
		subs:         subs,
		contentTypes: contentTypes,
		log:          log,
	}
}

// RegisterRoutes mounts the taxonomy routes on a router group
func (s *TaxonomyService) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/categories", s.CreateCategory)
	g.GET("/categories", s.ListCategories)
	g.GET("/categories/:id", s.GetCategory)
	g.PUT("/categories/:id", s.UpdateCategory)
	g.DELETE("/categories/:id", s.DeleteCategory)

	g.POST("/categories/:id/subcategories", s.CreateSubcategory)
	g.GET("/categories/:id/subcategories", s.ListSubcategories)
	g.GET("/subcategories/:id", s.GetSubcategory)
	g.PUT("/subcategories/:id", s.UpdateSubcategory)
	g.DELETE("/subcategories/:id", s.DeleteSubcategory)

	g.POST("/content-types", s.CreateContentType)
	g.GET("/content-types", s.ListContentTypes)
	g.GET("/content-types/:id", s.GetContentType)
	g.PATCH("/content-types/:id", s.UpdateContentType)
	g.PUT("/content-types/:id/translations", s.UpdateContentTypeTranslations)
	g.DELETE("/content-types/:id", s.DeleteContentType)
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
