// Package service exposes the catalog over HTTP: multipart ingestion
// and the localized query paths.
package service

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/biz"
	"github.com/lokmitra/content-catalog-backend/internal/catalog/types"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/response"
)

// FileService carries the gin handlers for the catalog
type FileService struct {
	ingest *biz.IngestUseCase
	query  *biz.FileQueryUseCase
	log    *logger.Logger
}

// NewFileService creates the catalog HTTP service
func NewFileService(ingest *biz.IngestUseCase, query *biz.FileQueryUseCase, log *logger.Logger) *FileService {
	return &FileService{
		ingest: ingest,
		query:  query,
		log:    log,
	}
}

// RegisterRoutes mounts the catalog routes on a router group
func (s *FileService) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/files", s.IngestFiles)
	g.GET("/files", s.ListFiles)
	g.GET("/files/:id", s.GetFile)
	g.GET("/files/:id/download", s.DownloadFile)
	g.PUT("/files/:id/label", s.UpdateFileLabel)
	g.DELETE("/files/:id", s.DeleteFile)

	g.GET("/categories/:id/files", s.ListByCategory)
	g.GET("/subcategories/:id/files", s.ListBySubcategory)
}

// IngestFiles accepts a multipart upload batch. Metadata travels as
// form fields, the binaries under the "files" field.
func (s *FileService) IngestFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "expected a multipart form: "+err.Error())
		return
	}

	contentTypeID, err := strconv.ParseUint(c.PostForm("content_type_id"), 10, 64)
	if err != nil || contentTypeID == 0 {
		response.BadRequest(c, "content_type_id is required")
		return
	}

	input := biz.IngestInput{
		ContentTypeID:  contentTypeID,
		Classification: types.Classification(c.PostForm("classification")),
		LanguageCode:   c.PostForm("lang"),
		DisplayName:    c.PostForm("display_name"),
		Description:    c.PostForm("description"),
	}

	if v := c.PostForm("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid category_id")
			return
		}
		input.CategoryID = &id
	}
	if v := c.PostForm("subcategory_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid subcategory_id")
			return
		}
		input.SubcategoryID = &id
	}
	if v := c.PostForm("content_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "invalid content_year")
			return
		}
		input.ContentYear = year
	}

	opened := make([]multipart.File, 0, len(form.File["files"]))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range form.File["files"] {
		f, err := header.Open()
		if err != nil {
			response.BadRequest(c, "unreadable file "+header.Filename)
			return
		}
		opened = append(opened, f)

		input.Files = append(input.Files, biz.IngestFile{
			FileName: header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Reader:   f,
		})
	}

	views, err := s.ingest.Ingest(c.Request.Context(), input)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, views)
}

// ListFiles lists files with optional content type and classification
// filters
func (s *FileService) ListFiles(c *gin.Context) {
	filter := types.FileFilter{
		Classification: types.Classification(c.Query("classification")),
	}
	if v := c.Query("content_type_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid content_type_id")
			return
		}
		filter.ContentTypeID = id
	}
	filter.Skip, filter.Take = pageParams(c)

	list, err := s.query.ListFiles(c.Request.Context(), filter, c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, list)
}

// ListByCategory lists files tagged with the category's localized name
func (s *FileService) ListByCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	filter := types.FileFilter{
		Classification: types.Classification(c.Query("classification")),
	}
	filter.Skip, filter.Take = pageParams(c)

	list, err := s.query.ListByCategory(c.Request.Context(), id, filter, c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, list)
}

// ListBySubcategory lists files tagged with the subcategory's
// localized name
func (s *FileService) ListBySubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid subcategory id")
		return
	}

	filter := types.FileFilter{
		Classification: types.Classification(c.Query("classification")),
	}
	filter.Skip, filter.Take = pageParams(c)

	list, err := s.query.ListBySubcategory(c.Request.Context(), id, filter, c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, list)
}

// GetFile returns one file resolved for the lang query param
func (s *FileService) GetFile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid file id")
		return
	}

	view, err := s.query.GetFile(c.Request.Context(), id, c.Query("lang"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, view)
}

// DownloadFile returns a presigned, time-bounded download URL
func (s *FileService) DownloadFile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid file id")
		return
	}

	url, err := s.query.DownloadURL(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"url": url})
}

// UpdateLabelRequest is the payload for per-language label upserts
type UpdateLabelRequest struct {
	LanguageCode string `json:"language_code" binding:"required"`
	DisplayName  string `json:"display_name" binding:"required"`
	Description  string `json:"description"`
}

// UpdateFileLabel upserts the file's label for one language
func (s *FileService) UpdateFileLabel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid file id")
		return
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := s.query.UpdateLabel(c.Request.Context(), id, req.LanguageCode, req.DisplayName, req.Description)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, view)
}

// DeleteFile removes a file's catalog rows and bytes
func (s *FileService) DeleteFile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "invalid file id")
		return
	}

	if err := s.query.DeleteFile(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, nil)
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (skip, take int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ = strconv.Atoi(c.DefaultQuery("take", "0"))
	return skip, take
}
