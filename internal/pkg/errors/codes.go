package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001
	ErrNotFound       = 1002
	ErrConflict       = 1003
	ErrBadRequest     = 1004

	// Taxonomy errors (2000-2999)
	ErrCategoryNotFound    = 2000
	ErrSubcategoryNotFound = 2001
	ErrContentTypeNotFound = 2002
	ErrSlugConflict        = 2003
	ErrDependencyExists    = 2004
	ErrInvalidReference    = 2005
	ErrSubcategoryMismatch = 2006

	// Catalog and ingestion errors (3000-3999)
	ErrFileNotFound          = 3000
	ErrUnsupportedMediaType  = 3001
	ErrMalformedMetadata     = 3002
	ErrStorageFailed         = 3003
	ErrEmptyUpload           = 3004
	ErrInvalidClassification = 3005
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:       {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrConflict:       {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrBadRequest:     {ErrBadRequest, http.StatusBadRequest, "Bad request"},

	// Taxonomy errors
	ErrCategoryNotFound:    {ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	ErrSubcategoryNotFound: {ErrSubcategoryNotFound, http.StatusNotFound, "Subcategory not found"},
	ErrContentTypeNotFound: {ErrContentTypeNotFound, http.StatusNotFound, "Content type not found"},
	ErrSlugConflict:        {ErrSlugConflict, http.StatusConflict, "Slug already exists"},
	ErrDependencyExists:    {ErrDependencyExists, http.StatusConflict, "Dependent entities exist"},
	ErrInvalidReference:    {ErrInvalidReference, http.StatusBadRequest, "Invalid reference"},
	ErrSubcategoryMismatch: {ErrSubcategoryMismatch, http.StatusBadRequest, "Subcategory does not belong to category"},

	// Catalog and ingestion errors
	ErrFileNotFound:          {ErrFileNotFound, http.StatusNotFound, "File not found"},
	ErrUnsupportedMediaType:  {ErrUnsupportedMediaType, http.StatusBadRequest, "Unsupported media type"},
	ErrMalformedMetadata:     {ErrMalformedMetadata, http.StatusBadRequest, "Malformed metadata"},
	ErrStorageFailed:         {ErrStorageFailed, http.StatusInternalServerError, "Storage operation failed"},
	ErrEmptyUpload:           {ErrEmptyUpload, http.StatusBadRequest, "No files in upload"},
	ErrInvalidClassification: {ErrInvalidClassification, http.StatusBadRequest, "Invalid classification"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
