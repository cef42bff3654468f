package types

import "strings"

// Classification is the closed set of content kinds governing which
// media types an upload may carry.
type Classification string

const (
	ClassificationImage Classification = "image"
	ClassificationPDF   Classification = "pdf"
	ClassificationWord  Classification = "word"
	ClassificationText  Classification = "text"
	ClassificationCSV   Classification = "csv"
	ClassificationExcel Classification = "excel"
	ClassificationAudio Classification = "audio"
	ClassificationVideo Classification = "video"
	ClassificationOther Classification = "other"
)

// Valid reports whether c is a member of the closed classification set
func (c Classification) Valid() bool {
	_, ok := classificationMIMEs[c]
	return ok
}

func (c Classification) String() string { return string(c) }

// classificationMIMEs maps each classification to its acceptable media
// types. An empty list means no restriction.
var classificationMIMEs = map[Classification][]string{
	ClassificationPDF: {"application/pdf"},

	ClassificationImage: {"image/jpeg", "image/png", "image/webp", "image/jpg"},

	ClassificationWord: {
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	},

	ClassificationCSV: {"text/csv"},

	ClassificationExcel: {
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	},

	ClassificationText: {"text/plain"},

	ClassificationAudio: {
		"audio/mpeg",
		"audio/wav",
		"audio/x-wav",
		"audio/ogg",
		"audio/webm",
		"audio/mp4",
	},

	ClassificationVideo: {
		"video/mp4",
		"video/webm",
		"video/ogg",
		"video/quicktime",
		"video/x-msvideo",
		"video/x-matroska",
	},

	ClassificationOther: {},
}

// AllowedMediaTypes returns the acceptable media types for a
// classification. An empty result means no restriction.
func AllowedMediaTypes(c Classification) []string {
	return classificationMIMEs[c]
}

// ClassificationForMIME derives a classification from a media type.
// Unknown media types fall into ClassificationOther.
func ClassificationForMIME(mime string) Classification {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return ClassificationImage
	case mime == "application/pdf":
		return ClassificationPDF
	case strings.Contains(mime, "word"):
		return ClassificationWord
	case mime == "text/csv":
		return ClassificationCSV
	case strings.Contains(mime, "spreadsheet") || mime == "application/vnd.ms-excel":
		return ClassificationExcel
	case mime == "text/plain":
		return ClassificationText
	case strings.HasPrefix(mime, "audio/"):
		return ClassificationAudio
	case strings.HasPrefix(mime, "video/"):
		return ClassificationVideo
	}
	return ClassificationOther
}
