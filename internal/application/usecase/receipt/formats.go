package receipt

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the accepted receipt file extensions.
var SupportedExtensions = []string{"png", "jpg", "jpeg", "pdf"}

// DefaultMaxFileSize is the upload limit when none is configured.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"pdf":  "application/pdf",
}

// SupportedFormats describes what the receipt endpoints accept.
type SupportedFormats struct {
	Extensions    []string
	MaxFileSize   int64
	MaxFileSizeMB float64
}

// Formats returns the supported formats for the given size limit.
func Formats(maxFileSize int64) SupportedFormats {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return SupportedFormats{
		Extensions:    append([]string(nil), SupportedExtensions...),
		MaxFileSize:   maxFileSize,
		MaxFileSizeMB: float64(maxFileSize) / (1024 * 1024),
	}
}

// extensionOf returns the lower-cased extension without the dot.
func extensionOf(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// mimeTypeFor returns the media type for a supported file, or "" if unsupported.
func mimeTypeFor(filename string) string {
	return mimeTypes[extensionOf(filename)]
}
