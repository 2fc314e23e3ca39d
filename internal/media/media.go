// Package media classifies input files by extension. The planner only cares
// about the coarse kind (video or image); MIME types exist for the upload
// handler's response headers.
package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".wmv": {}, ".flv": {},
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".tiff": {}, ".webp": {},
}

var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// KindForFilename maps a filename to its media kind. The second return is
// false for unsupported extensions.
func KindForFilename(name string) (schemas.MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := videoExtensions[ext]; ok {
		return schemas.MediaVideo, true
	}
	if _, ok := imageExtensions[ext]; ok {
		return schemas.MediaImage, true
	}
	return "", false
}

// IsSupported reports whether the filename has a recognized media extension.
func IsSupported(name string) bool {
	_, ok := KindForFilename(name)
	return ok
}

// MIMEType returns the MIME type for the filename, falling back to a generic
// octet stream.
func MIMEType(name string) string {
	if m, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return m
	}
	return "application/octet-stream"
}

// FormatSize renders a byte count in human readable form.
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
