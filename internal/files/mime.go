package files

import "strings"

// mimeTypes maps a lowercased filename extension (with leading dot) to the
// Content-Type served for it.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".zip":  "application/zip",
	".rar":  "application/vnd.rar",
}

// ContentTypeForExtension returns the MIME type for an extension, falling
// back to a generic binary type.
func ContentTypeForExtension(ext string) string {
	if contentType, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// IsInlineType reports whether a content type is safe to render inline in
// a browser rather than forcing a download.
func IsInlineType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "video/") ||
		strings.HasPrefix(contentType, "audio/") ||
		contentType == "application/pdf"
}
