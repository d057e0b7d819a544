package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Upload folders accepted by POST /upload.
const (
	FolderEvents        = "events"
	FolderTeam          = "team"
	FolderPayment       = "payment"
	FolderRegistrations = "registrations"
	FolderGallery       = "gallery"
	FolderHero          = "hero"
	FolderContent       = "content"
)

var allowedFolders = map[string]bool{
	FolderEvents:        true,
	FolderTeam:          true,
	FolderPayment:       true,
	FolderRegistrations: true,
	FolderGallery:       true,
	FolderHero:          true,
	FolderContent:       true,
}

// Allowed media MIME types and extensions.
var (
	AllowedMediaTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
		"video/mp4":  ".mp4",
		"video/webm": ".webm",
		"video/ogg":  ".ogg",
	}
	AllowedMediaExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".gif":  "image/gif",
		".mp4":  "video/mp4",
		".webm": "video/webm",
		".ogg":  "video/ogg",
	}
)

// ValidFolder reports whether folder is an accepted upload folder.
func ValidFolder(folder string) bool {
	return allowedFolders[folder]
}

// ValidateMediaFile returns true if the content type and/or extension are allowed.
func ValidateMediaFile(contentType, filename string) bool {
	if ct := strings.ToLower(strings.TrimSpace(contentType)); ct != "" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		if _, ok := AllowedMediaTypes[ct]; ok {
			return true
		}
	}
	_, ok := AllowedMediaExtensions[strings.ToLower(path.Ext(filename))]
	return ok
}

// ExtensionFor picks the object extension: the filename's when allowed, else the content type's.
func ExtensionFor(contentType, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == ".jpeg" {
		return ".jpg"
	}
	if _, ok := AllowedMediaExtensions[ext]; ok {
		return ext
	}
	return AllowedMediaTypes[strings.ToLower(contentType)]
}

// ContentTypeForExtension returns the MIME type for ext.
func ContentTypeForExtension(ext string) string {
	if ct, ok := AllowedMediaExtensions[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// MediaKey returns the object key for a new upload: {folder}/{uuid}{ext}.
func MediaKey(folder, ext string) string {
	return path.Join(folder, uuid.New().String()+ext)
}
