package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// UploadKeyPrefix namespaces every uploaded object.
const UploadKeyPrefix = "uploads/"

// UploadedFile describes an object written to the blob store.
type UploadedFile struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
}

// UploadKey builds the object key for filename as
// uploads/<epoch-millis>-<base name>.
func UploadKey(filename string, now time.Time) string {
	return fmt.Sprintf("%s%d-%s", UploadKeyPrefix, now.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename strips any directory components from a client supplied
// name. It returns an empty string when nothing usable remains.
func SanitizeFilename(filename string) string {
	name := strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/"))
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
