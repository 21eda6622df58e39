// Package validate provides functions to validate file uploads and metadata.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

// Uploaded evidence tops out well below this; anything bigger is a mistake
// or abuse, not a claim photo.
const MaxFileBytes = 10 << 20

var folderRx = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

var allowedContentTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/webp":               true,
	"application/pdf":          true,
	"text/plain":               true,
	"application/octet-stream": true,
}

// FolderOK checks that the target folder is a single path-safe segment.
func FolderOK(folder string) error {
	if !folderRx.MatchString(folder) {
		return errors.New("invalid folder: " + folder)
	}
	return nil
}

// ContentTypeOK checks the declared content type against the allow list.
func ContentTypeOK(ct string) error {
	if !allowedContentTypes[strings.TrimSpace(strings.ToLower(ct))] {
		return errors.New("unsupported content type: " + ct)
	}
	return nil
}

// SizeOK checks the decoded file size against the upload cap.
func SizeOK(n int) error {
	if n == 0 {
		return errors.New("empty file")
	}
	if n > MaxFileBytes {
		return errors.New("file too large")
	}
	return nil
}

// FileNameOK checks that a supplied file name has no path separators.
func FileNameOK(name string) error {
	if strings.ContainsAny(name, "/\\") {
		return errors.New("invalid file name: " + name)
	}
	return nil
}
