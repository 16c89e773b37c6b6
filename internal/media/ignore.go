package media

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// Takeout exports carry bookkeeping JSON that never belongs to a single
// media file. Both lists match case-insensitively and apply during
// enumeration, fuzzy-match directory listing, and classification.
var ignoredFiles = map[string]struct{}{
	"metadata.json":                     {},
	"shared_album_comments.json":        {},
	"user-generated-memory-titles.json": {},
	"print-subscriptions.json":          {},
}

var ignoredExtensions = map[string]struct{}{
	"html": {},
}

// IgnoredFile reports whether the given base name is on the exclusion list.
func IgnoredFile(name string) bool {
	_, ok := ignoredFiles[cases.Fold().String(name)]
	return ok
}

// IgnoredExtension reports whether a path's extension is on the exclusion
// list. Paths without an extension are never ignored by this rule.
func IgnoredExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	_, ok := ignoredExtensions[cases.Fold().String(ext)]
	return ok
}
