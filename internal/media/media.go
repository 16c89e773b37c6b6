package media

import (
	"path/filepath"
	"strings"
	"time"
)

// MatchKind identifies how a media file's sidecar or date was resolved.
type MatchKind string

const (
	// MatchNone marks a file that no tier has resolved yet.
	MatchNone MatchKind = "none"
	// MatchJSONFile marks a direct candidate-path sidecar match.
	MatchJSONFile MatchKind = "json_file"
	// MatchFileName marks a date inferred from the filename.
	MatchFileName MatchKind = "file_name"
	// MatchDirectoryName is part of the model but no tier produces it.
	MatchDirectoryName MatchKind = "directory_name"
	// MatchFuzzy marks a sidecar bound through fuzzy filename similarity.
	MatchFuzzy MatchKind = "fuzzy"
)

// Provenance records the tier that resolved a file. Score is populated only
// for MatchFuzzy and ranges 0-100.
type Provenance struct {
	Kind  MatchKind
	Score int
}

// Category is the destination bucket a media file is routed to. It
// determines both the output folder and duplicate-retention priority.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryShared  Category = "shared"
	CategoryAlbums  Category = "albums"
)

// Priority orders categories for duplicate retention: albums beat shared,
// shared beats general.
func (c Category) Priority() int {
	switch c {
	case CategoryAlbums:
		return 2
	case CategoryShared:
		return 1
	default:
		return 0
	}
}

// File is one discovered media file moving through the pipeline. The source
// path is its identity and never changes; the remaining fields are filled in
// as the stages run: unmatched -> matched/dated -> classified -> copied.
type File struct {
	SourcePath   string
	SidecarPath  string
	Destination  string
	Category     Category
	CreationDate time.Time
	Match        Provenance
}

// Resolved reports whether the file carries either a sidecar binding or an
// inferred creation date.
func (f *File) Resolved() bool {
	return f.SidecarPath != "" || !f.CreationDate.IsZero()
}

// Extension returns the file's extension without the leading dot, lowered.
// Empty when the source path has no extension.
func (f *File) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.SourcePath), "."))
}
