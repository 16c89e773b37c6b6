package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"takesort/internal/logging"
	"takesort/internal/media"
)

// EntryError records a single unreadable directory entry. Scanning continues
// past these; the caller decides whether the aggregate is acceptable.
type EntryError struct {
	Path string
	Err  error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Result is the enumerated archive: media files awaiting resolution and the
// set of sidecars not yet claimed by any of them.
type Result struct {
	Media    []*media.File
	Sidecars *media.SidecarSet
	Errors   []EntryError
}

// Scan walks root iteratively and classifies every regular file. Ignored
// filenames and extensions are dropped, names ending in .json become
// sidecar-set entries, and everything else becomes an unmatched media file.
// Unreadable subdirectories are collected into Result.Errors rather than
// aborting the walk; only an unreadable root is fatal.
func Scan(root string, logger *slog.Logger) (*Result, error) {
	logger = logging.NewComponentLogger(logger, "scanner")

	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("read source directory %q: %w", root, err)
	}

	result := &Result{Sidecars: media.NewSidecarSet()}
	worklist := []string{root}
	for len(worklist) > 0 {
		dir := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			result.Errors = append(result.Errors, EntryError{Path: dir, Err: err})
			logger.Warn("skipping unreadable directory", logging.String("directory", dir), logging.Error(err))
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				worklist = append(worklist, path)
				continue
			}
			if media.IgnoredFile(entry.Name()) || media.IgnoredExtension(path) {
				continue
			}
			if strings.HasSuffix(entry.Name(), ".json") {
				result.Sidecars.Add(path)
				continue
			}
			result.Media = append(result.Media, &media.File{
				SourcePath: path,
				Match:      media.Provenance{Kind: media.MatchNone},
			})
		}
	}

	logger.Info("archive enumerated",
		logging.String("root", root),
		logging.Int("media_files", len(result.Media)),
		logging.Int("sidecars", result.Sidecars.Len()),
		logging.Int("unreadable_entries", len(result.Errors)),
	)
	return result, nil
}
