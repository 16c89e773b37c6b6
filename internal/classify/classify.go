package classify

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"takesort/internal/logging"
	"takesort/internal/media"
	"takesort/internal/sniff"
)

// Classifier routes media files to general/albums/shared destination trees.
// Category assignment is pure path inspection; extension correction shells
// out to the type sniffer, serially per file.
type Classifier struct {
	outputDir  string
	sniffer    *sniff.Sniffer
	logger     *slog.Logger
	mismatches int
}

// New constructs a classifier rooted at outputDir.
func New(outputDir string, sniffer *sniff.Sniffer, logger *slog.Logger) *Classifier {
	return &Classifier{
		outputDir: outputDir,
		sniffer:   sniffer,
		logger:    logging.NewComponentLogger(logger, "classify"),
	}
}

// ExtensionMismatches reports how many destination extensions were rewritten
// to a different value than the source carried. Observability only.
func (c *Classifier) ExtensionMismatches() int {
	return c.mismatches
}

// Classify assigns the category and destination path, then corrects the
// destination extension. Re-running it for the same inputs yields the same
// destination: everything is derived from the source path and sniffed type.
func (c *Classifier) Classify(ctx context.Context, f *media.File) error {
	c.assignDestination(f)
	return c.correctExtension(ctx, f)
}

// assignDestination inspects the immediate parent directory name only.
// Albums keep that one directory level beneath the albums root; deeper
// nesting is deliberately flattened.
func (c *Classifier) assignDestination(f *media.File) {
	parent := filepath.Base(filepath.Dir(f.SourcePath))
	name := filepath.Base(f.SourcePath)

	switch {
	case parent == "Archive":
		f.Category = media.CategoryGeneral
		f.Destination = filepath.Join(c.outputDir, "general", name)
	case isPhotosFromYear(parent):
		f.Category = media.CategoryGeneral
		f.Destination = filepath.Join(c.outputDir, "general", name)
	case parent == "Untitled" || strings.HasPrefix(parent, "Untitled("):
		f.Category = media.CategoryShared
		f.Destination = filepath.Join(c.outputDir, "shared", "shared", name)
	default:
		f.Category = media.CategoryAlbums
		f.Destination = filepath.Join(c.outputDir, "albums", parent, name)
	}
}

// isPhotosFromYear matches exactly "Photos from YYYY".
func isPhotosFromYear(name string) bool {
	const prefix = "Photos from "
	if !strings.HasPrefix(name, prefix) || len(name) != len(prefix)+4 {
		return false
	}
	for _, r := range name[len(prefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
