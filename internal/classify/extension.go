package classify

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"takesort/internal/logging"
	"takesort/internal/media"
	"takesort/internal/services"
)

// extensionTable maps case-folded file(1) description substrings to the
// canonical extension. Checked in order; first hit wins.
var extensionTable = []struct {
	needle string
	ext    string
}{
	{"png image data", "png"},
	{"jpg image data", "jpg"},
	{"jpeg image data", "jpg"},
	{"gif image data", "gif"},
	{"heic image data", "heic"},
	{"iso media, heif image hevc main", "heic"},
	{"mp3 audio", "mp3"},
	{"apple quicktime movie", "mov"},
	{"mp4 video", "mp4"},
	{"iso media, mp4 v", "mp4"},
	{"iso media, mp4 base media v", "mp4"},
	{"iso media, mpeg-4", "mp4"},
	{"iso media, mpeg v", "mp4"},
	{"mov video", "mov"},
	{"3gp video", "3gp"},
	{"tiff image data", "tiff"},
	{"pc bitmap", "bmp"},
	{"apple itunes video (.m4v)", "m4v"},
	{"web/p image", "webp"},
	{"microsoft asf", "asf"},
	{"mpeg sequence", "mpeg"},
	{"avi", "avi"},
	{"canon cr2", "cr2"},
}

// Descriptions that keep the original extension: file(1) could not tell us
// anything better than what the export already claimed.
func keepsOriginalExtension(description string) bool {
	return strings.TrimSpace(description) == "data" ||
		strings.Contains(description, "ascii text") ||
		strings.Contains(description, "canon ciff raw image data")
}

// correctExtension rewrites the destination's extension to the canonical
// one for the file's sniffed type. MTS transport streams are excluded: the
// sniffer misreads them and the extension is already right. An unrecognized
// description aborts the run (ErrUnknownFileType).
func (c *Classifier) correctExtension(ctx context.Context, f *media.File) error {
	currentExt := strings.TrimPrefix(filepath.Ext(f.Destination), ".")
	if currentExt == "MTS" {
		return nil
	}

	raw, err := c.sniffer.Describe(ctx, f.SourcePath)
	if err != nil {
		return err
	}
	description := cases.Fold().String(raw)

	ext := ""
	for _, entry := range extensionTable {
		if strings.Contains(description, entry.needle) {
			ext = entry.ext
			break
		}
	}
	if ext == "" {
		if !keepsOriginalExtension(description) {
			return services.Wrap(services.ErrUnknownFileType, "classify", "correct extension",
				"description "+strings.TrimSpace(description)+" for "+f.SourcePath, nil)
		}
		if currentExt == "" {
			// Extensionless files should have been filtered before this point.
			return services.Wrap(services.ErrValidation, "classify", "correct extension",
				"no extension to retain for "+f.SourcePath, nil)
		}
		ext = currentExt
	}

	if !strings.EqualFold(currentExt, ext) {
		c.mismatches++
		c.logger.Info("extension mismatch",
			logging.String(logging.FieldMedia, f.SourcePath),
			logging.String("from", currentExt),
			logging.String("to", ext),
		)
	}
	f.Destination = strings.TrimSuffix(f.Destination, filepath.Ext(f.Destination)) + "." + ext
	return nil
}
