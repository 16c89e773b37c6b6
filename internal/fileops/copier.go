package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"takesort/internal/logging"
	"takesort/internal/media"
)

// Copier streams media files to their destinations. A destination collision
// gets an incrementing "_<n>" disambiguator inserted before the extension;
// the counter is global to the run, matching the export's own collision
// behavior, and the updated path is written back onto the file.
type Copier struct {
	logger     *slog.Logger
	collisions int
}

// NewCopier constructs a copier.
func NewCopier(logger *slog.Logger) *Copier {
	return &Copier{logger: logging.NewComponentLogger(logger, "copy")}
}

// CopyAll copies every file in order, creating destination parents as
// needed. Each file's Destination field is final after this returns.
func (c *Copier) CopyAll(ctx context.Context, files []*media.File) error {
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Destination == "" {
			return fmt.Errorf("copy %s: no destination assigned", f.SourcePath)
		}
		if err := os.MkdirAll(filepath.Dir(f.Destination), 0o755); err != nil {
			return fmt.Errorf("create destination directory: %w", err)
		}
		if exists(f.Destination) {
			f.Destination = c.disambiguate(f.Destination)
		}
		if err := copyFile(f.SourcePath, f.Destination); err != nil {
			return fmt.Errorf("copy %s: %w", f.SourcePath, err)
		}
		if (i+1)%500 == 0 {
			c.logger.Info("copy progress", logging.Int("copied", i+1), logging.Int("total", len(files)))
		}
	}
	c.logger.Info("copy completed", logging.Int("files", len(files)))
	return nil
}

func (c *Copier) disambiguate(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	renamed := fmt.Sprintf("%s_%d%s", stem, c.collisions, ext)
	c.collisions++
	c.logger.Info("destination collision",
		logging.String("path", path),
		logging.String("renamed", renamed),
	)
	return renamed
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// copyFile streams src to dst with default permissions (0o644).
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
