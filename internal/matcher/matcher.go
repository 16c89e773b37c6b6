package matcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"takesort/internal/logging"
	"takesort/internal/media"
	"takesort/internal/sidecar"
)

// Matcher resolves sidecar bindings and creation dates for scanned media.
type Matcher struct {
	threshold int
	workers   int
	logger    *slog.Logger
}

// New constructs a matcher. threshold is the minimum fuzzy score (0-100)
// and workers bounds tier-2 concurrency.
func New(threshold, workers int, logger *slog.Logger) *Matcher {
	if threshold < 1 {
		threshold = 90
	}
	if workers < 1 {
		workers = 1
	}
	return &Matcher{
		threshold: threshold,
		workers:   workers,
		logger:    logging.NewComponentLogger(logger, "matcher"),
	}
}

// Resolve runs the three tiers in order over files. Tier 1 fully completes,
// deferred sibling exclusions included, before tier 2 starts; tier 2 joins
// before tier 3. Failures to resolve a file are not errors; the file simply
// stays unmatched.
func (m *Matcher) Resolve(ctx context.Context, files []*media.File, sidecars *media.SidecarSet) error {
	m.matchDirect(files, sidecars)
	if err := m.matchFuzzy(ctx, files, sidecars); err != nil {
		return err
	}
	m.inferDates(files)
	return nil
}

// matchDirect is tier 1: probe the generated candidate paths in order and
// bind the first that exists on disk. Live-photo videos (an mp4 next to a
// heic/jpg that just matched) share the photo's sidecar; they are recorded
// into a deferred map during the pass and bound afterwards so the pass
// itself never resolves a file out of order.
func (m *Matcher) matchDirect(files []*media.File, sidecars *media.SidecarSet) {
	logger := m.logger.With(logging.String(logging.FieldTier, "direct"))
	deferred := make(map[string]string)

	for _, f := range files {
		if f.Match.Kind != media.MatchNone {
			continue
		}
		if _, isSibling := deferred[f.SourcePath]; isSibling {
			continue
		}
		ext := f.Extension()
		if ext == "" || ext == "json" {
			continue
		}
		for _, candidate := range sidecar.Candidates(f.SourcePath) {
			if !fileExists(candidate) {
				continue
			}
			f.SidecarPath = candidate
			f.Match = media.Provenance{Kind: media.MatchJSONFile}
			sidecars.Claim(candidate)
			logger.Debug("sidecar matched",
				logging.String(logging.FieldMedia, f.SourcePath),
				logging.String(logging.FieldSidecar, candidate),
			)
			if ext == "heic" || ext == "jpg" {
				for _, sibling := range []string{withExtension(f.SourcePath, "MP4"), withExtension(f.SourcePath, "mp4")} {
					if fileExists(sibling) {
						deferred[sibling] = candidate
					}
				}
			}
			break
		}
	}

	for _, f := range files {
		if f.Match.Kind != media.MatchNone {
			continue
		}
		if sidecarPath, ok := deferred[f.SourcePath]; ok {
			f.SidecarPath = sidecarPath
			f.Match = media.Provenance{Kind: media.MatchJSONFile}
			logger.Debug("paired video bound to photo sidecar",
				logging.String(logging.FieldMedia, f.SourcePath),
				logging.String(logging.FieldSidecar, sidecarPath),
			)
		}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// withExtension replaces the final extension of path, mirroring the pairing
// convention where IMG_0001.HEIC sits next to IMG_0001.MP4.
func withExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
