package matcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/sync/errgroup"

	"takesort/internal/logging"
	"takesort/internal/media"
)

// dirCache lazily lists the sidecar filenames of each directory once per
// run. Built under the write lock, read-shared afterwards.
type dirCache struct {
	mu      sync.RWMutex
	entries map[string][]string
}

func newDirCache() *dirCache {
	return &dirCache{entries: make(map[string][]string)}
}

func (c *dirCache) names(dir string) ([]string, error) {
	c.mu.RLock()
	names, ok := c.entries[dir]
	c.mu.RUnlock()
	if ok {
		return names, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if names, ok := c.entries[dir]; ok {
		return names, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names = make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if media.IgnoredFile(name) {
			continue
		}
		if filepath.Ext(name) == "" || media.IgnoredExtension(name) {
			continue
		}
		if strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	c.entries[dir] = names
	return names, nil
}

// matchFuzzy is tier 2: score each still-unmatched filename against the
// sidecar names in its own directory and bind the best match at or above
// the threshold. Files are processed concurrently; two files racing for the
// same sidecar both bind it, but only the first removes it from the
// outstanding set. That nondeterminism is inherited from the matching rules
// and is acceptable: the sidecar genuinely describes both files or neither.
func (m *Matcher) matchFuzzy(ctx context.Context, files []*media.File, sidecars *media.SidecarSet) error {
	logger := m.logger.With(logging.String(logging.FieldTier, "fuzzy"))
	cache := newDirCache()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, f := range files {
		if f.Match.Kind != media.MatchNone {
			continue
		}
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dir := filepath.Dir(f.SourcePath)
			names, err := cache.names(dir)
			if err != nil {
				logger.Warn("cannot list directory for fuzzy matching",
					logging.String(logging.FieldDirectory, dir),
					logging.Error(err),
				)
				return nil
			}
			name := filepath.Base(f.SourcePath)
			best, score := extractOne(name, names, m.threshold)
			if best == "" {
				logger.Debug("no fuzzy candidate met threshold", logging.String(logging.FieldMedia, f.SourcePath))
				return nil
			}
			path := filepath.Join(dir, best)
			sidecars.Claim(path)
			f.SidecarPath = path
			f.Match = media.Provenance{Kind: media.MatchFuzzy, Score: score}
			logger.Debug("fuzzy match accepted",
				logging.String(logging.FieldMedia, f.SourcePath),
				logging.String(logging.FieldSidecar, path),
				logging.Int(logging.FieldScore, score),
			)
			return nil
		})
	}
	return g.Wait()
}

// extractOne returns the highest-scoring choice and its weighted-ratio
// score, or "" when nothing reaches cutoff. A score equal to cutoff is
// accepted.
func extractOne(query string, choices []string, cutoff int) (string, int) {
	if fuzzy.Cleanse(query, false) == "" {
		return "", 0
	}
	best := ""
	bestScore := 0
	for _, choice := range choices {
		score := fuzzy.WRatio(query, choice)
		if score > bestScore {
			best, bestScore = choice, score
		}
	}
	if bestScore < cutoff {
		return "", 0
	}
	return best, bestScore
}
