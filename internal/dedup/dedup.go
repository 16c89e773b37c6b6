package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"

	"takesort/internal/logging"
	"takesort/internal/media"
)

// Options tunes the hashing fan-out.
type Options struct {
	// BatchSize bounds in-flight hashes; each batch completes fully before
	// the next starts.
	BatchSize int
	// BufferSize is the per-file read buffer in bytes.
	BufferSize int
	Logger     *slog.Logger
}

// Dedupe hashes every file's content and drops duplicates, returning the
// surviving files and the number removed. Within a duplicate group the
// albums member is kept if present, else the shared member, else one of the
// general members. An unreadable file fails the whole run: partial hashes
// would silently keep duplicates.
func Dedupe(ctx context.Context, files []*media.File, opts Options) ([]*media.File, int, error) {
	logger := logging.NewComponentLogger(opts.Logger, "dedup")
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = 1024
	}
	bufferSize := opts.BufferSize
	if bufferSize < 1 {
		bufferSize = 1024
	}

	digests := make([]string, len(files))
	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}
		g, ctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				digest, err := hashFile(files[i].SourcePath, bufferSize)
				if err != nil {
					return fmt.Errorf("hash %s: %w", files[i].SourcePath, err)
				}
				digests[i] = digest
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
		logger.Debug("hash batch completed", logging.Int("hashed", end))
	}

	groups := make(map[string][]int, len(files))
	for i, digest := range digests {
		groups[digest] = append(groups[digest], i)
	}

	remove := make(map[int]struct{})
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(a, b int) bool {
			return files[members[a]].Category.Priority() > files[members[b]].Category.Priority()
		})
		for _, idx := range members[1:] {
			remove[idx] = struct{}{}
		}
	}

	if len(remove) == 0 {
		return files, 0, nil
	}
	survivors := make([]*media.File, 0, len(files)-len(remove))
	for i, f := range files {
		if _, dropped := remove[i]; dropped {
			logger.Debug("duplicate removed",
				logging.String(logging.FieldMedia, f.SourcePath),
				logging.String(logging.FieldCategory, string(f.Category)),
			)
			continue
		}
		survivors = append(survivors, f)
	}
	logger.Info("deduplication completed",
		logging.Int("files", len(files)),
		logging.Int("duplicates_removed", len(remove)),
	)
	return survivors, len(remove), nil
}

func hashFile(path string, bufferSize int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(hasher, file, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
