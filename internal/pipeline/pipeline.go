// Package pipeline sequences a full archive run: scan, match, classify,
// dedupe, copy, embed, report.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"takesort/internal/catalog"
	"takesort/internal/classify"
	"takesort/internal/config"
	"takesort/internal/dedup"
	"takesort/internal/embed"
	"takesort/internal/fileops"
	"takesort/internal/logging"
	"takesort/internal/matcher"
	"takesort/internal/media"
	"takesort/internal/report"
	"takesort/internal/scanner"
	"takesort/internal/services"
	"takesort/internal/sniff"
)

// lockFileName guards the output tree against concurrent runs.
const lockFileName = ".takesort.lock"

// Option adjusts pipeline construction.
type Option func(*Pipeline)

// WithSnifferRunner injects a type-sniffer runner (primarily for tests).
func WithSnifferRunner(r sniff.Runner) Option {
	return func(p *Pipeline) { p.snifferRunner = r }
}

// WithEmbedRunner injects an exiftool runner (primarily for tests).
func WithEmbedRunner(r embed.Runner) Option {
	return func(p *Pipeline) { p.embedRunner = r }
}

// Pipeline owns one run's collaborators and configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *catalog.Store

	snifferRunner sniff.Runner
	embedRunner   embed.Runner
}

// New constructs a pipeline. store may be nil, in which case the run is not
// persisted to the catalog.
func New(cfg *config.Config, logger *slog.Logger, store *catalog.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		store:  store,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline against the configured source and output
// directories and returns the resulting summary.
func (p *Pipeline) Run(ctx context.Context) (*report.Summary, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With(logging.String(logging.FieldRunID, runID))

	release, err := p.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	logger.Info("run starting",
		logging.String("source", p.cfg.Paths.SourceDir),
		logging.String("output", p.cfg.Paths.OutputDir),
	)

	scanned, err := scanner.Scan(p.cfg.Paths.SourceDir, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "enumerate archive", p.cfg.Paths.SourceDir, err)
	}

	m := matcher.New(p.cfg.Matcher.FuzzyThreshold, p.cfg.Matcher.FuzzyWorkers, logger)
	if err := m.Resolve(ctx, scanned.Media, scanned.Sidecars); err != nil {
		return nil, err
	}

	classifier, err := p.newClassifier(logger)
	if err != nil {
		return nil, err
	}
	for _, f := range scanned.Media {
		if err := classifier.Classify(ctx, f); err != nil {
			return nil, err
		}
	}

	survivors, removed, err := dedup.Dedupe(ctx, scanned.Media, dedup.Options{
		BatchSize:  p.cfg.Dedup.BatchSize,
		BufferSize: p.cfg.Dedup.HashBuffer,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	copier := fileops.NewCopier(logger)
	if err := copier.CopyAll(ctx, survivors); err != nil {
		return nil, err
	}

	embedFailures, err := p.embedAll(ctx, logger, survivors)
	if err != nil {
		return nil, err
	}

	summary := report.FromFiles(runID, survivors, scanned.Sidecars)
	summary.SourceDir = p.cfg.Paths.SourceDir
	summary.OutputDir = p.cfg.Paths.OutputDir
	summary.StartedAt = started
	summary.FinishedAt = time.Now()
	summary.ExtensionMismatches = classifier.ExtensionMismatches()
	summary.DuplicatesRemoved = removed
	summary.FilesCopied = len(survivors)
	summary.EmbedFailures = embedFailures
	summary.Log(logger)

	if p.store != nil {
		if err := p.recordRun(ctx, summary, survivors); err != nil {
			logger.Warn("catalog record failed", logging.Error(err))
		}
	}
	return summary, nil
}

// acquireLock takes the output-tree lock without blocking; a held lock means
// another run is in flight.
func (p *Pipeline) acquireLock() (func(), error) {
	lock := flock.New(filepath.Join(p.cfg.Paths.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "acquire lock", lock.Path(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "acquire lock",
			"another run holds "+lock.Path(), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (p *Pipeline) newClassifier(logger *slog.Logger) (*classify.Classifier, error) {
	var opts []sniff.Option
	if p.snifferRunner != nil {
		opts = append(opts, sniff.WithRunner(p.snifferRunner))
	}
	sniffer, err := sniff.New(p.cfg.Tools.FileCommand, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "classify", "construct sniffer", "", err)
	}
	return classify.New(p.cfg.Paths.OutputDir, sniffer, logger), nil
}

// embedAll applies sidecar dates to every copied file. Per-file failures are
// logged and counted rather than aborting the run; the copies already exist.
func (p *Pipeline) embedAll(ctx context.Context, logger *slog.Logger, files []*media.File) (int, error) {
	var opts []embed.Option
	if p.embedRunner != nil {
		opts = append(opts, embed.WithRunner(p.embedRunner))
	}
	embedder, err := embed.New(p.cfg.Tools.ExiftoolCommand, logger, opts...)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "embed", "construct embedder", "", err)
	}

	failures := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		if err := embedder.Apply(ctx, f); err != nil {
			failures++
			logger.Warn("embed failed",
				logging.String(logging.FieldMedia, f.Destination),
				logging.Error(err),
			)
		}
	}
	return failures, nil
}

func (p *Pipeline) recordRun(ctx context.Context, summary *report.Summary, files []*media.File) error {
	run := &catalog.Run{
		ID:                  summary.RunID,
		SourceDir:           summary.SourceDir,
		OutputDir:           summary.OutputDir,
		StartedAt:           summary.StartedAt,
		FinishedAt:          summary.FinishedAt,
		MatchedSidecar:      summary.MatchedSidecar,
		MatchedFuzzy:        summary.MatchedFuzzy,
		MatchedFilename:     summary.MatchedFilename,
		UnmatchedMedia:      len(summary.UnmatchedMedia),
		UnmatchedSidecars:   len(summary.UnmatchedSidecars),
		ExtensionMismatches: summary.ExtensionMismatches,
		DuplicatesRemoved:   summary.DuplicatesRemoved,
		FilesCopied:         summary.FilesCopied,
		EmbedFailures:       summary.EmbedFailures,
	}
	return p.store.RecordRun(ctx, run, files)
}
