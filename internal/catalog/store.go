package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"takesort/internal/media"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; a mismatched database must be
// deleted and recreated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one pipeline execution's persisted outcome.
type Run struct {
	ID                  string
	SourceDir           string
	OutputDir           string
	StartedAt           time.Time
	FinishedAt          time.Time
	MatchedSidecar      int
	MatchedFuzzy        int
	MatchedFilename     int
	UnmatchedMedia      int
	UnmatchedSidecars   int
	ExtensionMismatches int
	DuplicatesRemoved   int
	FilesCopied         int
	EmbedFailures       int
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete the catalog file)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordRun persists a run and its surviving files in one transaction.
func (s *Store) RecordRun(ctx context.Context, run *Run, files []*media.File) error {
	if run == nil {
		return errors.New("run is nil")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, source_dir, output_dir, started_at, finished_at,
            matched_sidecar, matched_fuzzy, matched_filename,
            unmatched_media, unmatched_sidecars, extension_mismatches,
            duplicates_removed, files_copied, embed_failures
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.SourceDir,
		run.OutputDir,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.MatchedSidecar,
		run.MatchedFuzzy,
		run.MatchedFilename,
		run.UnmatchedMedia,
		run.UnmatchedSidecars,
		run.ExtensionMismatches,
		run.DuplicatesRemoved,
		run.FilesCopied,
		run.EmbedFailures,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (
            run_id, source_path, destination_path, category,
            provenance, fuzzy_score, sidecar_path, inferred_date
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			f.SourcePath,
			nullableString(f.Destination),
			nullableString(string(f.Category)),
			string(f.Match.Kind),
			nullableScore(f.Match),
			nullableString(f.SidecarPath),
			nullableDate(f.CreationDate),
		)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", f.SourcePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when the catalog is
// empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_dir, output_dir, started_at, finished_at,
            matched_sidecar, matched_fuzzy, matched_filename,
            unmatched_media, unmatched_sidecars, extension_mismatches,
            duplicates_removed, files_copied, embed_failures
        FROM runs ORDER BY started_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	return run, nil
}

// FileCount returns the number of file rows recorded for a run.
func (s *Store) FileCount(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM files WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count run files: %w", err)
	}
	return count, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourceDir,
		&run.OutputDir,
		&startedRaw,
		&finishedRaw,
		&run.MatchedSidecar,
		&run.MatchedFuzzy,
		&run.MatchedFilename,
		&run.UnmatchedMedia,
		&run.UnmatchedSidecars,
		&run.ExtensionMismatches,
		&run.DuplicatesRemoved,
		&run.FilesCopied,
		&run.EmbedFailures,
	); err != nil {
		return nil, err
	}
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := time.Parse(time.RFC3339Nano, finishedRaw); err == nil {
		run.FinishedAt = finished
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableScore(p media.Provenance) any {
	if p.Kind != media.MatchFuzzy {
		return nil
	}
	return p.Score
}

func nullableDate(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.Format(time.RFC3339)
}
