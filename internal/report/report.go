// Package report aggregates a run's outcome into a summary that can be
// logged, rendered as a table, or persisted to the catalog.
package report

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"takesort/internal/logging"
	"takesort/internal/media"
)

// Summary captures the counts a run produces.
type Summary struct {
	RunID               string    `json:"run_id"`
	SourceDir           string    `json:"source_dir"`
	OutputDir           string    `json:"output_dir"`
	StartedAt           time.Time `json:"started_at"`
	FinishedAt          time.Time `json:"finished_at"`
	TotalMedia          int       `json:"total_media"`
	MatchedSidecar      int       `json:"matched_sidecar"`
	MatchedFuzzy        int       `json:"matched_fuzzy"`
	MatchedFilename     int       `json:"matched_filename"`
	UnmatchedMedia      []string  `json:"unmatched_media"`
	UnmatchedSidecars   []string  `json:"unmatched_sidecars"`
	ExtensionMismatches int       `json:"extension_mismatches"`
	DuplicatesRemoved   int       `json:"duplicates_removed"`
	FilesCopied         int       `json:"files_copied"`
	EmbedFailures       int       `json:"embed_failures"`
}

// FromFiles tallies match provenance across the surviving files and records
// the paths that never found a sidecar or a date.
func FromFiles(runID string, files []*media.File, sidecars *media.SidecarSet) *Summary {
	s := &Summary{RunID: runID, TotalMedia: len(files)}
	for _, f := range files {
		switch f.Match.Kind {
		case media.MatchJSONFile, media.MatchDirectoryName:
			s.MatchedSidecar++
		case media.MatchFuzzy:
			s.MatchedFuzzy++
		case media.MatchFileName:
			s.MatchedFilename++
		default:
			s.UnmatchedMedia = append(s.UnmatchedMedia, f.SourcePath)
		}
	}
	sort.Strings(s.UnmatchedMedia)
	if sidecars != nil {
		s.UnmatchedSidecars = sidecars.Paths()
	}
	return s
}

// Duration reports elapsed wall time, or zero when the run never finished.
func (s *Summary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Rows returns label/value pairs for table rendering.
func (s *Summary) Rows() [][]string {
	rows := [][]string{
		{"Run", s.RunID},
		{"Media files", fmt.Sprintf("%d", s.TotalMedia)},
		{"Matched by sidecar", fmt.Sprintf("%d", s.MatchedSidecar)},
		{"Matched by fuzzy search", fmt.Sprintf("%d", s.MatchedFuzzy)},
		{"Date inferred from name", fmt.Sprintf("%d", s.MatchedFilename)},
		{"Unmatched media", fmt.Sprintf("%d", len(s.UnmatchedMedia))},
		{"Unmatched sidecars", fmt.Sprintf("%d", len(s.UnmatchedSidecars))},
		{"Extension corrections", fmt.Sprintf("%d", s.ExtensionMismatches)},
		{"Duplicates removed", fmt.Sprintf("%d", s.DuplicatesRemoved)},
		{"Files copied", fmt.Sprintf("%d", s.FilesCopied)},
		{"Embed failures", fmt.Sprintf("%d", s.EmbedFailures)},
	}
	if d := s.Duration(); d > 0 {
		rows = append(rows, []string{"Elapsed", d.Round(time.Millisecond).String()})
	}
	return rows
}

// Log emits the summary counts through the structured logger.
func (s *Summary) Log(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("run complete",
		logging.String(logging.FieldRunID, s.RunID),
		logging.Int("total_media", s.TotalMedia),
		logging.Int("matched_sidecar", s.MatchedSidecar),
		logging.Int("matched_fuzzy", s.MatchedFuzzy),
		logging.Int("matched_filename", s.MatchedFilename),
		logging.Int("unmatched_media", len(s.UnmatchedMedia)),
		logging.Int("unmatched_sidecars", len(s.UnmatchedSidecars)),
		logging.Int("extension_mismatches", s.ExtensionMismatches),
		logging.Int("duplicates_removed", s.DuplicatesRemoved),
		logging.Int("files_copied", s.FilesCopied),
		logging.Int("embed_failures", s.EmbedFailures),
	)
	for _, path := range s.UnmatchedMedia {
		logger.Warn("media without sidecar or date", logging.String(logging.FieldMedia, path))
	}
	for _, path := range s.UnmatchedSidecars {
		logger.Warn("sidecar without media", logging.String(logging.FieldSidecar, path))
	}
}
