package matcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"takesort/internal/logging"
	"takesort/internal/matcher"
	"takesort/internal/media"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolveDirectSidecarMatch(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "IMG_0001.jpg")
	sidecarPath := filepath.Join(dir, "IMG_0001.jpg.json")
	writeFile(t, mediaPath)
	writeFile(t, sidecarPath)

	f := &media.File{SourcePath: mediaPath, Match: media.Provenance{Kind: media.MatchNone}}
	sidecars := media.NewSidecarSet()
	sidecars.Add(sidecarPath)

	m := matcher.New(90, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{f}, sidecars); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if f.Match.Kind != media.MatchJSONFile {
		t.Fatalf("Match.Kind = %q, want json_file", f.Match.Kind)
	}
	if f.SidecarPath != sidecarPath {
		t.Fatalf("SidecarPath = %q, want %q", f.SidecarPath, sidecarPath)
	}
	if sidecars.Len() != 0 {
		t.Fatalf("sidecar should be claimed, %d left", sidecars.Len())
	}
}

func TestResolveBracketCounterMatch(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "photo(2).jpg")
	sidecarPath := filepath.Join(dir, "photo.jpg(2).json")
	writeFile(t, mediaPath)
	writeFile(t, sidecarPath)

	f := &media.File{SourcePath: mediaPath, Match: media.Provenance{Kind: media.MatchNone}}
	sidecars := media.NewSidecarSet()
	sidecars.Add(sidecarPath)

	m := matcher.New(90, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{f}, sidecars); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.SidecarPath != sidecarPath {
		t.Fatalf("SidecarPath = %q, want reordered bracket sidecar", f.SidecarPath)
	}
}

func TestResolvePairedVideoSharesPhotoSidecar(t *testing.T) {
	dir := t.TempDir()
	photoPath := filepath.Join(dir, "IMG_0002.HEIC")
	videoPath := filepath.Join(dir, "IMG_0002.MP4")
	sidecarPath := filepath.Join(dir, "IMG_0002.HEIC.json")
	writeFile(t, photoPath)
	writeFile(t, videoPath)
	writeFile(t, sidecarPath)

	photo := &media.File{SourcePath: photoPath, Match: media.Provenance{Kind: media.MatchNone}}
	video := &media.File{SourcePath: videoPath, Match: media.Provenance{Kind: media.MatchNone}}
	sidecars := media.NewSidecarSet()
	sidecars.Add(sidecarPath)

	m := matcher.New(90, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{photo, video}, sidecars); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if photo.SidecarPath != sidecarPath {
		t.Fatalf("photo sidecar = %q", photo.SidecarPath)
	}
	if video.SidecarPath != sidecarPath {
		t.Fatalf("video should share the photo sidecar, got %q", video.SidecarPath)
	}
	if video.Match.Kind != media.MatchJSONFile {
		t.Fatalf("video Match.Kind = %q, want json_file", video.Match.Kind)
	}
}

func TestResolveFuzzyMatch(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "PXL_20210101_123456789.jpg")
	sidecarPath := filepath.Join(dir, "PXL_20210101_123456789.jpg.supplemental-metad.json")
	writeFile(t, mediaPath)
	writeFile(t, sidecarPath)

	f := &media.File{SourcePath: mediaPath, Match: media.Provenance{Kind: media.MatchNone}}
	sidecars := media.NewSidecarSet()
	sidecars.Add(sidecarPath)

	m := matcher.New(60, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{f}, sidecars); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if f.Match.Kind != media.MatchFuzzy {
		t.Fatalf("Match.Kind = %q, want fuzzy", f.Match.Kind)
	}
	if f.SidecarPath != sidecarPath {
		t.Fatalf("SidecarPath = %q, want %q", f.SidecarPath, sidecarPath)
	}
	if f.Match.Score < 60 {
		t.Fatalf("Score = %d, want >= threshold", f.Match.Score)
	}
}

func TestResolveDateFromFilename(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "20210314_123456.jpg")
	writeFile(t, mediaPath)

	f := &media.File{SourcePath: mediaPath, Match: media.Provenance{Kind: media.MatchNone}}
	m := matcher.New(90, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{f}, media.NewSidecarSet()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if f.Match.Kind != media.MatchFileName {
		t.Fatalf("Match.Kind = %q, want file_name", f.Match.Kind)
	}
	if got := f.CreationDate.Format("2006-01-02"); got != "2021-03-14" {
		t.Fatalf("CreationDate = %s, want 2021-03-14", got)
	}
}

func TestResolveSeparatedDateFromFilename(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "2021-03-14 party.jpg")
	writeFile(t, mediaPath)

	f := &media.File{SourcePath: mediaPath, Match: media.Provenance{Kind: media.MatchNone}}
	m := matcher.New(90, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{f}, media.NewSidecarSet()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Match.Kind != media.MatchFileName {
		t.Fatalf("Match.Kind = %q, want file_name", f.Match.Kind)
	}
}

func TestResolveLeavesUnmatchableAlone(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "holiday snapshot.jpg")
	writeFile(t, mediaPath)

	f := &media.File{SourcePath: mediaPath, Match: media.Provenance{Kind: media.MatchNone}}
	m := matcher.New(90, 2, logging.NewNop())
	if err := m.Resolve(context.Background(), []*media.File{f}, media.NewSidecarSet()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Match.Kind != media.MatchNone {
		t.Fatalf("Match.Kind = %q, want none", f.Match.Kind)
	}
	if f.Resolved() {
		t.Fatal("file should remain unresolved")
	}
}
