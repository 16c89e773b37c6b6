package classify_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"takesort/internal/classify"
	"takesort/internal/logging"
	"takesort/internal/media"
	"takesort/internal/services"
	"takesort/internal/sniff"
)

// fakeRunner maps source paths to canned file(1) output lines.
type fakeRunner struct {
	descriptions map[string]string
}

func (r fakeRunner) Output(_ context.Context, _ string, args ...string) ([]byte, error) {
	path := args[len(args)-1]
	description, ok := r.descriptions[path]
	if !ok {
		return nil, fmt.Errorf("no canned description for %s", path)
	}
	return []byte(path + ": " + description + "\n"), nil
}

func newClassifier(t *testing.T, outputDir string, descriptions map[string]string) *classify.Classifier {
	t.Helper()
	sniffer, err := sniff.New("file", sniff.WithRunner(fakeRunner{descriptions: descriptions}))
	if err != nil {
		t.Fatalf("sniff.New: %v", err)
	}
	return classify.New(outputDir, sniffer, logging.NewNop())
}

func TestClassifyDestinations(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		wantCategory media.Category
		wantDest     string
	}{
		{
			name:         "archive folder is general",
			source:       "/takeout/Archive/IMG_0001.jpg",
			wantCategory: media.CategoryGeneral,
			wantDest:     "out/general/IMG_0001.jpg",
		},
		{
			name:         "year folder is general",
			source:       "/takeout/Photos from 2020/IMG_0002.jpg",
			wantCategory: media.CategoryGeneral,
			wantDest:     "out/general/IMG_0002.jpg",
		},
		{
			name:         "untitled folder is shared",
			source:       "/takeout/Untitled/IMG_0003.jpg",
			wantCategory: media.CategoryShared,
			wantDest:     "out/shared/shared/IMG_0003.jpg",
		},
		{
			name:         "numbered untitled folder is shared",
			source:       "/takeout/Untitled(3)/IMG_0004.jpg",
			wantCategory: media.CategoryShared,
			wantDest:     "out/shared/shared/IMG_0004.jpg",
		},
		{
			name:         "named folder is an album",
			source:       "/takeout/Summer Trip/IMG_0005.jpg",
			wantCategory: media.CategoryAlbums,
			wantDest:     "out/albums/Summer Trip/IMG_0005.jpg",
		},
		{
			name:         "photos from prefix with extra text is an album",
			source:       "/takeout/Photos from the lake/IMG_0006.jpg",
			wantCategory: media.CategoryAlbums,
			wantDest:     "out/albums/Photos from the lake/IMG_0006.jpg",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClassifier(t, "out", map[string]string{
				tc.source: "JPEG image data, Exif standard",
			})
			f := &media.File{SourcePath: tc.source}
			if err := c.Classify(context.Background(), f); err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if f.Category != tc.wantCategory {
				t.Fatalf("Category = %q, want %q", f.Category, tc.wantCategory)
			}
			if f.Destination != filepath.FromSlash(tc.wantDest) {
				t.Fatalf("Destination = %q, want %q", f.Destination, tc.wantDest)
			}
		})
	}
}

func TestClassifyCorrectsExtension(t *testing.T) {
	source := "/takeout/Album/picture.jpg"
	c := newClassifier(t, "out", map[string]string{
		source: "PNG image data, 640 x 480, 8-bit/color RGBA",
	})
	f := &media.File{SourcePath: source}
	if err := c.Classify(context.Background(), f); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got := filepath.Ext(f.Destination); got != ".png" {
		t.Fatalf("Destination ext = %q, want .png", got)
	}
	if c.ExtensionMismatches() != 1 {
		t.Fatalf("ExtensionMismatches = %d, want 1", c.ExtensionMismatches())
	}
}

func TestClassifyQuicktimeBecomesMov(t *testing.T) {
	source := "/takeout/Album/clip.mp4"
	c := newClassifier(t, "out", map[string]string{
		source: "ISO Media, Apple QuickTime movie, Apple QuickTime (.MOV/QT)",
	})
	f := &media.File{SourcePath: source}
	if err := c.Classify(context.Background(), f); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got := filepath.Ext(f.Destination); got != ".mov" {
		t.Fatalf("Destination ext = %q, want .mov", got)
	}
}

func TestClassifyDataDescriptionKeepsExtension(t *testing.T) {
	source := "/takeout/Album/raw.cr3"
	c := newClassifier(t, "out", map[string]string{source: "data"})
	f := &media.File{SourcePath: source}
	if err := c.Classify(context.Background(), f); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got := filepath.Ext(f.Destination); got != ".cr3" {
		t.Fatalf("Destination ext = %q, want original .cr3", got)
	}
	if c.ExtensionMismatches() != 0 {
		t.Fatalf("ExtensionMismatches = %d, want 0", c.ExtensionMismatches())
	}
}

func TestClassifyUnknownDescriptionFails(t *testing.T) {
	source := "/takeout/Album/strange.bin"
	c := newClassifier(t, "out", map[string]string{source: "Zebra archive data"})
	f := &media.File{SourcePath: source}
	err := c.Classify(context.Background(), f)
	if !errors.Is(err, services.ErrUnknownFileType) {
		t.Fatalf("err = %v, want ErrUnknownFileType", err)
	}
}

func TestClassifySkipsMTS(t *testing.T) {
	source := "/takeout/Album/00001.MTS"
	// No canned description: the sniffer must not be consulted at all.
	c := newClassifier(t, "out", map[string]string{})
	f := &media.File{SourcePath: source}
	if err := c.Classify(context.Background(), f); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got := filepath.Ext(f.Destination); got != ".MTS" {
		t.Fatalf("Destination ext = %q, want .MTS untouched", got)
	}
}

func TestClassifyIdempotentDestination(t *testing.T) {
	source := "/takeout/Album/picture.jpg"
	c := newClassifier(t, "out", map[string]string{
		source: "JPEG image data, Exif standard",
	})
	first := &media.File{SourcePath: source}
	second := &media.File{SourcePath: source}
	if err := c.Classify(context.Background(), first); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if err := c.Classify(context.Background(), second); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if first.Destination != second.Destination {
		t.Fatalf("destinations differ: %q vs %q", first.Destination, second.Destination)
	}
}
