package fileops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"takesort/internal/fileops"
	"takesort/internal/logging"
	"takesort/internal/media"
)

func TestCopyAllCreatesDestinationTree(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	source := filepath.Join(src, "IMG_0001.jpg")
	if err := os.WriteFile(source, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	f := &media.File{
		SourcePath:  source,
		Destination: filepath.Join(out, "albums", "Trip", "IMG_0001.jpg"),
	}
	copier := fileops.NewCopier(logging.NewNop())
	if err := copier.CopyAll(context.Background(), []*media.File{f}); err != nil {
		t.Fatalf("CopyAll: %v", err)
	}

	data, err := os.ReadFile(f.Destination)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("copied content = %q", data)
	}
}

func TestCopyAllDisambiguatesCollisions(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	first := filepath.Join(src, "a", "IMG.jpg")
	second := filepath.Join(src, "b", "IMG.jpg")
	for _, p := range []string{first, second} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(p), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	dest := filepath.Join(out, "general", "IMG.jpg")
	files := []*media.File{
		{SourcePath: first, Destination: dest},
		{SourcePath: second, Destination: dest},
	}
	copier := fileops.NewCopier(logging.NewNop())
	if err := copier.CopyAll(context.Background(), files); err != nil {
		t.Fatalf("CopyAll: %v", err)
	}

	if files[0].Destination != dest {
		t.Fatalf("first destination changed to %q", files[0].Destination)
	}
	want := filepath.Join(out, "general", "IMG_0.jpg")
	if files[1].Destination != want {
		t.Fatalf("second destination = %q, want %q", files[1].Destination, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("renamed copy missing: %v", err)
	}
}

func TestCopyAllMissingDestinationFails(t *testing.T) {
	copier := fileops.NewCopier(logging.NewNop())
	err := copier.CopyAll(context.Background(), []*media.File{{SourcePath: "/t/a.jpg"}})
	if err == nil {
		t.Fatal("expected error for empty destination")
	}
}
