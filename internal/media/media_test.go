package media_test

import (
	"testing"

	"takesort/internal/media"
)

func TestCategoryPriorityOrdering(t *testing.T) {
	if media.CategoryAlbums.Priority() <= media.CategoryShared.Priority() {
		t.Fatal("albums must outrank shared")
	}
	if media.CategoryShared.Priority() <= media.CategoryGeneral.Priority() {
		t.Fatal("shared must outrank general")
	}
}

func TestFileExtension(t *testing.T) {
	f := &media.File{SourcePath: "/t/a/IMG_0001.HEIC"}
	if got := f.Extension(); got != "heic" {
		t.Fatalf("Extension() = %q, want heic", got)
	}
	f = &media.File{SourcePath: "/t/a/noext"}
	if got := f.Extension(); got != "" {
		t.Fatalf("Extension() = %q, want empty", got)
	}
}

func TestSidecarSetClaimIsExclusive(t *testing.T) {
	set := media.NewSidecarSet()
	set.Add("/t/a/x.jpg.json")

	if !set.Contains("/t/a/x.jpg.json") {
		t.Fatal("expected membership before claim")
	}
	if !set.Claim("/t/a/x.jpg.json") {
		t.Fatal("first claim should succeed")
	}
	if set.Claim("/t/a/x.jpg.json") {
		t.Fatal("second claim should fail")
	}
	if set.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", set.Len())
	}
}

func TestSidecarSetPathsSorted(t *testing.T) {
	set := media.NewSidecarSet()
	set.Add("/t/b.json")
	set.Add("/t/a.json")
	got := set.Paths()
	if len(got) != 2 || got[0] != "/t/a.json" || got[1] != "/t/b.json" {
		t.Fatalf("Paths() = %v, want sorted snapshot", got)
	}
}

func TestIgnoredFile(t *testing.T) {
	for _, name := range []string{
		"metadata.json",
		"Metadata.JSON",
		"shared_album_comments.json",
		"user-generated-memory-titles.json",
		"print-subscriptions.json",
	} {
		if !media.IgnoredFile(name) {
			t.Fatalf("IgnoredFile(%q) = false, want true", name)
		}
	}
	if media.IgnoredFile("IMG_0001.jpg.json") {
		t.Fatal("regular sidecar must not be ignored")
	}
}

func TestIgnoredExtension(t *testing.T) {
	if !media.IgnoredExtension("/t/a/index.html") {
		t.Fatal("html should be ignored")
	}
	if !media.IgnoredExtension("/t/a/INDEX.HTML") {
		t.Fatal("extension check must be case-insensitive")
	}
	if media.IgnoredExtension("/t/a/clip.mp4") {
		t.Fatal("mp4 must not be ignored")
	}
	if media.IgnoredExtension("/t/a/noext") {
		t.Fatal("extensionless paths are never ignored by extension")
	}
}
