package sidecar_test

import (
	"path/filepath"
	"testing"

	"takesort/internal/sidecar"
)

func TestCandidatesBaseFormFirst(t *testing.T) {
	got := sidecar.Candidates("/takeout/album/IMG_1234.jpg")
	if len(got) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if got[0] != "/takeout/album/IMG_1234.jpg.json" {
		t.Fatalf("first candidate = %q, want base form", got[0])
	}
}

func TestCandidatesBracketReorderTakesFront(t *testing.T) {
	got := sidecar.Candidates("/takeout/album/my_bracket(1).png")
	if len(got) < 2 {
		t.Fatalf("expected multiple candidates, got %d", len(got))
	}
	if got[0] != "/takeout/album/my_bracket.png(1).json" {
		t.Fatalf("first candidate = %q, want reordered bracket form", got[0])
	}
	if got[1] != "/takeout/album/my_bracket(1).png.json" {
		t.Fatalf("second candidate = %q, want base form", got[1])
	}
}

func TestCandidatesBracketReorderMultiDigit(t *testing.T) {
	got := sidecar.Candidates("/t/a/photo(16).jpg")
	if got[0] != "/t/a/photo.jpg(16).json" {
		t.Fatalf("first candidate = %q, want photo.jpg(16).json", got[0])
	}
}

func TestCandidatesNonNumericBracketKeepsBaseFirst(t *testing.T) {
	got := sidecar.Candidates("/t/a/photo(ooga).jpg")
	if got[0] != "/t/a/photo(ooga).jpg.json" {
		t.Fatalf("first candidate = %q, want base form for non-numeric counter", got[0])
	}
}

func TestCandidatesHeicIncludesBareSidecar(t *testing.T) {
	got := sidecar.Candidates("/t/a/IMG_5555.HEIC")
	want := "/t/a/IMG_5555.json"
	if !contains(got, want) {
		t.Fatalf("candidates %v missing bare sidecar %q", got, want)
	}
}

func TestCandidatesJpgShorthand(t *testing.T) {
	got := sidecar.Candidates("/t/a/IMG_0001.jpg")
	want := "/t/a/IMG_0001.j.json"
	if !contains(got, want) {
		t.Fatalf("candidates missing jpg shorthand %q", want)
	}
}

func TestCandidatesPngShorthand(t *testing.T) {
	got := sidecar.Candidates("/t/a/screen.png")
	want := "/t/a/screen.p.json"
	if !contains(got, want) {
		t.Fatalf("candidates missing png shorthand %q", want)
	}
}

func TestCandidatesEditedStripped(t *testing.T) {
	got := sidecar.Candidates("/t/a/IMG_0001-edited.jpg")
	want := "/t/a/IMG_0001.jpg.json"
	if !contains(got, want) {
		t.Fatalf("candidates missing edited-stripped form %q", want)
	}
}

func TestCandidatesDoubledDotNormalized(t *testing.T) {
	got := sidecar.Candidates("/t/a/clip..mp4")
	want := "/t/a/clip.mp4.json"
	if !contains(got, want) {
		t.Fatalf("candidates %v missing normalized form %q", got, want)
	}
}

func TestCandidatesProgressiveTruncation(t *testing.T) {
	got := sidecar.Candidates("/t/a/very_long_filename_here.jpg")
	// Truncation drops trailing stem characters from the .json form one at a
	// time, up to seven.
	for _, want := range []string{
		"/t/a/very_long_filename_here.jpg.json",
		"/t/a/very_long_filename_here.jp.json",
		"/t/a/very_long_filename_here.j.json",
		"/t/a/very_long_filename_here..json",
		"/t/a/very_long_filename_here.json",
		"/t/a/very_long_filename_her.json",
	} {
		if !contains(got, want) {
			t.Fatalf("candidates missing truncated form %q", want)
		}
	}
}

func TestCandidatesTruncationStopsAtBracket(t *testing.T) {
	got := sidecar.Candidates("/t/a/pic(2).gif")
	// The counter must stay intact: no candidate may end with a half-eaten
	// bracket like "pic(2.json".
	for _, c := range got {
		base := filepath.Base(c)
		if base == "pic(2.json" || base == "pic(.json" {
			t.Fatalf("truncation broke the counter: %q", c)
		}
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
