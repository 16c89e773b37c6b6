package sidecar

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// A rule appends derived candidates to the worklist. Rules never replace or
// remove existing entries, so later rules see a superset of earlier output.
// Duplicates are allowed; callers probe candidates in order and take the
// first that exists on disk.
type rule func(mediaPath string, candidates []string) []string

var rules = []rule{
	bracketReorder,
	heicBareSidecar,
	jpgShorthand,
	pngShorthand,
	editedStripped,
	doubledDotNormalized,
	progressiveTruncation,
}

// Candidates returns the ordered sidecar candidate paths for a media file,
// highest priority first. The first entry is always <mediaPath>.json unless
// the stem carries a numeric "(N)" counter, in which case the reordered
// "<stem>.<ext>(N).json" form takes the front slot.
func Candidates(mediaPath string) []string {
	candidates := []string{mediaPath + ".json"}
	for _, apply := range rules {
		candidates = apply(mediaPath, candidates)
	}
	return candidates
}

// bracketReorder handles Takeout's canonical numbering: "IMG(2).jpg" pairs
// with "IMG.jpg(2).json". The reordered form is inserted at the front.
func bracketReorder(mediaPath string, candidates []string) []string {
	stem := stemOf(mediaPath)
	if !strings.HasSuffix(stem, ")") {
		return candidates
	}
	open := strings.LastIndex(stem, "(")
	if open < 0 {
		return candidates
	}
	digits := stem[open+1 : len(stem)-1]
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return candidates
	}
	ext := strings.TrimPrefix(filepath.Ext(mediaPath), ".")
	base := stem[:len(stem)-len(digits)-2]
	reordered := filepath.Join(filepath.Dir(mediaPath), fmt.Sprintf("%s.%s(%d).json", base, ext, n))
	return append([]string{reordered}, candidates...)
}

// heicBareSidecar covers HEIC sidecars that drop the media extension:
// "IMG.HEIC" sometimes pairs with "IMG.json".
func heicBareSidecar(mediaPath string, candidates []string) []string {
	if !strings.EqualFold(filepath.Ext(mediaPath), ".heic") {
		return candidates
	}
	for _, c := range snapshot(candidates) {
		candidates = append(candidates, strings.ReplaceAll(c, ".heic.json", ".json"))
		candidates = append(candidates, strings.ReplaceAll(c, ".HEIC.json", ".json"))
	}
	return candidates
}

// jpgShorthand covers the truncated ".j.json" and "j(N).json" sidecar forms
// seen next to JPG media.
func jpgShorthand(mediaPath string, candidates []string) []string {
	return shorthand(mediaPath, candidates, "jpg", "j", 999)
}

// pngShorthand is the PNG counterpart of jpgShorthand with "p" forms.
func pngShorthand(mediaPath string, candidates []string) []string {
	return shorthand(mediaPath, candidates, "png", "p", 1999)
}

func shorthand(mediaPath string, candidates []string, ext, letter string, maxCounter int) []string {
	if !strings.EqualFold(filepath.Ext(mediaPath), "."+ext) {
		return candidates
	}
	lowerTail := "." + ext + ".json"
	upperTail := "." + strings.ToUpper(ext) + ".json"
	for _, c := range snapshot(candidates) {
		for i := 1; i <= maxCounter; i++ {
			counter := fmt.Sprintf("(%d)", i)
			if !strings.Contains(c, counter) {
				continue
			}
			base := strings.ReplaceAll(c, lowerTail, "")
			base = strings.ReplaceAll(base, upperTail, "")
			if len(base) < len(counter) {
				continue
			}
			base = base[:len(base)-len(counter)]
			candidates = append(candidates, fmt.Sprintf("%s.%s%s.json", base, letter, counter))
		}
		short := strings.ReplaceAll(c, lowerTail, "."+letter+".json")
		short = strings.ReplaceAll(short, upperTail, "."+letter+".json")
		candidates = append(candidates, short)
	}
	return candidates
}

// editedStripped pairs "-edited" exports with the original's sidecar.
func editedStripped(_ string, candidates []string) []string {
	for _, c := range snapshot(candidates) {
		if strings.Contains(c, "-edited") {
			candidates = append(candidates, strings.ReplaceAll(c, "-edited", ""))
		}
	}
	return candidates
}

// doubledDotNormalized collapses the "..json" and ".." artifacts some
// exports produce.
func doubledDotNormalized(_ string, candidates []string) []string {
	for _, c := range snapshot(candidates) {
		if strings.Contains(c, "..json") {
			candidates = append(candidates, strings.ReplaceAll(c, "..json", ".json"))
		}
		if strings.Contains(c, "..") {
			candidates = append(candidates, strings.ReplaceAll(c, "..", "."))
		}
	}
	return candidates
}

// progressiveTruncation drops up to seven trailing stem characters, one at a
// time, to recover sidecars whose names were cut short by the export. The
// loop stops at a closing bracket so numbered counters stay intact.
func progressiveTruncation(_ string, candidates []string) []string {
	for _, c := range snapshot(candidates) {
		stem := []rune(stemOf(c))
		dir := filepath.Dir(c)
		for k := 0; k < 7; k++ {
			if len(stem) <= k {
				break
			}
			if stem[len(stem)-1-k] == ')' {
				break
			}
			truncated := string(stem[:len(stem)-k])
			candidates = append(candidates, filepath.Join(dir, truncated+".json"))
		}
	}
	return candidates
}

// stemOf returns the final path element without its last extension.
func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func snapshot(candidates []string) []string {
	out := make([]string, len(candidates))
	copy(out, candidates)
	return out
}
