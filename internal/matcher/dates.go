package matcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"takesort/internal/logging"
	"takesort/internal/media"
)

var dateNoiseTokens = []string{"edited", "IMG", "VID", "JPEG", "EFFECTS"}

// inferDates is tier 3: pull a YYYYMMDD creation date out of the filename
// of every file the earlier tiers left unmatched.
func (m *Matcher) inferDates(files []*media.File) {
	logger := m.logger.With(logging.String(logging.FieldTier, "filename-date"))
	for _, f := range files {
		if f.Match.Kind != media.MatchNone {
			continue
		}
		name := normalizeForDate(stemOf(f.SourcePath))
		if len(name) < 8 {
			continue
		}
		date, ok := parseEightDigitDate(name)
		if !ok {
			for _, sep := range []string{"-", "_", " "} {
				if date, ok = parseEightDigitDate(strings.ReplaceAll(name, sep, "")); ok {
					break
				}
			}
		}
		if !ok {
			continue
		}
		f.CreationDate = date
		f.Match = media.Provenance{Kind: media.MatchFileName}
		logger.Debug("date inferred from filename",
			logging.String(logging.FieldMedia, f.SourcePath),
			logging.String("date", date.Format("2006-01-02")),
		)
	}
}

// normalizeForDate strips the counters and camera tokens that commonly
// surround the date digits.
func normalizeForDate(name string) string {
	for x := 0; x <= 4; x++ {
		name = strings.ReplaceAll(name, fmt.Sprintf("(%d)", x), "")
	}
	for _, token := range dateNoiseTokens {
		for _, sep := range []string{"-", "_"} {
			name = strings.ReplaceAll(name, sep+token, "")
			name = strings.ReplaceAll(name, token+sep, "")
		}
	}
	return name
}

// parseEightDigitDate finds the first run of eight consecutive digits and
// validates it as a YYYYMMDD calendar date at local midnight. Only the
// first run is considered; an invalid run fails the whole attempt.
func parseEightDigitDate(input string) (time.Time, bool) {
	var digits []rune
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 8 {
				break
			}
		} else {
			digits = digits[:0]
		}
	}
	if len(digits) != 8 {
		return time.Time{}, false
	}

	run := string(digits)
	year := atoi(run[0:4])
	month := atoi(run[4:6])
	day := atoi(run[6:8])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
