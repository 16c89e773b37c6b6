// Package sidecar derives the plausible JSON sidecar paths for a media file.
//
// Takeout names sidecars inconsistently: numeric suffixes get reordered
// around the extension, long stems get truncated, HEIC sidecars drop the
// media extension entirely. Candidates encodes each observed quirk as an
// ordered rule over a growing worklist; no rule touches the filesystem, so
// the generation is deterministic and never fails.
package sidecar
