// Package scanner enumerates a Takeout export, splitting entries into media
// files and sidecar JSON while applying the shared exclusion lists.
package scanner
