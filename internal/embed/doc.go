// Package embed writes sidecar metadata into copied media files via
// exiftool and stamps each destination's filesystem times from the sidecar.
package embed
