// Package media defines the pipeline's core data model: media files, their
// match provenance, destination categories, and the shared set of sidecar
// files not yet claimed by any media file.
package media
