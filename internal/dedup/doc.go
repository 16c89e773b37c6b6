// Package dedup removes byte-identical media files from the pipeline's
// in-memory set, keeping one representative per content group by destination
// category priority. Nothing is deleted on disk.
package dedup
