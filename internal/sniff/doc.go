// Package sniff wraps the file(1) utility to obtain a human-readable type
// description for a media file.
package sniff
