// Package main hosts the takesort CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration resolution, structured
// logging setup, and catalog access so subcommands stay thin; the pipeline
// itself lives under internal/pipeline.
package main
