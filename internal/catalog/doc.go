// Package catalog persists a ledger of pipeline runs to SQLite: one row per
// run with its outcome counts, plus one row per surviving media file.
package catalog
