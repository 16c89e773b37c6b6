// Package fileops copies resolved media into their destination paths,
// disambiguating collisions. It is the only pipeline stage that writes
// media bytes to disk.
package fileops
