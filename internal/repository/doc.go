// Package repository defines the snapshot archive.
//
// The diagram itself lives in memory; the only persisted artifact is the
// export snapshot. An archive keeps those snapshots so a session can be
// inspected later from the command line.
//
// # SQLite Implementation
//
// The sqlite subpackage stores each snapshot as a JSON column keyed by a
// random id. A BLAKE2b-256 digest of the canonical JSON is unique, so saving
// the same diagram twice returns the first record instead of a duplicate.
//
// # Testing
//
// The sqlite archive is tested against in-memory databases.
package repository
