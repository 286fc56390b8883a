// Package snapshot serializes a recognition database to a stream and back.
//
// The engine itself performs no IO; this package is the persistence
// collaborator. A snapshot captures the engine configuration, the image
// table, and every inverted file in a versioned little-endian binary format,
// optionally compressed with LZ4 (fast) or Zstd (better ratio). The
// vocabulary tree is NOT part of a snapshot: restoring requires the same
// tree the database was built over.
package snapshot
