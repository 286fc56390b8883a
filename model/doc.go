// Package model defines core types used throughout Voctree.
//
// # Identity Types
//
//   - ImageID: Caller-supplied external image identifier (uint32)
//
// Internally the engine addresses images by a dense, insertion-ordered
// index; ImageID is only what the engine hands back in results. The engine
// does not require IDs to be unique.
//
// # Result Types
//
//   - Match: Scored candidate image from a query
//   - CommonWord: A visual word shared between query and database image
package model
