// Package domain defines the core business entities for regnav.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source volume of the regulatory corpus
//   - Page: One page of extracted text, discarded after chunking
//   - Chunk: The atomic retrieval unit with page/section provenance
//   - RetrievalResult: A scored chunk produced per query
//   - CrossReference: Related sections resolved across volumes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
