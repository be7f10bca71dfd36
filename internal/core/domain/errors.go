package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates a document could not be parsed
	// (corrupt input or zero extractable pages). Fatal for that
	// document only; other documents continue processing.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding indicates an embedding batch failed. The whole
	// batch is rejected; the caller may retry at a smaller batch
	// size or skip the document.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexCorrupt indicates a persisted snapshot is inconsistent
	// (vector/metadata count mismatch or dimension mismatch).
	// Fatal at load: the system refuses to serve queries against a
	// corrupt snapshot.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrUnknownSection indicates a cross-reference lookup found no
	// exact label matches. Non-fatal: the resolver falls back to
	// semantic neighbours only.
	ErrUnknownSection = errors.New("unknown section")

	// ErrNoSnapshot indicates no index snapshot has been built or
	// loaded yet. Queries cannot be served.
	ErrNoSnapshot = errors.New("no index snapshot available")

	// ErrBuildEmpty indicates a build ingested zero documents
	// successfully and produced no snapshot.
	ErrBuildEmpty = errors.New("no documents ingested")
)
