package domain

import "time"

// DocumentReport records the outcome of ingesting one document.
// Failures are per-document: one bad volume never blocks the others.
type DocumentReport struct {
	// Volume is the document that was processed.
	Volume Volume

	// Pages is the number of pages with extractable text.
	Pages int

	// Chunks is the number of chunks produced and indexed.
	Chunks int

	// Err is the ingestion failure, nil on success.
	Err error
}

// BuildReport summarises a full index build.
type BuildReport struct {
	// ID uniquely identifies this build run.
	ID string

	// Documents holds one report per source document, in input order.
	Documents []DocumentReport

	// TotalChunks is the number of entries in the resulting snapshot.
	TotalChunks int

	// Dimension is the embedding dimension of the snapshot.
	Dimension int

	// Started and Finished bound the build run.
	Started  time.Time
	Finished time.Time
}

// Succeeded returns the number of documents ingested without error.
func (r *BuildReport) Succeeded() int {
	n := 0
	for _, d := range r.Documents {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of documents that failed ingestion.
func (r *BuildReport) Failed() int {
	return len(r.Documents) - r.Succeeded()
}
