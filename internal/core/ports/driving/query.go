package driving

import (
	"context"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// QueryService exposes the fixed set of query-time operations.
// All methods are stateless and safe for concurrent use across many
// simultaneous queries sharing one loaded snapshot.
type QueryService interface {
	// Retrieve embeds the query, searches the index, applies the
	// score threshold and optional volume filter, and expands hits
	// with neighbouring chunks when requested.
	//
	// An empty result is a valid outcome, not an error: the caller
	// must render it as "no evidence found".
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.RetrievalResult, domain.RetrievalMeta, error)

	// Rerank re-orders candidates by a finer relevance estimate and
	// returns the top n. Pure function of (query, candidates); ties
	// break by original retrieval rank.
	Rerank(query string, candidates []domain.RetrievalResult, n int) []domain.RetrievalResult

	// CrossReference resolves a section label to related chunks
	// across all volumes. When the label has zero exact matches the
	// returned CrossReference carries semantic neighbours only and
	// the error wraps domain.ErrUnknownSection (non-fatal, reportable).
	CrossReference(ctx context.Context, sectionLabel string) (*domain.CrossReference, error)

	// AssembleContext merges reranked results into a single bounded
	// context block with deduplication and citations.
	AssembleContext(results []domain.RetrievalResult) *domain.AssembledContext
}

// BuildSource names one document to ingest: the volume identifier and
// the path to its raw content.
type BuildSource struct {
	Volume domain.Volume
	Path   string
}

// BuildService builds an index snapshot from a set of source documents.
// The snapshot destination is fixed at construction.
type BuildService interface {
	// Build runs the extract, chunk, embed, index pipeline for every
	// source and persists the snapshot using an atomic swap.
	// Per-document failures are recorded in the report; the error
	// wraps domain.ErrBuildEmpty only when zero documents ingested
	// successfully.
	Build(ctx context.Context, sources []BuildSource) (*domain.BuildReport, error)
}
