package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
	"github.com/avsafe-labs/regnav/internal/core/ports/driving"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers retrieval, rerank, cross-reference and context
// assembly requests against one loaded snapshot. Stateless beyond its
// dependencies; safe for concurrent queries.
type QueryService struct {
	index         driven.VectorIndex
	chunks        driven.ChunkStore
	sections      driven.SectionCatalog
	embedding     driven.EmbeddingService
	contextBudget int
}

// QueryOption configures a QueryService.
type QueryOption func(*QueryService)

// WithContextBudget sets the token budget for context assembly.
// Non-positive values keep the default.
func WithContextBudget(budget int) QueryOption {
	return func(s *QueryService) {
		if budget > 0 {
			s.contextBudget = budget
		}
	}
}

// NewQueryService creates a query service bound to a snapshot's index,
// chunk store and section catalogue.
func NewQueryService(
	index driven.VectorIndex,
	chunks driven.ChunkStore,
	sections driven.SectionCatalog,
	embedding driven.EmbeddingService,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		index:         index,
		chunks:        chunks,
		sections:      sections,
		embedding:     embedding,
		contextBudget: domain.DefaultContextBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve embeds the query and returns the chunks clearing the score
// threshold, at most TopK, optionally restricted to one volume and
// expanded with neighbouring chunk text.
func (s *QueryService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievalResult, domain.RetrievalMeta, error) {
	logger.Section("Retrieval")

	meta := domain.RetrievalMeta{
		TopK:           opts.TopK,
		ScoreThreshold: opts.ScoreThreshold,
	}
	if meta.TopK <= 0 {
		meta.TopK = domain.DefaultTopK
	}
	if meta.ScoreThreshold <= 0 {
		meta.ScoreThreshold = domain.DefaultScoreThreshold
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, meta, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	logger.Debug("Query: %q (top_k=%d, threshold=%.2f, volume=%q)",
		query, meta.TopK, meta.ScoreThreshold, opts.VolumeFilter)

	if opts.VolumeFilter != "" {
		if _, err := domain.ParseVolume(string(opts.VolumeFilter)); err != nil {
			return nil, meta, err
		}
	}

	embedding, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, meta, fmt.Errorf("embedding query: %w", err)
	}

	var filter driven.ChunkFilter
	if opts.VolumeFilter != "" {
		filter = driven.VolumeFilter(opts.VolumeFilter)
	}

	hits, err := s.index.Search(ctx, embedding, meta.TopK, filter)
	if err != nil {
		return nil, meta, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Raw hits: %d", len(hits))

	results := make([]domain.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < meta.ScoreThreshold {
			// Hits arrive in descending score order; the rest are
			// below threshold too.
			break
		}
		results = append(results, domain.RetrievalResult{
			Chunk: hit.Chunk,
			Score: hit.Similarity,
			Rank:  len(results),
		})
	}

	if len(results) > 0 {
		meta.HighestScore = results[0].Score
		meta.LowestScore = results[len(results)-1].Score
	}
	logger.Info("Results above threshold: %d (scores %.3f..%.3f)",
		len(results), meta.LowestScore, meta.HighestScore)

	if opts.ExpandContext {
		s.expandContext(ctx, results)
	}

	return results, meta, nil
}

// expandContext attaches neighbouring chunk text to each result.
// Missing neighbours at document boundaries are expected; any other
// lookup failure is logged and skipped rather than failing the query.
func (s *QueryService) expandContext(ctx context.Context, results []domain.RetrievalResult) {
	for i := range results {
		window := &domain.ContextWindow{}
		chunk := results[i].Chunk

		prev, err := s.chunks.GetNeighbour(ctx, chunk.Volume, chunk.Seq, -1)
		switch {
		case err == nil:
			window.Previous = prev.Text
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("context expansion for %s: %v", chunk.ID, err)
		}

		next, err := s.chunks.GetNeighbour(ctx, chunk.Volume, chunk.Seq, 1)
		switch {
		case err == nil:
			window.Next = next.Text
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("context expansion for %s: %v", chunk.ID, err)
		}

		results[i].Context = window
	}
}
