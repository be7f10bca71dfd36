package mcp

import (
	"context"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results []domain.RetrievalResult
	meta    domain.RetrievalMeta
	ref     *domain.CrossReference
	context *domain.AssembledContext
	err     error

	lastQuery string
	lastOpts  domain.RetrieveOptions
}

func (m *mockQueryService) Retrieve(
	_ context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievalResult, domain.RetrievalMeta, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.meta, m.err
}

func (m *mockQueryService) Rerank(_ string, candidates []domain.RetrievalResult, n int) []domain.RetrievalResult {
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

func (m *mockQueryService) CrossReference(_ context.Context, _ string) (*domain.CrossReference, error) {
	return m.ref, m.err
}

func (m *mockQueryService) AssembleContext(_ []domain.RetrievalResult) *domain.AssembledContext {
	return m.context
}
