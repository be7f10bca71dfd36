package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// CrossReference resolves a section label to related chunks across all
// volumes: exact label matches first, supplemented with semantic
// neighbours up to domain.MinCrossReferences. A label with zero exact
// matches still yields semantic neighbours, alongside an error wrapping
// domain.ErrUnknownSection so the caller can present the result as
// approximate.
func (s *QueryService) CrossReference(ctx context.Context, sectionLabel string) (*domain.CrossReference, error) {
	logger.Section("Cross-Reference")

	label := domain.NormalizeSectionLabel(sectionLabel)
	if label == "" {
		return nil, fmt.Errorf("%w: empty section label", domain.ErrInvalidInput)
	}
	logger.Debug("Label: %q", label)

	ids, err := s.sections.ChunksForSection(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("looking up section %s: %w", label, err)
	}

	ref := &domain.CrossReference{
		SectionLabel: label,
		ExactMatch:   len(ids) > 0,
	}

	exclude := make(map[string]bool, len(ids))
	var seed []float32
	for _, id := range ids {
		chunk, vec, err := s.index.Get(id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Catalogue and index disagree; skip rather than fail.
				logger.Warn("section %s lists unknown chunk %s", label, id)
				continue
			}
			return nil, fmt.Errorf("loading chunk %s: %w", id, err)
		}
		exclude[id] = true
		if seed == nil {
			seed = vec
		}
		ref.Exact = append(ref.Exact, domain.RetrievalResult{
			Chunk: chunk,
			Score: 1,
			Rank:  len(ref.Exact),
		})
	}
	logger.Debug("Exact matches: %d", len(ref.Exact))

	if len(ref.Exact) >= domain.MinCrossReferences {
		return ref, nil
	}

	// Too few exact matches: supplement with semantic neighbours,
	// seeded by the first matched chunk's embedding or, for unknown
	// labels, by embedding the label text itself.
	if seed == nil {
		seed, err = s.embedding.Embed(ctx, sectionLabel)
		if err != nil {
			return nil, fmt.Errorf("embedding label: %w", err)
		}
	}

	want := domain.MinCrossReferences - len(ref.Exact)
	hits, err := s.index.Search(ctx, seed, want+len(exclude), nil)
	if err != nil {
		return nil, fmt.Errorf("searching neighbours: %w", err)
	}

	for _, hit := range hits {
		if len(ref.Semantic) >= want {
			break
		}
		if exclude[hit.Chunk.ID] {
			continue
		}
		ref.Semantic = append(ref.Semantic, domain.RetrievalResult{
			Chunk: hit.Chunk,
			Score: hit.Similarity,
			Rank:  len(ref.Semantic),
		})
	}
	logger.Debug("Semantic neighbours: %d", len(ref.Semantic))

	if !ref.ExactMatch {
		return ref, fmt.Errorf("%w: %s", domain.ErrUnknownSection, label)
	}
	return ref, nil
}
