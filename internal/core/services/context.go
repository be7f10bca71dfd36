package services

import (
	"strings"

	"github.com/avsafe-labs/regnav/internal/chunker"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// AssembleContext concatenates result text in rank order into one
// context block, skipping duplicate chunk text and stopping at the
// token budget. Truncation happens at chunk boundaries only; a chunk
// that does not fit whole is dropped and Truncated is set.
func (s *QueryService) AssembleContext(results []domain.RetrievalResult) *domain.AssembledContext {
	assembled := &domain.AssembledContext{}
	if len(results) == 0 {
		return assembled
	}

	seen := make(map[string]bool, len(results))
	var parts []string

	for _, r := range results {
		text := strings.TrimSpace(r.Chunk.Text)
		if text == "" || seen[text] {
			continue
		}

		tokens := chunker.CountTokens(text)
		if assembled.TokenCount+tokens > s.contextBudget {
			assembled.Truncated = true
			break
		}

		seen[text] = true
		parts = append(parts, text)
		assembled.TokenCount += tokens
		assembled.Citations = append(assembled.Citations, domain.Citation{
			Volume:    r.Chunk.Volume,
			Section:   r.Chunk.SectionLabel,
			PageStart: r.Chunk.PageStart,
			PageEnd:   r.Chunk.PageEnd,
			Score:     r.Score,
		})
	}

	assembled.Text = strings.Join(parts, "\n\n")
	logger.Debug("Assembled context: %d chunks, %d tokens, truncated=%t",
		len(assembled.Citations), assembled.TokenCount, assembled.Truncated)
	return assembled
}
