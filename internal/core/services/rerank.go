package services

import (
	"sort"
	"strings"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// Rerank blend weights. The vector score carries most of the signal;
// lexical overlap separates near-ties on the same topic.
const (
	rerankVectorWeight  = 0.7
	rerankLexicalWeight = 0.3
)

// Rerank re-orders candidates by blending the vector score with query
// term overlap and returns the top n (default 5). Pure function of its
// inputs; ties keep the original retrieval order.
func (s *QueryService) Rerank(query string, candidates []domain.RetrievalResult, n int) []domain.RetrievalResult {
	if n <= 0 {
		n = domain.DefaultRerankN
	}
	if len(candidates) == 0 {
		return nil
	}

	terms := queryTerms(query)

	type scored struct {
		result domain.RetrievalResult
		score  float64
	}
	scoredResults := make([]scored, len(candidates))
	for i, c := range candidates {
		lexical := termOverlap(terms, c.Chunk.Text)
		scoredResults[i] = scored{
			result: c,
			score:  rerankVectorWeight*c.Score + rerankLexicalWeight*lexical,
		}
	}

	sort.SliceStable(scoredResults, func(i, j int) bool {
		if scoredResults[i].score != scoredResults[j].score {
			return scoredResults[i].score > scoredResults[j].score
		}
		return scoredResults[i].result.Rank < scoredResults[j].result.Rank
	})

	if n > len(scoredResults) {
		n = len(scoredResults)
	}
	out := make([]domain.RetrievalResult, n)
	for i := 0; i < n; i++ {
		out[i] = scoredResults[i].result
	}
	logger.Debug("Reranked %d candidates to top %d", len(candidates), n)
	return out
}

// queryTerms lower-cases and splits the query, dropping single-letter
// tokens that match everything.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if len(f) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

// termOverlap returns the fraction of query terms present in the text.
func termOverlap(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
