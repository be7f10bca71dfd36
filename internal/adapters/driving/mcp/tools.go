package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query     string  `json:"query" jsonschema:"the question to retrieve regulatory evidence for"`
	TopK      int     `json:"top_k,omitempty" jsonschema:"maximum number of results (default 10)"`
	Volume    string  `json:"volume,omitempty" jsonschema:"restrict to one volume: I, II or III"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum cosine similarity (default 0.7)"`
	Assemble  bool    `json:"assemble,omitempty" jsonschema:"rerank and merge results into one cited context block"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []RetrieveResultOutput   `json:"results"`
	Count   int                      `json:"count"`
	Context *domain.AssembledContext `json:"context,omitempty"`

	// HighestScore is zero when nothing cleared the threshold; the
	// caller should answer "no evidence found" rather than guess.
	HighestScore float64 `json:"highest_score"`
}

// RetrieveResultOutput represents a single retrieval result.
type RetrieveResultOutput struct {
	ChunkID   string  `json:"chunk_id"`
	Volume    string  `json:"volume"`
	Section   string  `json:"section,omitempty"`
	PageStart int     `json:"page_start"`
	PageEnd   int     `json:"page_end"`
	Score     float64 `json:"score"`
	Text      string  `json:"text"`
}

// CrossReferenceInput is the input schema for the cross_reference tool.
type CrossReferenceInput struct {
	Section string `json:"section" jsonschema:"the section label to resolve, e.g. CAT.GEN.MPA.210"`
}

// CrossReferenceOutput is the output schema for the cross_reference tool.
type CrossReferenceOutput struct {
	Section    string                 `json:"section"`
	ExactMatch bool                   `json:"exact_match"`
	Exact      []RetrieveResultOutput `json:"exact"`
	Semantic   []RetrieveResultOutput `json:"semantic"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve regulatory text chunks relevant to a question, with citations",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cross_reference",
		Description: "Resolve a regulatory section label to related content across all volumes",
	}, s.handleCrossReference)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.RetrieveOptions{
		TopK:           input.TopK,
		ScoreThreshold: input.Threshold,
		VolumeFilter:   domain.Volume(input.Volume),
	}

	results, meta, err := s.ports.Query.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results:      toResultOutputs(results),
		Count:        len(results),
		HighestScore: meta.HighestScore,
	}

	if input.Assemble && len(results) > 0 {
		reranked := s.ports.Query.Rerank(input.Query, results, domain.DefaultRerankN)
		output.Context = s.ports.Query.AssembleContext(reranked)
	}

	return nil, output, nil
}

// handleCrossReference handles the cross_reference tool invocation.
// An unknown section is not a tool error: the output carries semantic
// neighbours with ExactMatch false.
func (s *Server) handleCrossReference(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CrossReferenceInput,
) (*mcp.CallToolResult, CrossReferenceOutput, error) {
	ref, err := s.ports.Query.CrossReference(ctx, input.Section)
	if err != nil && !errors.Is(err, domain.ErrUnknownSection) {
		return nil, CrossReferenceOutput{}, err
	}

	output := CrossReferenceOutput{
		Section:    ref.SectionLabel,
		ExactMatch: ref.ExactMatch,
		Exact:      toResultOutputs(ref.Exact),
		Semantic:   toResultOutputs(ref.Semantic),
	}
	return nil, output, nil
}

func toResultOutputs(results []domain.RetrievalResult) []RetrieveResultOutput {
	out := make([]RetrieveResultOutput, len(results))
	for i, r := range results {
		out[i] = RetrieveResultOutput{
			ChunkID:   r.Chunk.ID,
			Volume:    string(r.Chunk.Volume),
			Section:   r.Chunk.SectionLabel,
			PageStart: r.Chunk.PageStart,
			PageEnd:   r.Chunk.PageEnd,
			Score:     r.Score,
			Text:      r.Chunk.Text,
		}
	}
	return out
}
