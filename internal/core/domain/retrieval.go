package domain

// Default retrieval parameters. Tunable via configuration; these match
// the published corpus defaults.
const (
	DefaultTopK           = 10
	DefaultScoreThreshold = 0.7
	DefaultRerankN        = 5
	DefaultContextBudget  = 3000
)

// RetrieveOptions configure a retrieval query.
type RetrieveOptions struct {
	// TopK is the maximum number of results (default 10).
	TopK int

	// VolumeFilter restricts retrieval to one volume. Empty means all.
	VolumeFilter Volume

	// ScoreThreshold drops results with cosine similarity below this
	// value (default 0.7). Raising it never increases result count.
	ScoreThreshold float64

	// ExpandContext fetches the immediately preceding and following
	// chunks of each hit for context continuity.
	ExpandContext bool
}

// ContextWindow carries the neighbouring chunk texts attached to a hit
// during context expansion. The text is supplementary: it does not
// contribute to the relevance score.
type ContextWindow struct {
	// Previous is the text of the preceding chunk, if any.
	Previous string

	// Next is the text of the following chunk, if any.
	Next string
}

// RetrievalResult is a single scored hit. Ephemeral, produced per query.
type RetrievalResult struct {
	// Chunk is the matched chunk with full metadata.
	Chunk Chunk

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// Rank is the 0-based position in the original retrieval order.
	// Rerankers use it for stable tie-breaking.
	Rank int

	// Context holds neighbouring chunk text when expansion was
	// requested, nil otherwise.
	Context *ContextWindow
}

// RetrievalMeta summarises a retrieval run. It mirrors what callers
// need to render "insufficient evidence" outcomes honestly.
type RetrievalMeta struct {
	// TopK and ScoreThreshold echo the effective query parameters.
	TopK           int
	ScoreThreshold float64

	// HighestScore and LowestScore are the score bounds of the
	// surviving results. Both are zero when nothing cleared the
	// threshold.
	HighestScore float64
	LowestScore  float64
}

// Citation points a caller at the provenance of one included chunk.
// Callers render it as "[Volume X, Section Y, p. Z]".
type Citation struct {
	// Volume is the source volume.
	Volume Volume `json:"volume"`

	// Section is the section label, or empty.
	Section string `json:"section"`

	// PageStart and PageEnd are the cited page span.
	PageStart int `json:"page_start"`
	PageEnd   int `json:"page_end"`

	// Score is the relevance score of the cited chunk.
	Score float64 `json:"score"`
}

// AssembledContext is a bounded-length context block with citation
// metadata, handed to the external answer synthesizer.
type AssembledContext struct {
	// Text is the concatenated chunk text in rank order.
	Text string `json:"text"`

	// Citations parallels the chunks included in Text.
	Citations []Citation `json:"citations"`

	// TokenCount is the approximate token count of Text.
	TokenCount int `json:"token_count"`

	// Truncated reports whether the token budget cut off lower-ranked
	// chunks. Truncation happens at chunk boundaries, never mid-chunk.
	Truncated bool `json:"truncated"`
}
