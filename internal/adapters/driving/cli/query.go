package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

var (
	queryTopK      int
	queryVolume    string
	queryThreshold float64
	queryExpand    bool
	queryAssemble  bool
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve regulatory evidence for a question",
	Long: `Embeds the question, searches the index and prints the chunks that
cleared the score threshold, with volume, section and page citations.

With --assemble the top results are reranked and merged into a single
context block ready to hand to an answer synthesizer.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "maximum number of results (0 = config default)")
	queryCmd.Flags().StringVar(&queryVolume, "volume", "", "restrict to one volume (I, II or III)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", 0, "minimum similarity score (0 = config default)")
	queryCmd.Flags().BoolVar(&queryExpand, "expand", false, "include neighbouring chunk text")
	queryCmd.Flags().BoolVar(&queryAssemble, "assemble", false, "rerank and merge results into one context block")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openQueryService()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := domain.RetrieveOptions{
		TopK:           queryTopK,
		ScoreThreshold: queryThreshold,
		VolumeFilter:   domain.Volume(queryVolume),
		ExpandContext:  queryExpand,
	}
	if opts.TopK == 0 {
		opts.TopK = settings.Retrieval.TopK
	}
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = settings.Retrieval.ScoreThreshold
	}

	results, meta, err := svc.Retrieve(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryAssemble {
		reranked := svc.Rerank(args[0], results, settings.Retrieval.RerankN)
		assembled := svc.AssembleContext(reranked)
		return outputAssembled(cmd, assembled)
	}

	if queryJSON {
		return outputJSON(cmd, struct {
			Results []domain.RetrievalResult `json:"results"`
			Meta    domain.RetrievalMeta     `json:"meta"`
		}{results, meta})
	}
	return outputResultsTable(cmd, results, meta)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.RetrievalResult, meta domain.RetrievalMeta) error {
	if len(results) == 0 {
		cmd.Printf("No evidence found above threshold %.2f.\n", meta.ScoreThreshold)
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, formatCitation(r.Chunk), r.Score)
		cmd.Printf("      %s\n", snippet(r.Chunk.Text, 200))
		if r.Context != nil && (r.Context.Previous != "" || r.Context.Next != "") {
			cmd.Printf("      (context expanded)\n")
		}
		cmd.Println()
	}
	return nil
}

func outputAssembled(cmd *cobra.Command, assembled *domain.AssembledContext) error {
	if queryJSON {
		return outputJSON(cmd, assembled)
	}

	if assembled.Text == "" {
		cmd.Println("No evidence found.")
		return nil
	}

	cmd.Println(assembled.Text)
	cmd.Println()
	cmd.Println("Sources:")
	for _, c := range assembled.Citations {
		cmd.Printf("  [Volume %s, %s, p. %d-%d] (%.3f)\n",
			c.Volume, sectionOrUnlabelled(c.Section), c.PageStart, c.PageEnd, c.Score)
	}
	if assembled.Truncated {
		cmd.Println()
		cmd.Printf("(truncated at %d tokens)\n", assembled.TokenCount)
	}
	return nil
}

func formatCitation(chunk domain.Chunk) string {
	return fmt.Sprintf("Volume %s, %s, p. %d-%d",
		chunk.Volume, sectionOrUnlabelled(chunk.SectionLabel), chunk.PageStart, chunk.PageEnd)
}

func sectionOrUnlabelled(label string) string {
	if label == "" {
		return "unlabelled"
	}
	return label
}

func snippet(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
