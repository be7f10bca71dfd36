package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

var crossrefJSON bool

var crossrefCmd = &cobra.Command{
	Use:   "crossref [section]",
	Short: "Resolve a section label across all volumes",
	Long: `Finds the chunks carrying the given section label in every volume,
e.g. the regulation text, the safety actions that cite it and the risk
portfolio entries that reference it. When the label is unknown, the
nearest semantic matches are shown instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrossref,
}

func init() {
	crossrefCmd.Flags().BoolVar(&crossrefJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(crossrefCmd)
}

func runCrossref(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openQueryService()
	if err != nil {
		return err
	}
	defer cleanup()

	ref, err := svc.CrossReference(cmd.Context(), args[0])
	unknown := errors.Is(err, domain.ErrUnknownSection)
	if err != nil && !unknown {
		return fmt.Errorf("cross-reference failed: %w", err)
	}

	if crossrefJSON {
		return outputJSON(cmd, ref)
	}

	if unknown {
		cmd.Printf("Section %s not found in the corpus. Nearest matches:\n\n", ref.SectionLabel)
	} else {
		cmd.Printf("Section %s:\n\n", ref.SectionLabel)
	}

	for _, r := range ref.Exact {
		cmd.Printf("  %s\n", formatCitation(r.Chunk))
		cmd.Printf("      %s\n\n", snippet(r.Chunk.Text, 200))
	}
	if len(ref.Semantic) > 0 {
		if ref.ExactMatch {
			cmd.Println("Related:")
		}
		for _, r := range ref.Semantic {
			cmd.Printf("  %s (%.3f)\n", formatCitation(r.Chunk), r.Score)
			cmd.Printf("      %s\n\n", snippet(r.Chunk.Text, 200))
		}
	}
	return nil
}
