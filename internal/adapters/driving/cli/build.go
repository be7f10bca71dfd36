package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/avsafe-labs/regnav/internal/adapters/driven/extraction/pdf"
	"github.com/avsafe-labs/regnav/internal/chunker"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driving"
	"github.com/avsafe-labs/regnav/internal/core/services"
	"github.com/avsafe-labs/regnav/internal/snapshot"
)

var buildVolumes []string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the index from the corpus PDFs",
	Long: `Extracts, chunks and embeds the corpus volumes and writes a new
index snapshot. Volume sources come from the [volumes] table of the
config file, or from repeated --volume flags:

  regnav build --volume I=/data/easy-access-rules.pdf --volume II=/data/epas-actions.pdf`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringArrayVar(&buildVolumes, "volume", nil, "volume source as ID=path (repeatable)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	sources, err := buildSources()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	writer, err := snapshot.NewWriter(settings.SnapshotDir)
	if err != nil {
		return err
	}

	svc := services.NewBuildService(pdf.NewExtractor(), embedder, writer,
		services.WithChunker(chunker.New(
			chunker.WithChunkSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		)),
	)

	report, err := svc.Build(cmd.Context(), sources)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

// buildSources merges config volumes with --volume overrides.
func buildSources() ([]driving.BuildSource, error) {
	paths := make(map[domain.Volume]string, len(settings.Volumes))
	for id, path := range settings.Volumes {
		volume, err := domain.ParseVolume(id)
		if err != nil {
			return nil, err
		}
		paths[volume] = path
	}

	for _, spec := range buildVolumes {
		id, path, ok := splitVolumeSpec(spec)
		if !ok {
			return nil, fmt.Errorf("invalid --volume %q (want ID=path)", spec)
		}
		volume, err := domain.ParseVolume(id)
		if err != nil {
			return nil, err
		}
		paths[volume] = path
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no volume sources configured; set [volumes] in %s or pass --volume", configPath)
	}

	sources := make([]driving.BuildSource, 0, len(paths))
	for volume, path := range paths {
		sources = append(sources, driving.BuildSource{Volume: volume, Path: path})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Volume < sources[j].Volume })
	return sources, nil
}

func splitVolumeSpec(spec string) (id, path string, ok bool) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '=' {
			return spec[:i], spec[i+1:], spec[:i] != "" && spec[i+1:] != ""
		}
	}
	return "", "", false
}

func printReport(cmd *cobra.Command, report *domain.BuildReport) {
	cmd.Printf("Build %s\n", report.ID)
	for _, doc := range report.Documents {
		if doc.Err != nil {
			cmd.Printf("  Volume %-4s FAILED: %v\n", doc.Volume, doc.Err)
			continue
		}
		cmd.Printf("  Volume %-4s %d pages, %d chunks\n", doc.Volume, doc.Pages, doc.Chunks)
	}
	cmd.Printf("Total: %d chunks (dim %d) in %s\n",
		report.TotalChunks, report.Dimension,
		report.Finished.Sub(report.Started).Round(time.Millisecond))
}
