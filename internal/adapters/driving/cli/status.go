package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/snapshot"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current index snapshot",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	snap, err := snapshot.Open(settings.SnapshotDir)
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			cmd.Println("No index built yet. Run 'regnav build' first.")
			return nil
		}
		return err
	}
	defer snap.Close() //nolint:errcheck

	cmd.Printf("Snapshot:  %s\n", snap.Name)
	cmd.Printf("Chunks:    %d\n", snap.Index.Size())
	cmd.Printf("Dimension: %d\n", snap.Index.Dim())

	counts, err := snap.Store.VolumeCounts(cmd.Context())
	if err != nil {
		return err
	}
	for _, v := range []domain.Volume{domain.VolumeI, domain.VolumeII, domain.VolumeIII} {
		if n, ok := counts[v]; ok {
			cmd.Printf("  Volume %-4s %d chunks  (%s)\n", v, n, domain.Volumes[v].Title)
		}
	}

	labels, err := snap.Store.Labels(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Sections:  %d labels catalogued\n", len(labels))
	return nil
}
