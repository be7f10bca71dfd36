// Package cli implements the regnav command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/avsafe-labs/regnav/internal/adapters/driven/config/file"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath  string
	verboseFlag bool

	// settings is loaded before any command runs.
	settings file.Settings
)

var rootCmd = &cobra.Command{
	Use:   "regnav",
	Short: "Retrieval over the EASA regulatory corpus",
	Long: `regnav indexes the three EASA corpus volumes (regulations, safety
actions, safety risks) and answers retrieval, cross-reference and
context assembly queries against the local index.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)

		s, err := file.Load(configPath)
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", file.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
