package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

var tuiLimit int

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive symptom search",
	Long: `Launch an interactive terminal UI for exploring the HPO vector index.
Type a symptom description to retrieve the closest HPO terms, navigate
the candidates with j/k and press enter for details.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiLimit, "limit", "k", domain.DefaultSearchK, "number of candidates per query")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := ensurePipelineService(nil); err != nil {
		return err
	}
	return tui.Run(cmd.Context(), pipelineService, tuiLimit)
}
