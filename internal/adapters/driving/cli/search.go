package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [symptom]",
	Short: "Search HPO terms for a symptom phrase",
	Long: `Runs a standalone embedding retrieval for one English symptom phrase,
without extraction or re-ranking. Useful for exploring the HPO index and
for debugging the retrieval stage.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", domain.DefaultSearchK, "maximum number of candidates")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	symptom := args[0]

	if err := ensurePipelineService(nil); err != nil {
		return err
	}
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	candidates, err := pipelineService.SearchSymptom(cmd.Context(), symptom, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, candidates)
	}

	return outputSearchTable(cmd, candidates)
}

func outputSearchJSON(cmd *cobra.Command, candidates []domain.OntologyCandidate) error {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, candidates []domain.OntologyCandidate) error {
	if len(candidates) == 0 {
		cmd.Println("No candidates found.")
		return nil
	}

	cmd.Println("Candidates:")
	cmd.Println()
	for i, c := range candidates {
		cmd.Printf("  [%d] %s %s (%.3f)\n", i+1, c.TermID, c.TermLabel, c.Similarity)
		if c.Description != "" {
			cmd.Printf("      %s\n", c.Description)
		}
		cmd.Println()
	}

	return nil
}
