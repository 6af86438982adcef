package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/index/flatfile"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check data files and provider connectivity",
	Long: `Checks that the HPO vector index and the annotation database are
present, and pings the configured AI providers. A failing check names
the command that fixes it.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	healthy := true

	// Vector index
	indexPath := settings.IndexPath
	if indexPath == "" {
		indexPath, err = defaultIndexPath()
		if err != nil {
			return err
		}
	}
	if info, statErr := os.Stat(indexPath); statErr == nil {
		if index, openErr := flatfile.Open(indexPath); openErr == nil {
			cmd.Printf("Vector index:        OK  %s (%d terms, %d dimensions, %d bytes)\n",
				indexPath, index.Size(), index.Dimensions(), info.Size())
			index.Close()
		} else {
			cmd.Printf("Vector index:        FAILED  %v\n", openErr)
			healthy = false
		}
	} else {
		cmd.Printf("Vector index:        MISSING  %s\n", indexPath)
		cmd.Println("                     Run 'phenomap config paths --index <path>' to point at an index artifact.")
		healthy = false
	}

	// Annotation database
	dbPath := settings.AnnotationDBPath
	if dbPath == "" {
		dbPath, err = defaultAnnotationDBPath()
		if err != nil {
			return err
		}
	}
	if info, statErr := os.Stat(dbPath); statErr == nil {
		cmd.Printf("Annotation database: OK  %s (%d bytes)\n", dbPath, info.Size())
	} else {
		cmd.Printf("Annotation database: MISSING  %s\n", dbPath)
		cmd.Println("                     Run 'phenomap config paths --annotations <path>' to point at a database.")
		healthy = false
	}

	// Embedding provider
	if embErr := ai.ValidateEmbeddingConfig(settings.Embedding); embErr == nil {
		cmd.Printf("Embedding provider:  OK  %s (%s)\n", settings.Embedding.Provider, settings.Embedding.Model)
	} else {
		cmd.Printf("Embedding provider:  FAILED  %v\n", embErr)
		cmd.Println("                     Run 'phenomap config embedding' to reconfigure.")
		healthy = false
	}

	// LLM provider
	if llmErr := ai.ValidateLLMConfig(settings.LLM); llmErr == nil {
		cmd.Printf("LLM provider:        OK  %s (%s)\n", settings.LLM.Provider, settings.LLM.Model)
	} else {
		cmd.Printf("LLM provider:        FAILED  %v\n", llmErr)
		cmd.Println("                     Run 'phenomap config llm' to reconfigure.")
		healthy = false
	}

	cmd.Println()
	if !healthy {
		return errors.New("one or more checks failed")
	}
	cmd.Println("All checks passed.")
	return nil
}
