package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/index/flatfile"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

var (
	indexOutputPath string
	indexBatchSize  int

	// indexEmbedder is built from the configured embedding provider.
	// Tests inject a mock by setting it before running the command.
	indexEmbedder driven.EmbeddingService
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the HPO vector index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index from the annotation database",
	Long: `Build embeds the label of every HPO term in the annotation database
and writes the index artifact the retrieval stage searches.

Terms are embedded with the provider configured via 'phenomap config
embedding'. Queries are embedded with the same model at search time, so
the index must be rebuilt after switching embedding providers.`,
	RunE: runIndexBuild,
}

func init() {
	indexBuildCmd.Flags().StringVarP(&indexOutputPath, "output", "o", "", "index artifact path (default: configured index path)")
	indexBuildCmd.Flags().IntVar(&indexBatchSize, "batch-size", flatfile.DefaultBuildBatchSize, "terms embedded per request")
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	outputPath := indexOutputPath
	if outputPath == "" {
		outputPath = settings.IndexPath
	}
	if outputPath == "" {
		outputPath, err = defaultIndexPath()
		if err != nil {
			return err
		}
	}

	store, err := openAnnotationStore()
	if err != nil {
		return fmt.Errorf("failed to open annotation database: %w", err)
	}
	defer store.Close()

	terms, err := store.AllHPOTerms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list HPO terms: %w", err)
	}
	if len(terms) == 0 {
		return errors.New("annotation database has no HPO terms; run 'phenomap import' first")
	}

	embedder := indexEmbedder
	if embedder == nil {
		embedder, err = ai.CreateAndValidateEmbeddingService(settings.Embedding)
		if err != nil {
			return err
		}
		defer embedder.Close()
	}

	cmd.Printf("Embedding %d HPO terms with %s\n", len(terms), embedder.ModelName())
	written, err := flatfile.Build(ctx, outputPath, terms, embedder, indexBatchSize)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Wrote %d terms to %s\n", written, outputPath)
	return nil
}
