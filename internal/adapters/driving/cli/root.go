// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/index/flatfile"
	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenomap-cli/internal/core/services"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

// Services wired by initServices. Tests inject mocks by setting these
// before running a command; initServices leaves non-nil values alone.
var (
	verbose bool

	configStore     driven.ConfigStore
	promptStore     driven.PromptStore
	settingsService *services.SettingsService

	pipelineService driving.PipelineService
	lookupService   driving.LookupService

	// Populated when the heavy services are built, for status reporting.
	indexTerms          int
	indexDimensions     int
	llmModelName        string
	embeddingModelName  string
	annotationStorePath string
)

var rootCmd = &cobra.Command{
	Use:   "phenomap",
	Short: "Map clinical symptom descriptions to HPO terms",
	Long: `PhenoMap maps free-text clinical symptom descriptions (English or
Chinese) to Human Phenotype Ontology (HPO) terms.

Each document runs through a three-stage pipeline: LLM term extraction,
embedding-based candidate retrieval over a precomputed HPO index, and
LLM re-ranking with a confidence gate. Accepted mappings carry the HPO
code, label, confidence and the selector's reasoning.

Run 'phenomap config init' to configure AI providers before first use.`,
	PersistentPreRunE: initServices,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the lightweight services. The AI-backed pipeline and
// the annotation database are expensive to construct, so commands build
// those on demand via ensurePipelineService and ensureLookupService.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if configStore == nil {
		store, err := file.NewConfigStore("")
		if err != nil {
			return fmt.Errorf("failed to initialise config store: %w", err)
		}
		configStore = store
	}

	if promptStore == nil {
		store, err := file.NewPromptStore("")
		if err != nil {
			return fmt.Errorf("failed to initialise prompt store: %w", err)
		}
		promptStore = store
	}

	if settingsService == nil {
		settingsService = services.NewSettingsService(configStore)
	}

	return nil
}

// ensurePipelineService builds the mapping pipeline on first use: LLM and
// embedding services are created and pinged, and the vector index is
// loaded into memory. The optional override mutates settings before
// construction so commands can apply flag values without persisting them.
func ensurePipelineService(override func(*domain.AppSettings)) error {
	if pipelineService != nil {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if override != nil {
		override(settings)
		settings.Pipeline = settings.Pipeline.Normalise()
	}

	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		return err
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		llm.Close()
		return err
	}

	indexPath := settings.IndexPath
	if indexPath == "" {
		indexPath, err = defaultIndexPath()
		if err != nil {
			llm.Close()
			embedder.Close()
			return err
		}
	}

	index, err := flatfile.Open(indexPath)
	if err != nil {
		llm.Close()
		embedder.Close()
		return fmt.Errorf("failed to open vector index: %w", err)
	}

	extractor := services.NewTermExtractor(llm, settings.Pipeline.Language)
	extractor.SetPromptStore(promptStore)
	selector := services.NewTermSelector(llm)
	selector.SetPromptStore(promptStore)
	retriever := services.NewCandidateRetriever(embedder, index)

	svc, err := services.NewMappingService(extractor, retriever, selector, settings.Pipeline)
	if err != nil {
		return err
	}

	pipelineService = svc
	indexTerms = index.Size()
	indexDimensions = index.Dimensions()
	llmModelName = llm.ModelName()
	embeddingModelName = embedder.ModelName()
	return nil
}

// openAnnotationStore opens the annotation database at its configured
// location. The caller owns the returned store.
func openAnnotationStore() (*sqlite.Store, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	dataDir := ""
	if settings.AnnotationDBPath != "" {
		dataDir = filepath.Dir(settings.AnnotationDBPath)
	}

	return sqlite.NewStore(dataDir)
}

// ensureLookupService opens the annotation database on first use.
func ensureLookupService() error {
	if lookupService != nil {
		return nil
	}

	store, err := openAnnotationStore()
	if err != nil {
		return fmt.Errorf("failed to open annotation database: %w", err)
	}

	svc, err := services.NewAnnotationService(store)
	if err != nil {
		store.Close()
		return err
	}

	lookupService = svc
	annotationStorePath = store.Path()
	return nil
}

// defaultIndexPath returns the conventional location of the precomputed
// HPO index artifact.
func defaultIndexPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".phenomap", "data", "hpo_index.jsonl"), nil
}

// defaultAnnotationDBPath returns the conventional location of the HPO
// annotation database.
func defaultAnnotationDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".phenomap", "data", "annotations.db"), nil
}
