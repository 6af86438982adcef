package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

// timeRounding trims processing durations for display.
const timeRounding = 10 * time.Millisecond

var (
	analyzeJSON      bool
	analyzeFile      string
	analyzeLang      string
	analyzeThreshold float64
	analyzeWorkers   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Map a clinical description to HPO terms",
	Long: `Runs a clinical symptom description through the full mapping pipeline:
LLM term extraction, embedding retrieval over the HPO index, and LLM
re-ranking with a confidence gate.

Pass the text as an argument, or use --file to process a batch with one
document per line. Flag overrides apply to this run only and are not
persisted to the config file.

Examples:
  phenomap analyze "Patient presents with seizures and developmental delay"
  phenomap analyze --lang zh "患儿出现癫痫发作伴发育迟缓"
  phenomap analyze --file notes.txt --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output results as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "process a batch file, one document per line")
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "input language override (en or zh)")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "confidence threshold override")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "per-document mapping concurrency override")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && analyzeFile == "" {
		return errors.New("provide text to analyze or use --file")
	}
	if len(args) > 0 && analyzeFile != "" {
		return errors.New("provide either text or --file, not both")
	}
	if analyzeLang != "" && !domain.InputLanguage(analyzeLang).IsValid() {
		return fmt.Errorf("invalid language %q (use en or zh)", analyzeLang)
	}

	if err := ensurePipelineService(analyzeOverrides); err != nil {
		return err
	}
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	if analyzeFile != "" {
		return runAnalyzeBatch(cmd)
	}

	result := pipelineService.Transform(cmd.Context(), args[0])
	if analyzeJSON {
		return outputAnalyzeJSON(cmd, result)
	}
	outputAnalyzeTable(cmd, result)
	return nil
}

// analyzeOverrides applies flag values on top of stored settings.
func analyzeOverrides(settings *domain.AppSettings) {
	if analyzeLang != "" {
		settings.Pipeline.Language = domain.InputLanguage(analyzeLang)
	}
	if analyzeThreshold > 0 {
		settings.Pipeline.ConfidenceThreshold = analyzeThreshold
	}
	if analyzeWorkers > 0 {
		settings.Pipeline.MappingWorkers = analyzeWorkers
	}
}

func runAnalyzeBatch(cmd *cobra.Command) error {
	texts, err := readBatchFile(analyzeFile)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("batch file %s contains no documents", analyzeFile)
	}

	results := pipelineService.BatchTransform(cmd.Context(), texts)

	if analyzeJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i, result := range results {
		cmd.Printf("--- Document %d of %d ---\n", i+1, len(results))
		outputAnalyzeTable(cmd, result)
	}
	return nil
}

// readBatchFile reads one document per line, skipping blank lines.
func readBatchFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var texts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return texts, nil
}

func outputAnalyzeJSON(cmd *cobra.Command, result *domain.DocumentResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnalyzeTable(cmd *cobra.Command, result *domain.DocumentResult) {
	if result.Failed() {
		cmd.Printf("Analysis failed: %s\n", result.Error)
		cmd.Println()
		return
	}

	if len(result.Outcomes) == 0 {
		cmd.Println("No clinical terms found.")
		cmd.Println()
		return
	}

	cmd.Println("Mappings:")
	cmd.Println()
	for i, outcome := range result.Outcomes {
		label := outcome.Term.StandardizedText
		if label == "" {
			label = outcome.Term.OriginalText
		}

		switch outcome.Status {
		case domain.StatusMapped:
			cmd.Printf("  [%d] %s -> %s (%s, %.2f)\n",
				i+1, label, outcome.Mapping.SelectedTermID,
				outcome.Mapping.SelectedTermLabel, outcome.Mapping.Confidence)
			if outcome.Mapping.Reasoning != "" {
				cmd.Printf("      %s\n", outcome.Mapping.Reasoning)
			}
		default:
			cmd.Printf("  [%d] %s -> unmapped (%s)\n", i+1, label, outcome.Status)
			if outcome.Reason != "" {
				cmd.Printf("      %s\n", outcome.Reason)
			}
		}
	}
	cmd.Println()

	summary := result.Summary
	cmd.Printf("Summary: %d/%d terms mapped (%.0f%%), avg confidence %.2f, %d high confidence\n",
		summary.SuccessfullyMapped, summary.TotalTerms, summary.SuccessRate*100,
		summary.AverageConfidence, summary.HighConfidenceMapped)
	cmd.Printf("Processed in %s\n", result.ProcessingTime.Round(timeRounding))
	cmd.Println()
}
