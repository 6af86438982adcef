package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Ensure MappingService implements the interface.
var _ driving.PipelineService = (*MappingService)(nil)

// LLM request pacing shared by the extraction and selection stages.
// Cloud providers throttle aggressively; local providers just ignore
// the headroom.
const (
	llmRequestsPerSecond = 5
	llmBurstSize         = 5
)

// MappingService orchestrates the three pipeline stages: extraction,
// per-term candidate retrieval and per-term selection. Terms within a
// document are mapped concurrently by a bounded worker pool; documents
// within a batch are processed independently.
type MappingService struct {
	extractor *TermExtractor
	retriever *CandidateRetriever
	selector  *TermSelector
	settings  domain.PipelineSettings
	limiter   *rate.Limiter
}

// NewMappingService creates the pipeline orchestrator. Missing stages are
// configuration errors: the pipeline cannot degrade the way a search
// service can, because every stage is load-bearing.
func NewMappingService(
	extractor *TermExtractor,
	retriever *CandidateRetriever,
	selector *TermSelector,
	settings domain.PipelineSettings,
) (*MappingService, error) {
	if extractor == nil {
		return nil, fmt.Errorf("%w: term extractor is required", domain.ErrConfiguration)
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: candidate retriever is required", domain.ErrConfiguration)
	}
	if selector == nil {
		return nil, fmt.Errorf("%w: term selector is required", domain.ErrConfiguration)
	}

	return &MappingService{
		extractor: extractor,
		retriever: retriever,
		selector:  selector,
		settings:  settings.Normalise(),
		limiter:   rate.NewLimiter(rate.Limit(llmRequestsPerSecond), llmBurstSize),
	}, nil
}

// Transform processes one clinical document through the full pipeline.
// Document-level failures are reported in the result's Error field, never
// as a returned error, so batch callers can treat every result uniformly.
func (s *MappingService) Transform(ctx context.Context, text string) *domain.DocumentResult {
	start := time.Now()
	result := &domain.DocumentResult{
		ID:         uuid.NewString(),
		SourceText: text,
		Outcomes:   []domain.TermOutcome{},
		Mappings:   []domain.OntologyMapping{},
	}

	logger.Section("Document Transform")
	logger.Debug("Document %s: %d chars, language=%s", result.ID, len(text), s.settings.Language)

	extraction, err := s.extract(ctx, text)
	if err != nil {
		logger.Warn("Document %s: extraction failed: %v", result.ID, err)
		result.Error = err.Error()
		return s.finish(result, start)
	}
	result.Extraction = extraction

	if len(extraction.Terms) == 0 {
		logger.Info("Document %s: no extractable terms", result.ID)
		return s.finish(result, start)
	}

	result.Outcomes = s.mapTerms(ctx, extraction.Terms)
	for _, outcome := range result.Outcomes {
		if outcome.Status == domain.StatusMapped && outcome.Mapping != nil {
			result.Mappings = append(result.Mappings, *outcome.Mapping)
		}
	}

	return s.finish(result, start)
}

// BatchTransform processes each document independently, in input order.
// One result is returned per input; a failed document never aborts the
// batch.
func (s *MappingService) BatchTransform(ctx context.Context, texts []string) []*domain.DocumentResult {
	logger.Section("Batch Transform")
	logger.Info("Batch: %d documents", len(texts))

	results := make([]*domain.DocumentResult, len(texts))
	for i, text := range texts {
		logger.Info("Batch: document %d/%d", i+1, len(texts))
		results[i] = s.Transform(ctx, text)
	}

	mapped := 0
	for _, r := range results {
		if !r.Failed() {
			mapped++
		}
	}
	logger.Info("Batch: %d/%d documents processed without document-level errors", mapped, len(texts))

	return results
}

// SearchSymptom retrieves candidates for a single symptom phrase without
// running extraction or selection. Unlike pipeline retrieval this path is
// strict: the caller asked a direct question and wants to see failures.
func (s *MappingService) SearchSymptom(
	ctx context.Context, symptom string, k int,
) ([]domain.OntologyCandidate, error) {
	symptom = strings.TrimSpace(symptom)
	if symptom == "" {
		return nil, fmt.Errorf("%w: empty symptom", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = domain.DefaultSearchK
	}

	logger.Section("Symptom Search")
	return s.retriever.Query(ctx, symptom, k)
}

// extract runs the extraction stage under the LLM rate limiter.
func (s *MappingService) extract(ctx context.Context, text string) (*domain.Extraction, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	return s.extractor.Extract(ctx, text)
}

// mapTerms maps every extracted term through retrieval and selection using
// a bounded worker pool. Outcomes are written by index, so the returned
// slice preserves term order regardless of completion order.
func (s *MappingService) mapTerms(ctx context.Context, terms []domain.ClinicalTerm) []domain.TermOutcome {
	outcomes := make([]domain.TermOutcome, len(terms))

	workers := s.settings.MappingWorkers
	if workers > len(terms) {
		workers = len(terms)
	}
	logger.Debug("Mapping %d terms with %d workers", len(terms), workers)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func(i int, term domain.ClinicalTerm) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = s.mapTerm(ctx, term)
		}(i, term)
	}
	wg.Wait()

	return outcomes
}

// mapTerm maps one clinical term. Failures are recovered into the outcome;
// nothing a single term does can fail the document.
func (s *MappingService) mapTerm(ctx context.Context, term domain.ClinicalTerm) domain.TermOutcome {
	candidates := s.retriever.Retrieve(ctx, term.QueryText(), s.settings.RetrievalK)
	if len(candidates) == 0 {
		return domain.TermOutcome{
			Term:   term,
			Status: domain.StatusNoCandidates,
			Reason: "no candidates retrieved",
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return domain.TermOutcome{
			Term:   term,
			Status: domain.StatusError,
			Reason: err.Error(),
		}
	}

	mapping, reason, err := s.selector.Select(ctx, term, candidates, s.settings.ConfidenceThreshold)
	if err != nil {
		logger.Warn("Selection failed for %q: %v", term.QueryText(), err)
		return domain.TermOutcome{
			Term:   term,
			Status: domain.StatusError,
			Reason: err.Error(),
		}
	}
	if mapping == nil {
		return domain.TermOutcome{
			Term:   term,
			Status: domain.StatusLowConfidence,
			Reason: reason,
		}
	}

	return domain.TermOutcome{
		Term:    term,
		Status:  domain.StatusMapped,
		Mapping: mapping,
	}
}

// finish stamps timing and the aggregated summary onto a result.
func (s *MappingService) finish(result *domain.DocumentResult, start time.Time) *domain.DocumentResult {
	result.Summary = domain.Summarise(result.Outcomes)
	result.ProcessingTime = time.Since(start)
	result.Timestamp = time.Now()

	logger.Info("Document %s: %d/%d terms mapped in %s",
		result.ID, result.Summary.SuccessfullyMapped, result.Summary.TotalTerms,
		result.ProcessingTime.Round(time.Millisecond))

	return result
}
