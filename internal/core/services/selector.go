package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Ensure TermSelector can use custom prompts.
var _ driven.PromptStoreAware = (*TermSelector)(nil)

// selectMaxTokens bounds the selection response, which is a single small
// JSON object.
const selectMaxTokens = 1024

// TermSelector picks the best ontology candidate for a clinical term by
// presenting the retrieved candidate set to an LLM. The LLM's confidence
// is self-reported and uncalibrated; the threshold comparison is a hard
// gate over whatever value it returns.
type TermSelector struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewTermSelector creates a selector over the given LLM service.
func NewTermSelector(llm driven.LLMService) *TermSelector {
	return &TermSelector{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the selector uses hardcoded default prompts.
func (s *TermSelector) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Select returns the accepted mapping for the term, or nil with a reason
// when the LLM declined or its confidence fell below the threshold. Given
// zero candidates it returns nil immediately without invoking the LLM.
//
// Errors wrap domain.ErrSelection and cover transport failures, malformed
// responses, confidences outside [0,1] and selections of term IDs that
// were never in the candidate set.
func (s *TermSelector) Select(
	ctx context.Context,
	term domain.ClinicalTerm,
	candidates []domain.OntologyCandidate,
	threshold float64,
) (*domain.OntologyMapping, string, error) {
	if len(candidates) == 0 {
		return nil, "", nil
	}

	logger.Debug("Selection: term=%q, %d candidates, threshold=%.2f",
		term.QueryText(), len(candidates), threshold)

	prompt, err := s.buildPrompt(term, candidates, threshold)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrSelection, err)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: selectSystemPrompt},
		{Role: "user", Content: prompt},
	}

	response, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   selectMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: llm chat: %w", domain.ErrSelection, err)
	}

	var payload selectionPayload
	if err := decodeJSONResponse(response, &payload); err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrSelection, err)
	}

	return s.validate(term, candidates, payload, threshold)
}

// buildPrompt renders the selection template with the term fields and the
// candidate set serialised as JSON, the same shape the index search
// returned them in.
func (s *TermSelector) buildPrompt(
	term domain.ClinicalTerm, candidates []domain.OntologyCandidate, threshold float64,
) (string, error) {
	type candidateInfo struct {
		TermID          string  `json:"term_id"`
		TermLabel       string  `json:"term_label"`
		Description     string  `json:"description"`
		SimilarityScore float64 `json:"similarity_score"`
	}

	info := make([]candidateInfo, len(candidates))
	for i, c := range candidates {
		info[i] = candidateInfo{
			TermID:          c.TermID,
			TermLabel:       c.TermLabel,
			Description:     c.Description,
			SimilarityScore: c.Similarity,
		}
	}

	candidateJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	template := loadPrompt(s.promptStore, driven.PromptSelect, defaultSelectPrompt)
	return fmt.Sprintf(template,
		term.OriginalText,
		term.QueryText(),
		term.Category,
		term.Severity,
		term.Temporal,
		term.Context,
		string(candidateJSON),
		threshold,
	), nil
}

// validate applies the schema checks and the threshold gate to the LLM's
// selection.
func (s *TermSelector) validate(
	term domain.ClinicalTerm,
	candidates []domain.OntologyCandidate,
	payload selectionPayload,
	threshold float64,
) (*domain.OntologyMapping, string, error) {
	if payload.Confidence == nil {
		return nil, "", fmt.Errorf("%w: response missing confidence", domain.ErrSelection)
	}
	confidence := *payload.Confidence
	if confidence < 0 || confidence > 1 {
		return nil, "", fmt.Errorf("%w: confidence %.3f out of range", domain.ErrSelection, confidence)
	}

	termID := strings.TrimSpace(payload.SelectedTermID)

	// The LLM may legitimately decline by reporting confidence 0.0 or
	// selecting nothing.
	if termID == "" || confidence < threshold {
		reason := payload.Reasoning
		if reason == "" {
			reason = fmt.Sprintf("confidence %.3f below threshold %.2f", confidence, threshold)
		}
		logger.Warn("No suitable term for %q (confidence: %.3f)", term.QueryText(), confidence)
		return nil, reason, nil
	}

	selected := findCandidate(candidates, termID)
	if selected == nil {
		return nil, "", fmt.Errorf("%w: selected term %q is not in the candidate set",
			domain.ErrSelection, termID)
	}

	label := strings.TrimSpace(payload.SelectedTermLabel)
	if label == "" {
		label = selected.TermLabel
	}

	quality := domain.MappingQuality(strings.ToLower(strings.TrimSpace(payload.MappingQuality)))
	if !quality.IsValid() {
		quality = qualityFromConfidence(confidence)
	}

	logger.Debug("Selection: %q -> %s (%s), confidence %.3f",
		term.QueryText(), selected.TermID, label, confidence)

	return &domain.OntologyMapping{
		SourceTerm:        term,
		SelectedTermID:    selected.TermID,
		SelectedTermLabel: label,
		Confidence:        confidence,
		Reasoning:         payload.Reasoning,
		Quality:           quality,
	}, "", nil
}

// findCandidate returns the candidate with the given term ID, or nil.
func findCandidate(candidates []domain.OntologyCandidate, termID string) *domain.OntologyCandidate {
	for i := range candidates {
		if candidates[i].TermID == termID {
			return &candidates[i]
		}
	}
	return nil
}

// qualityFromConfidence grades a mapping when the LLM omitted or mangled
// the quality field.
func qualityFromConfidence(confidence float64) domain.MappingQuality {
	switch {
	case confidence >= 0.9:
		return domain.QualityExcellent
	case confidence >= domain.HighConfidenceThreshold:
		return domain.QualityGood
	case confidence >= domain.DefaultConfidenceThreshold:
		return domain.QualityFair
	default:
		return domain.QualityPoor
	}
}
