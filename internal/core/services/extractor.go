package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Ensure TermExtractor can use custom prompts.
var _ driven.PromptStoreAware = (*TermExtractor)(nil)

// extractMaxTokens bounds the extraction response. Clinical documents can
// produce dozens of terms plus diagnostic notes.
const extractMaxTokens = 4096

// TermExtractor turns a clinical narrative into structured clinical terms
// using an LLM. Chinese input is additionally standardised and translated
// to English medical terminology so retrieval can run against an
// English-indexed ontology.
type TermExtractor struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	language    domain.InputLanguage
}

// NewTermExtractor creates an extractor for the given input language.
func NewTermExtractor(llm driven.LLMService, language domain.InputLanguage) *TermExtractor {
	return &TermExtractor{
		llm:      llm,
		language: language,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the extractor uses hardcoded default prompts.
func (e *TermExtractor) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// Extract runs term extraction over one document. All failures (transport,
// malformed response, schema violations) wrap domain.ErrExtraction; the
// caller treats them as fatal for the document and recoverable for the batch.
func (e *TermExtractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Debug("Extraction: empty input, returning zero terms")
		return &domain.Extraction{Terms: []domain.ClinicalTerm{}}, nil
	}

	logger.Debug("Extraction: language=%s, input=%d chars", e.language, len(text))

	prompt := fmt.Sprintf(e.promptTemplate(), text)
	messages := []driven.ChatMessage{
		{Role: "system", Content: extractSystemPrompt},
		{Role: "user", Content: prompt},
	}

	response, err := e.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   extractMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: llm chat: %w", domain.ErrExtraction, err)
	}

	var payload extractionPayload
	if err := decodeJSONResponse(response, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	if payload.ExtractedSymptoms == nil {
		return nil, fmt.Errorf("%w: response missing extracted_symptoms", domain.ErrExtraction)
	}

	extraction, err := payload.toExtraction()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	logger.Info("Extraction: %d terms", len(extraction.Terms))
	return extraction, nil
}

// promptTemplate returns the extraction template for the configured language.
func (e *TermExtractor) promptTemplate() string {
	if e.language == domain.LanguageChinese {
		return loadPrompt(e.promptStore, driven.PromptExtractChinese, defaultExtractChinesePrompt)
	}
	return loadPrompt(e.promptStore, driven.PromptExtractEnglish, defaultExtractEnglishPrompt)
}
