package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

//nolint:lll // Fixture JSON is intentionally on one line.
const extractionResponse = `{
  "extracted_symptoms": [
    {"original_text": "developmental delay", "standardized_text": "Global developmental delay", "category": "neurological", "severity": "moderate", "temporal": "chronic", "context": "since infancy", "confidence": 0.95},
    {"original_text": "short stature", "standardized_text": "Short stature", "category": "constitutional", "severity": "unknown", "temporal": "unknown", "context": "", "confidence": 0.9}
  ],
  "clinical_summary": {"neurological": ["Global developmental delay"], "constitutional": ["Short stature"]},
  "diagnostic_information": {"lab_values": ["TSH 12 mIU/L"], "imaging_findings": [], "physical_examination": [], "temporal_information": ["since infancy"], "severity_indicators": []},
  "processing_notes": "clear presentation"
}`

func TestTermExtractorExtract(t *testing.T) {
	llm := &mockLLMService{responses: []string{extractionResponse}}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)

	extraction, err := extractor.Extract(context.Background(), "Patient presents with developmental delay and short stature.")
	require.NoError(t, err)
	require.NotNil(t, extraction)

	require.Len(t, extraction.Terms, 2)
	assert.Equal(t, "developmental delay", extraction.Terms[0].OriginalText)
	assert.Equal(t, "Global developmental delay", extraction.Terms[0].StandardizedText)
	assert.Equal(t, domain.CategoryNeurological, extraction.Terms[0].Category)
	assert.Equal(t, domain.SeverityModerate, extraction.Terms[0].Severity)
	assert.Equal(t, domain.TemporalChronic, extraction.Terms[0].Temporal)
	assert.InDelta(t, 0.95, extraction.Terms[0].Confidence, 1e-9)

	assert.Equal(t, domain.CategoryConstitutional, extraction.Terms[1].Category)
	assert.Equal(t, domain.SeverityUnknown, extraction.Terms[1].Severity)

	assert.Equal(t, []string{"Global developmental delay"}, extraction.CategorySummary[domain.CategoryNeurological])
	assert.Equal(t, []string{"TSH 12 mIU/L"}, extraction.Diagnostics.LabValues)
	assert.Equal(t, "clear presentation", extraction.ProcessingNotes)
}

func TestTermExtractorExtractEmptyInput(t *testing.T) {
	llm := &mockLLMService{}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)

	extraction, err := extractor.Extract(context.Background(), "   \n\t  ")
	require.NoError(t, err)
	require.NotNil(t, extraction)
	assert.Empty(t, extraction.Terms)
	assert.Zero(t, llm.callCount(), "empty input must not reach the LLM")
}

func TestTermExtractorExtractLLMError(t *testing.T) {
	llm := &mockLLMService{chatErr: errors.New("connection refused")}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)

	_, err := extractor.Extract(context.Background(), "some clinical text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestTermExtractorExtractMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not JSON", "I could not process this request."},
		{"missing symptoms field", `{"processing_notes": "nothing found"}`},
		{"truncated JSON", `{"extracted_symptoms": [{"original_text": "fev`},
		{"missing original_text", `{"extracted_symptoms": [{"standardized_text": "Fever", "confidence": 0.9}]}`},
		{"missing confidence", `{"extracted_symptoms": [{"original_text": "fever"}]}`},
		{"confidence above one", `{"extracted_symptoms": [{"original_text": "fever", "confidence": 1.5}]}`},
		{"negative confidence", `{"extracted_symptoms": [{"original_text": "fever", "confidence": -0.1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLMService{responses: []string{tt.response}}
			extractor := NewTermExtractor(llm, domain.LanguageEnglish)

			_, err := extractor.Extract(context.Background(), "some clinical text")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrExtraction)
		})
	}
}

func TestTermExtractorExtractFencedResponse(t *testing.T) {
	fenced := "```json\n" + extractionResponse + "\n```"
	llm := &mockLLMService{responses: []string{fenced}}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)

	extraction, err := extractor.Extract(context.Background(), "some clinical text")
	require.NoError(t, err)
	assert.Len(t, extraction.Terms, 2)
}

func TestTermExtractorExtractZeroTerms(t *testing.T) {
	llm := &mockLLMService{responses: []string{`{"extracted_symptoms": [], "processing_notes": "no symptoms"}`}}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)

	extraction, err := extractor.Extract(context.Background(), "Administrative note, no clinical content.")
	require.NoError(t, err)
	assert.Empty(t, extraction.Terms)
}

func TestTermExtractorExtractUnknownEnumsNormalised(t *testing.T) {
	response := `{"extracted_symptoms": [{"original_text": "fever", "category": "mystery", "severity": "bad", "temporal": "sometimes", "confidence": 0.8}]}`
	llm := &mockLLMService{responses: []string{response}}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)

	extraction, err := extractor.Extract(context.Background(), "fever")
	require.NoError(t, err)
	require.Len(t, extraction.Terms, 1)
	assert.Equal(t, domain.CategoryOther, extraction.Terms[0].Category)
	assert.Equal(t, domain.SeverityUnknown, extraction.Terms[0].Severity)
	assert.Equal(t, domain.TemporalUnknown, extraction.Terms[0].Temporal)
}

func TestTermExtractorChinesePrompt(t *testing.T) {
	response := `{"extracted_symptoms": [{"original_text": "发育迟缓", "standardized_text": "全面性发育迟缓", "english_translation": "Global developmental delay", "category": "neurological", "confidence": 0.93}]}`
	llm := &mockLLMService{responses: []string{response}}
	extractor := NewTermExtractor(llm, domain.LanguageChinese)

	extraction, err := extractor.Extract(context.Background(), "患儿发育迟缓")
	require.NoError(t, err)
	require.Len(t, extraction.Terms, 1)
	assert.Equal(t, "Global developmental delay", extraction.Terms[0].TranslatedText)
	assert.Equal(t, "Global developmental delay", extraction.Terms[0].QueryText())
	assert.Contains(t, llm.lastCall(), "Chinese Clinical Text")
}

func TestTermExtractorCustomPrompt(t *testing.T) {
	store := &mockPromptStore{prompts: map[string]string{
		driven.PromptExtractEnglish: "Custom extraction instructions.\n\nText: %s",
	}}
	llm := &mockLLMService{responses: []string{`{"extracted_symptoms": []}`}}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)
	extractor.SetPromptStore(store)

	_, err := extractor.Extract(context.Background(), "fever")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(llm.lastCall(), "Custom extraction instructions."))
	assert.Contains(t, llm.lastCall(), "Text: fever")
}

func TestTermExtractorPromptStoreFallback(t *testing.T) {
	store := &mockPromptStore{loadErr: errors.New("disk gone")}
	llm := &mockLLMService{responses: []string{`{"extracted_symptoms": []}`}}
	extractor := NewTermExtractor(llm, domain.LanguageEnglish)
	extractor.SetPromptStore(store)

	_, err := extractor.Extract(context.Background(), "fever")
	require.NoError(t, err)
	assert.Contains(t, llm.lastCall(), "Clinical Text")
}
