package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

// symptomPayload is the wire shape of one extracted symptom.
type symptomPayload struct {
	OriginalText       string   `json:"original_text"`
	StandardizedText   string   `json:"standardized_text"`
	EnglishTranslation string   `json:"english_translation"`
	Category           string   `json:"category"`
	Severity           string   `json:"severity"`
	Temporal           string   `json:"temporal"`
	Context            string   `json:"context"`
	Confidence         *float64 `json:"confidence"`
}

// diagnosticsPayload is the wire shape of preserved diagnostic information.
type diagnosticsPayload struct {
	LabValues           []string `json:"lab_values"`
	ImagingFindings     []string `json:"imaging_findings"`
	PhysicalExamination []string `json:"physical_examination"`
	TemporalInformation []string `json:"temporal_information"`
	SeverityIndicators  []string `json:"severity_indicators"`
}

// extractionPayload is the wire shape of the extraction LLM response.
type extractionPayload struct {
	ExtractedSymptoms     []symptomPayload    `json:"extracted_symptoms"`
	ClinicalSummary       map[string][]string `json:"clinical_summary"`
	DiagnosticInformation diagnosticsPayload  `json:"diagnostic_information"`
	ProcessingNotes       string              `json:"processing_notes"`
}

// selectionPayload is the wire shape of the selection LLM response.
type selectionPayload struct {
	SelectedTermID    string   `json:"selected_term_id"`
	SelectedTermLabel string   `json:"selected_term_label"`
	Confidence        *float64 `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
	MappingQuality    string   `json:"mapping_quality"`
}

// decodeJSONResponse extracts and unmarshals a JSON object from an LLM
// response. Models often wrap JSON in markdown fences or surround it with
// commentary, so the decoder locates the outermost object before parsing.
func decodeJSONResponse(raw string, v any) error {
	cleaned := stripCodeFences(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in response")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// stripCodeFences removes markdown code fences (``` or ```json) from a
// response, keeping the fenced content.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line and any trailing fence.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// toClinicalTerm validates and converts one wire symptom into a domain term.
func (p symptomPayload) toClinicalTerm() (domain.ClinicalTerm, error) {
	if strings.TrimSpace(p.OriginalText) == "" {
		return domain.ClinicalTerm{}, fmt.Errorf("missing original_text")
	}
	if p.Confidence == nil {
		return domain.ClinicalTerm{}, fmt.Errorf("missing confidence for %q", p.OriginalText)
	}
	if *p.Confidence < 0 || *p.Confidence > 1 {
		return domain.ClinicalTerm{}, fmt.Errorf("confidence %.3f out of range for %q", *p.Confidence, p.OriginalText)
	}

	return domain.ClinicalTerm{
		OriginalText:     strings.TrimSpace(p.OriginalText),
		StandardizedText: strings.TrimSpace(p.StandardizedText),
		TranslatedText:   strings.TrimSpace(p.EnglishTranslation),
		Category:         domain.TermCategory(strings.ToLower(strings.TrimSpace(p.Category))).Normalise(),
		Severity:         domain.Severity(strings.ToLower(strings.TrimSpace(p.Severity))).Normalise(),
		Temporal:         domain.Temporal(strings.ToLower(strings.TrimSpace(p.Temporal))).Normalise(),
		Context:          strings.TrimSpace(p.Context),
		Confidence:       *p.Confidence,
	}, nil
}

// toExtraction validates and converts the wire payload into the domain type.
func (p extractionPayload) toExtraction() (*domain.Extraction, error) {
	terms := make([]domain.ClinicalTerm, 0, len(p.ExtractedSymptoms))
	for i, sp := range p.ExtractedSymptoms {
		term, err := sp.toClinicalTerm()
		if err != nil {
			return nil, fmt.Errorf("symptom %d: %w", i, err)
		}
		terms = append(terms, term)
	}

	summary := make(map[domain.TermCategory][]string, len(p.ClinicalSummary))
	for category, entries := range p.ClinicalSummary {
		if len(entries) == 0 {
			continue
		}
		key := domain.TermCategory(strings.ToLower(strings.TrimSpace(category))).Normalise()
		summary[key] = append(summary[key], entries...)
	}

	return &domain.Extraction{
		Terms:           terms,
		CategorySummary: summary,
		Diagnostics: domain.DiagnosticNotes{
			LabValues:           p.DiagnosticInformation.LabValues,
			ImagingFindings:     p.DiagnosticInformation.ImagingFindings,
			PhysicalExamination: p.DiagnosticInformation.PhysicalExamination,
			TemporalInformation: p.DiagnosticInformation.TemporalInformation,
			SeverityIndicators:  p.DiagnosticInformation.SeverityIndicators,
		},
		ProcessingNotes: p.ProcessingNotes,
	}, nil
}
