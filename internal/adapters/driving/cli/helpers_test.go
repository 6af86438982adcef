package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/core/services"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	result     *domain.DocumentResult
	candidates []domain.OntologyCandidate
	searchErr  error
	lastText   string
	lastK      int
}

func (m *mockPipelineService) Transform(_ context.Context, text string) *domain.DocumentResult {
	m.lastText = text
	if m.result != nil {
		return m.result
	}
	return &domain.DocumentResult{SourceText: text}
}

func (m *mockPipelineService) BatchTransform(ctx context.Context, texts []string) []*domain.DocumentResult {
	results := make([]*domain.DocumentResult, len(texts))
	for i, text := range texts {
		results[i] = m.Transform(ctx, text)
	}
	return results
}

func (m *mockPipelineService) SearchSymptom(_ context.Context, symptom string, k int) ([]domain.OntologyCandidate, error) {
	m.lastText = symptom
	m.lastK = k
	return m.candidates, m.searchErr
}

// mockLookupService is a mock implementation of driving.LookupService.
type mockLookupService struct {
	term     driven.HPOTerm
	gene     driven.Gene
	terms    []driven.HPOTerm
	genes    []driven.Gene
	diseases []driven.Disease
	err      error
}

func (m *mockLookupService) GenesByHPO(_ context.Context, _ string) (driven.HPOTerm, []driven.Gene, error) {
	return m.term, m.genes, m.err
}

func (m *mockLookupService) HPOByGene(_ context.Context, _ string) (driven.Gene, []driven.HPOTerm, error) {
	return m.gene, m.terms, m.err
}

func (m *mockLookupService) DiseasesByGene(_ context.Context, _ string) (driven.Gene, []driven.Disease, error) {
	return m.gene, m.diseases, m.err
}

func (m *mockLookupService) GenesByDisease(_ context.Context, _ string) ([]driven.Gene, error) {
	return m.genes, m.err
}

func (m *mockLookupService) DiseasesByHPO(_ context.Context, _ string) ([]driven.Disease, error) {
	return m.diseases, m.err
}

func (m *mockLookupService) HPOByDisease(_ context.Context, _ string) ([]driven.HPOTerm, error) {
	return m.terms, m.err
}

func (m *mockLookupService) HPOName(_ context.Context, _ string) (driven.HPOTerm, error) {
	return m.term, m.err
}

// mockPromptStore is a driven.PromptStore returning empty prompts, which
// makes the pipeline stages fall back to their built-in defaults.
type mockPromptStore struct{}

func (m *mockPromptStore) Load(_ string) (string, error) { return "", nil }
func (m *mockPromptStore) Reload()                       {}

// mappedTestResult builds a single-term mapped document result.
func mappedTestResult() *domain.DocumentResult {
	outcome := domain.TermOutcome{
		Term: domain.ClinicalTerm{
			OriginalText:     "delayed milestones",
			StandardizedText: "developmental delay",
			Category:         domain.CategoryNeurological,
		},
		Status: domain.StatusMapped,
		Mapping: &domain.OntologyMapping{
			SelectedTermID:    "HP:0001263",
			SelectedTermLabel: "Global developmental delay",
			Confidence:        0.92,
			Reasoning:         "Direct match for global delay",
			Quality:           domain.QualityExcellent,
		},
	}

	return &domain.DocumentResult{
		ID:             "run-1",
		SourceText:     "delayed milestones",
		Outcomes:       []domain.TermOutcome{outcome},
		Mappings:       []domain.OntologyMapping{*outcome.Mapping},
		Summary:        domain.Summarise([]domain.TermOutcome{outcome}),
		ProcessingTime: 1500 * time.Millisecond,
		Timestamp:      time.Now(),
	}
}

// setupTestServices replaces the package-level services with mocks and
// returns a cleanup that restores the previous values.
func setupTestServices() func() {
	oldConfig := configStore
	oldPrompt := promptStore
	oldSettings := settingsService
	oldPipeline := pipelineService
	oldLookup := lookupService

	configStore = memory.NewConfigStore()
	promptStore = &mockPromptStore{}
	settingsService = services.NewSettingsService(configStore)
	pipelineService = &mockPipelineService{
		result: mappedTestResult(),
		candidates: []domain.OntologyCandidate{
			{TermID: "HP:0001263", TermLabel: "Global developmental delay", Similarity: 0.91},
			{TermID: "HP:0012758", TermLabel: "Neurodevelopmental delay", Similarity: 0.84},
		},
	}
	lookupService = &mockLookupService{
		term:     driven.HPOTerm{ID: "HP:0001263", Name: "Global developmental delay"},
		gene:     driven.Gene{NCBIGeneID: "2688", Symbol: "GHR"},
		terms:    []driven.HPOTerm{{ID: "HP:0004322", Name: "Short stature"}},
		genes:    []driven.Gene{{NCBIGeneID: "2688", Symbol: "GHR"}},
		diseases: []driven.Disease{{ID: "OMIM:262500", Name: "Laron syndrome"}},
	}

	return func() {
		configStore = oldConfig
		promptStore = oldPrompt
		settingsService = oldSettings
		pipelineService = oldPipeline
		lookupService = oldLookup
	}
}
