package mcp

import (
	"context"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
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

// testPorts returns a Ports with both mocks wired.
func testPorts() (*Ports, *mockPipelineService, *mockLookupService) {
	pipeline := &mockPipelineService{}
	lookup := &mockLookupService{}
	return &Ports{Pipeline: pipeline, Lookup: lookup}, pipeline, lookup
}
