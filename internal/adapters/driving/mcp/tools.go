package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

// defaultSearchK is the candidate count for the symptom search tool.
const defaultSearchK = 5

// AnalyzeInput is the input schema for the analyze_phenotype tool.
type AnalyzeInput struct {
	Text string `json:"text" jsonschema:"the clinical narrative to analyze"`
}

// AnalyzeOutput is the output schema for the analyze_phenotype tool.
type AnalyzeOutput struct {
	ID               string               `json:"id"`
	OriginalText     string               `json:"original_text"`
	SymptomMappings  []SymptomMapping     `json:"symptom_mappings"`
	Summary          MappingSummaryOutput `json:"summary"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
	Error            string               `json:"error,omitempty"`
}

// SymptomMapping is one term's mapping outcome in the analyze output.
type SymptomMapping struct {
	OriginalPhrase     string  `json:"original_phrase"`
	StandardizedTerm   string  `json:"standardized_term"`
	EnglishTranslation string  `json:"english_translation,omitempty"`
	Category           string  `json:"category"`
	Status             string  `json:"status"`
	HPOID              string  `json:"hpo_id,omitempty"`
	HPOName            string  `json:"hpo_name,omitempty"`
	Confidence         float64 `json:"confidence,omitempty"`
	Reasoning          string  `json:"reasoning,omitempty"`
	MappingQuality     string  `json:"mapping_quality,omitempty"`
	Reason             string  `json:"reason,omitempty"`
}

// MappingSummaryOutput aggregates the mapping outcomes in the analyze output.
type MappingSummaryOutput struct {
	TotalSymptoms          int     `json:"total_symptoms"`
	SuccessfullyMapped     int     `json:"successfully_mapped"`
	HighConfidenceMappings int     `json:"high_confidence_mappings"`
	AvgConfidence          float64 `json:"avg_confidence"`
	MappingSuccessRate     float64 `json:"mapping_success_rate"`
}

// SearchSymptomInput is the input schema for the search_hpo_for_symptom tool.
type SearchSymptomInput struct {
	Symptom string `json:"english_symptom" jsonschema:"single English symptom or medical term"`
	K       int    `json:"k,omitempty" jsonschema:"number of top candidates to return (default 5)"`
}

// SearchSymptomOutput is the output schema for the search_hpo_for_symptom tool.
type SearchSymptomOutput struct {
	Symptom    string         `json:"symptom"`
	Candidates []HPOCandidate `json:"candidates"`
	TotalFound int            `json:"total_found"`
}

// HPOCandidate is one vector search hit in the search output.
type HPOCandidate struct {
	HPOID           string  `json:"hpo_id"`
	HPOName         string  `json:"hpo_name"`
	Description     string  `json:"description"`
	SimilarityScore float64 `json:"similarity_score"`
}

// HPOIDInput is the input schema for tools keyed by HPO ID.
type HPOIDInput struct {
	HPOID string `json:"hpo_id" jsonschema:"HPO identifier (e.g. HP:0000007)"`
}

// GeneIDInput is the input schema for tools keyed by gene.
type GeneIDInput struct {
	GeneID string `json:"gene_id" jsonschema:"gene symbol or NCBI gene ID (e.g. BRCA2 or 675)"`
}

// DiseaseIDInput is the input schema for tools keyed by disease.
type DiseaseIDInput struct {
	DiseaseID string `json:"disease_id" jsonschema:"disease identifier (e.g. OMIM:243400)"`
}

// GeneOutput is a gene reference in lookup outputs.
type GeneOutput struct {
	NCBIGeneID string `json:"ncbi_gene_id"`
	GeneSymbol string `json:"gene_symbol"`
}

// HPOTermOutput is an HPO term reference in lookup outputs.
type HPOTermOutput struct {
	HPOID   string `json:"hpo_id"`
	HPOName string `json:"hpo_name,omitempty"`
}

// DiseaseOutput is a disease reference in lookup outputs.
type DiseaseOutput struct {
	DiseaseID   string `json:"disease_id"`
	DiseaseName string `json:"disease_name,omitempty"`
}

// GenesByHPOOutput is the output schema for the get_genes_by_hpo tool.
type GenesByHPOOutput struct {
	HPOID   string       `json:"hpo_id"`
	HPOName string       `json:"hpo_name"`
	Genes   []GeneOutput `json:"genes"`
}

// HPOByGeneOutput is the output schema for the get_hpo_by_gene tool.
type HPOByGeneOutput struct {
	NCBIGeneID string          `json:"ncbi_gene_id"`
	GeneSymbol string          `json:"gene_symbol"`
	HPOTerms   []HPOTermOutput `json:"hpo_terms"`
}

// DiseasesByGeneOutput is the output schema for the get_diseases_by_gene tool.
type DiseasesByGeneOutput struct {
	NCBIGeneID string          `json:"ncbi_gene_id"`
	GeneSymbol string          `json:"gene_symbol"`
	Diseases   []DiseaseOutput `json:"diseases"`
}

// GenesByDiseaseOutput is the output schema for the get_genes_by_disease tool.
type GenesByDiseaseOutput struct {
	DiseaseID string       `json:"disease_id"`
	Genes     []GeneOutput `json:"genes"`
}

// DiseasesByHPOOutput is the output schema for the get_diseases_by_hpo tool.
type DiseasesByHPOOutput struct {
	HPOID    string          `json:"hpo_id"`
	Diseases []DiseaseOutput `json:"diseases"`
}

// HPOByDiseaseOutput is the output schema for the get_hpo_by_disease tool.
type HPOByDiseaseOutput struct {
	DiseaseID string          `json:"disease_id"`
	HPOTerms  []HPOTermOutput `json:"hpo_terms"`
}

// HPONameOutput is the output schema for the get_hpo_name_by_id tool.
type HPONameOutput struct {
	HPOID   string `json:"hpo_id"`
	HPOName string `json:"hpo_name"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_phenotype",
		Description: "Run the full phenotype analysis pipeline on a clinical narrative and map symptoms to HPO terms",
	}, s.handleAnalyzePhenotype)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_hpo_for_symptom",
		Description: "Search HPO terms for a specific English symptom (optimized for workflow step 2)",
	}, s.handleSearchSymptom)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_genes_by_hpo",
		Description: "Get genes associated with a given HPO term",
	}, s.handleGenesByHPO)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_hpo_by_gene",
		Description: "Get HPO terms associated with a given gene",
	}, s.handleHPOByGene)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_diseases_by_gene",
		Description: "Get diseases associated with a given gene",
	}, s.handleDiseasesByGene)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_genes_by_disease",
		Description: "Get genes associated with a given disease",
	}, s.handleGenesByDisease)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_diseases_by_hpo",
		Description: "Get diseases associated with a given HPO term",
	}, s.handleDiseasesByHPO)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_hpo_by_disease",
		Description: "Get HPO terms associated with a given disease",
	}, s.handleHPOByDisease)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_hpo_name_by_id",
		Description: "Get HPO term name by HPO ID",
	}, s.handleHPOName)

	s.registerWorkflowTools()
}

// handleAnalyzePhenotype handles the analyze_phenotype tool invocation.
func (s *Server) handleAnalyzePhenotype(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	result := s.ports.Pipeline.Transform(ctx, input.Text)
	return nil, analyzeOutputFromResult(result), nil
}

// analyzeOutputFromResult converts a pipeline result to the tool output shape.
func analyzeOutputFromResult(result *domain.DocumentResult) AnalyzeOutput {
	output := AnalyzeOutput{
		ID:               result.ID,
		OriginalText:     result.SourceText,
		SymptomMappings:  make([]SymptomMapping, len(result.Outcomes)),
		ProcessingTimeMS: result.ProcessingTime.Milliseconds(),
		Error:            result.Error,
		Summary: MappingSummaryOutput{
			TotalSymptoms:          result.Summary.TotalTerms,
			SuccessfullyMapped:     result.Summary.SuccessfullyMapped,
			HighConfidenceMappings: result.Summary.HighConfidenceMapped,
			AvgConfidence:          result.Summary.AverageConfidence,
			MappingSuccessRate:     result.Summary.SuccessRate,
		},
	}

	for i, outcome := range result.Outcomes {
		m := SymptomMapping{
			OriginalPhrase:     outcome.Term.OriginalText,
			StandardizedTerm:   outcome.Term.StandardizedText,
			EnglishTranslation: outcome.Term.TranslatedText,
			Category:           outcome.Term.Category.String(),
			Status:             outcome.Status.String(),
			Reason:             outcome.Reason,
		}
		if outcome.Mapping != nil {
			m.HPOID = outcome.Mapping.SelectedTermID
			m.HPOName = outcome.Mapping.SelectedTermLabel
			m.Confidence = outcome.Mapping.Confidence
			m.Reasoning = outcome.Mapping.Reasoning
			m.MappingQuality = outcome.Mapping.Quality.String()
		}
		output.SymptomMappings[i] = m
	}

	return output
}

// handleSearchSymptom handles the search_hpo_for_symptom tool invocation.
func (s *Server) handleSearchSymptom(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchSymptomInput,
) (*mcp.CallToolResult, SearchSymptomOutput, error) {
	k := input.K
	if k <= 0 {
		k = defaultSearchK
	}

	candidates, err := s.ports.Pipeline.SearchSymptom(ctx, input.Symptom, k)
	if err != nil {
		return nil, SearchSymptomOutput{}, err
	}

	output := SearchSymptomOutput{
		Symptom:    input.Symptom,
		Candidates: make([]HPOCandidate, len(candidates)),
		TotalFound: len(candidates),
	}
	for i, c := range candidates {
		output.Candidates[i] = HPOCandidate{
			HPOID:           c.TermID,
			HPOName:         c.TermLabel,
			Description:     c.Description,
			SimilarityScore: c.Similarity,
		}
	}

	return nil, output, nil
}

// handleGenesByHPO handles the get_genes_by_hpo tool invocation.
func (s *Server) handleGenesByHPO(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HPOIDInput,
) (*mcp.CallToolResult, GenesByHPOOutput, error) {
	term, genes, err := s.ports.Lookup.GenesByHPO(ctx, input.HPOID)
	if err != nil {
		return nil, GenesByHPOOutput{}, err
	}

	output := GenesByHPOOutput{
		HPOID:   term.ID,
		HPOName: term.Name,
		Genes:   make([]GeneOutput, len(genes)),
	}
	for i, g := range genes {
		output.Genes[i] = GeneOutput{NCBIGeneID: g.NCBIGeneID, GeneSymbol: g.Symbol}
	}
	return nil, output, nil
}

// handleHPOByGene handles the get_hpo_by_gene tool invocation.
func (s *Server) handleHPOByGene(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GeneIDInput,
) (*mcp.CallToolResult, HPOByGeneOutput, error) {
	gene, terms, err := s.ports.Lookup.HPOByGene(ctx, input.GeneID)
	if err != nil {
		return nil, HPOByGeneOutput{}, err
	}

	output := HPOByGeneOutput{
		NCBIGeneID: gene.NCBIGeneID,
		GeneSymbol: gene.Symbol,
		HPOTerms:   make([]HPOTermOutput, len(terms)),
	}
	for i, t := range terms {
		output.HPOTerms[i] = HPOTermOutput{HPOID: t.ID, HPOName: t.Name}
	}
	return nil, output, nil
}

// handleDiseasesByGene handles the get_diseases_by_gene tool invocation.
func (s *Server) handleDiseasesByGene(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GeneIDInput,
) (*mcp.CallToolResult, DiseasesByGeneOutput, error) {
	gene, diseases, err := s.ports.Lookup.DiseasesByGene(ctx, input.GeneID)
	if err != nil {
		return nil, DiseasesByGeneOutput{}, err
	}

	output := DiseasesByGeneOutput{
		NCBIGeneID: gene.NCBIGeneID,
		GeneSymbol: gene.Symbol,
		Diseases:   make([]DiseaseOutput, len(diseases)),
	}
	for i, d := range diseases {
		output.Diseases[i] = DiseaseOutput{DiseaseID: d.ID, DiseaseName: d.Name}
	}
	return nil, output, nil
}

// handleGenesByDisease handles the get_genes_by_disease tool invocation.
func (s *Server) handleGenesByDisease(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiseaseIDInput,
) (*mcp.CallToolResult, GenesByDiseaseOutput, error) {
	genes, err := s.ports.Lookup.GenesByDisease(ctx, input.DiseaseID)
	if err != nil {
		return nil, GenesByDiseaseOutput{}, err
	}

	output := GenesByDiseaseOutput{
		DiseaseID: input.DiseaseID,
		Genes:     make([]GeneOutput, len(genes)),
	}
	for i, g := range genes {
		output.Genes[i] = GeneOutput{NCBIGeneID: g.NCBIGeneID, GeneSymbol: g.Symbol}
	}
	return nil, output, nil
}

// handleDiseasesByHPO handles the get_diseases_by_hpo tool invocation.
func (s *Server) handleDiseasesByHPO(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HPOIDInput,
) (*mcp.CallToolResult, DiseasesByHPOOutput, error) {
	diseases, err := s.ports.Lookup.DiseasesByHPO(ctx, input.HPOID)
	if err != nil {
		return nil, DiseasesByHPOOutput{}, err
	}

	output := DiseasesByHPOOutput{
		HPOID:    input.HPOID,
		Diseases: make([]DiseaseOutput, len(diseases)),
	}
	for i, d := range diseases {
		output.Diseases[i] = DiseaseOutput{DiseaseID: d.ID, DiseaseName: d.Name}
	}
	return nil, output, nil
}

// handleHPOByDisease handles the get_hpo_by_disease tool invocation.
func (s *Server) handleHPOByDisease(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiseaseIDInput,
) (*mcp.CallToolResult, HPOByDiseaseOutput, error) {
	terms, err := s.ports.Lookup.HPOByDisease(ctx, input.DiseaseID)
	if err != nil {
		return nil, HPOByDiseaseOutput{}, err
	}

	output := HPOByDiseaseOutput{
		DiseaseID: input.DiseaseID,
		HPOTerms:  make([]HPOTermOutput, len(terms)),
	}
	for i, t := range terms {
		output.HPOTerms[i] = HPOTermOutput{HPOID: t.ID, HPOName: t.Name}
	}
	return nil, output, nil
}

// handleHPOName handles the get_hpo_name_by_id tool invocation.
func (s *Server) handleHPOName(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HPOIDInput,
) (*mcp.CallToolResult, HPONameOutput, error) {
	term, err := s.ports.Lookup.HPOName(ctx, input.HPOID)
	if err != nil {
		return nil, HPONameOutput{}, err
	}
	return nil, HPONameOutput{HPOID: term.ID, HPOName: term.Name}, nil
}
