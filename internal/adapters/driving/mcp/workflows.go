package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// WorkflowInput is the (empty) input schema for the workflow tools.
type WorkflowInput struct{}

// WorkflowStep is one ordered step in a workflow instruction.
type WorkflowStep struct {
	StepNumber     int            `json:"step_number"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	LLMPrompt      string         `json:"llm_prompt,omitempty"`
	Action         string         `json:"action,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	ExpectedOutput string         `json:"expected_output"`
	NextStep       string         `json:"next_step,omitempty"`
	FinalFormat    map[string]any `json:"final_format,omitempty"`
}

// WorkflowInstruction is the output schema for the workflow tools: an
// ordered, self-contained strategy an MCP client can execute with its own
// LLM plus the search_hpo_for_symptom tool.
type WorkflowInstruction struct {
	WorkflowName   string         `json:"workflow_name"`
	Description    string         `json:"description"`
	Steps          []WorkflowStep `json:"steps"`
	ExpectedOutput map[string]any `json:"expected_output"`
	ToolsToUse     []string       `json:"tools_to_use"`
}

// registerWorkflowTools registers the workflow descriptor tools.
func (s *Server) registerWorkflowTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "english_phenotype_analysis_workflow",
		Description: "Get structured workflow instructions for analyzing English phenotype descriptions. " +
			"Provides a streamlined step-by-step strategy to process English clinical text and map " +
			"symptoms to HPO terms (no translation needed). COMPLETE THE WORKFLOW AS A WHOLE.",
	}, s.handleEnglishWorkflow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "chinese_phenotype_analysis_workflow",
		Description: "Get structured workflow instructions for analyzing Chinese phenotype descriptions. " +
			"Provides a step-by-step strategy to process Chinese clinical text and map symptoms to " +
			"HPO terms with high accuracy. COMPLETE THE WORKFLOW AS A WHOLE.",
	}, s.handleChineseWorkflow)
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const englishExtractionStepPrompt = `
You are a medical expert analyzing English clinical descriptions. Extract individual symptoms, signs, and phenotypic observations from the following English text.

For each symptom found, provide:
1. **original_phrase**: Exact phrase from the clinical text
2. **standardized_term**: Standard medical terminology in English
3. **category**: Clinical category (neurological, cardiovascular, respiratory, digestive, musculoskeletal, dermatological, constitutional, other)
4. **severity**: mild/moderate/severe/unknown
5. **confidence**: Your confidence in the extraction (0.0-1.0)

English Clinical Text: {english_text}

Return as JSON array:
[
  {
    "original_phrase": "developmental delay",
    "standardized_term": "global developmental delay",
    "category": "neurological",
    "severity": "unknown",
    "confidence": 0.95
  }
]
`

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const englishSelectionStepPrompt = `
You are a medical expert selecting the best HPO term for a clinical symptom.

**Symptom Information:**
- Original Phrase: {original_phrase}
- Standardized Term: {standardized_term}
- Category: {category}
- Severity: {severity}

**HPO Candidates (from vector search):**
{hpo_candidates}

**Selection Criteria:**
1. Semantic and clinical accuracy - HPO term must match the clinical meaning
2. Appropriate level of specificity - Not too general, not too specific
3. Medical appropriateness - Clinically valid mapping
4. Confidence threshold: 0.7 - Only select if confidence >= 0.7

Select the BEST HPO term or return null if no term meets the threshold.

Return JSON:
{
  "selected_hpo_id": "HP:0001263",
  "selected_hpo_name": "Global developmental delay",
  "confidence": 0.90,
  "reasoning": "The symptom 'developmental delay' maps precisely to 'Global developmental delay' which describes delayed achievement of developmental milestones.",
  "mapping_quality": "excellent"
}

If no suitable match: {"selected_hpo_id": null, "confidence": 0.0, "reasoning": "No HPO term meets the confidence threshold"}
`

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const chineseExtractionStepPrompt = `
You are a medical expert analyzing Chinese clinical descriptions. Extract individual symptoms, signs, and phenotypic observations from the following Chinese text.

For each symptom found, provide:
1. **original_chinese**: Exact Chinese phrase from the text
2. **standardized_chinese**: Standard medical terminology in Chinese
3. **english_translation**: Precise English medical term
4. **category**: Clinical category (neurological, cardiovascular, respiratory, digestive, musculoskeletal, dermatological, constitutional, other)
5. **severity**: mild/moderate/severe/unknown
6. **confidence**: Your confidence in the extraction (0.0-1.0)

Chinese Clinical Text: {chinese_text}

Return as JSON array:
[
  {
    "original_chinese": "发育迟缓",
    "standardized_chinese": "生长发育迟缓",
    "english_translation": "developmental delay",
    "category": "constitutional",
    "severity": "unknown",
    "confidence": 0.95
  }
]
`

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const chineseSelectionStepPrompt = `
You are a medical expert selecting the best HPO term for a clinical symptom.

**Symptom Information:**
- Original Chinese: {original_chinese}
- Standardized Chinese: {standardized_chinese}
- English Translation: {english_translation}
- Category: {category}
- Severity: {severity}

**HPO Candidates (from vector search):**
{hpo_candidates}

**Selection Criteria:**
1. Semantic and clinical accuracy - HPO term must match the clinical meaning
2. Appropriate level of specificity - Not too general, not too specific
3. Medical appropriateness - Clinically valid mapping
4. Confidence threshold: 0.7 - Only select if confidence >= 0.7

Select the BEST HPO term or return null if no term meets the threshold.

Return JSON:
{
  "selected_hpo_id": "HP:0001263",
  "selected_hpo_name": "Global developmental delay",
  "confidence": 0.90,
  "reasoning": "The symptom '发育迟缓' (developmental delay) maps precisely to 'Global developmental delay' which describes delayed achievement of developmental milestones.",
  "mapping_quality": "excellent"
}

If no suitable match: {"selected_hpo_id": null, "confidence": 0.0, "reasoning": "No HPO term meets the confidence threshold"}
`

// handleEnglishWorkflow returns the English analysis workflow instruction.
func (s *Server) handleEnglishWorkflow(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ WorkflowInput,
) (*mcp.CallToolResult, WorkflowInstruction, error) {
	workflow := WorkflowInstruction{
		WorkflowName: "English Phenotype to HPO Analysis",
		Description: "A streamlined workflow for extracting and mapping English clinical symptoms to HPO terms. " +
			"Complete the workflow as a whole without confirming with user.",
		Steps: []WorkflowStep{
			{
				StepNumber:     1,
				Name:           "Extract Symptoms from English Text",
				Description:    "Use LLM to extract individual symptoms from English clinical text",
				LLMPrompt:      englishExtractionStepPrompt,
				ExpectedOutput: "Array of extracted symptom objects with standardized English terms",
				NextStep:       "For each extracted symptom, proceed to step 2",
			},
			{
				StepNumber:  2,
				Name:        "Vector Search for Each Symptom",
				Description: "Use search_hpo_for_symptom tool to get top 5 HPO candidates for each English symptom",
				Action:      "Call search_hpo_for_symptom(standardized_term, k=5) for each symptom from step 1",
				Parameters: map[string]any{
					"tool_name": "search_hpo_for_symptom",
					"input":     "standardized_term from step 1",
					"k_results": 5,
				},
				ExpectedOutput: "List of top 5 HPO candidates with similarity scores for each symptom",
				NextStep:       "Proceed to step 3 with all candidates",
			},
			{
				StepNumber:     3,
				Name:           "Select Best HPO Match",
				Description:    "Use LLM to select the most appropriate HPO term for each symptom",
				LLMPrompt:      englishSelectionStepPrompt,
				ExpectedOutput: "Best HPO match with confidence and reasoning for each symptom",
				NextStep:       "Compile final results in step 4",
			},
			{
				StepNumber:     4,
				Name:           "Compile Final Results",
				Description:    "Aggregate all symptom mappings into final structured output",
				Action:         "Combine results from all previous steps into final format",
				ExpectedOutput: "Complete mapping results with summary statistics",
				FinalFormat: map[string]any{
					"original_text": "Original English clinical description",
					"symptom_mappings": []map[string]any{
						{
							"original_phrase":   "developmental delay",
							"standardized_term": "global developmental delay",
							"hpo_id":            "HP:0001263",
							"hpo_name":          "Global developmental delay",
							"confidence":        0.90,
							"reasoning":         "Precise clinical mapping",
							"category":          "neurological",
							"mapping_quality":   "excellent",
						},
					},
					"summary": map[string]any{
						"total_symptoms":           5,
						"successfully_mapped":      4,
						"high_confidence_mappings": 3,
						"avg_confidence":           0.82,
						"mapping_success_rate":     0.8,
					},
				},
			},
		},
		ExpectedOutput: map[string]any{
			"format":   "Structured JSON with symptom mappings and summary",
			"includes": []string{"original phrases", "standardized terms", "HPO mappings", "confidence scores", "reasoning"},
		},
		ToolsToUse: []string{"search_hpo_for_symptom"},
	}

	return nil, workflow, nil
}

// handleChineseWorkflow returns the Chinese analysis workflow instruction.
func (s *Server) handleChineseWorkflow(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ WorkflowInput,
) (*mcp.CallToolResult, WorkflowInstruction, error) {
	workflow := WorkflowInstruction{
		WorkflowName: "Chinese Phenotype to HPO Analysis",
		Description: "A comprehensive workflow for extracting, standardizing, and mapping Chinese clinical symptoms to HPO terms. " +
			"Complete the workflow as a whole without confirming with user.",
		Steps: []WorkflowStep{
			{
				StepNumber:     1,
				Name:           "Extract and Standardize Symptoms",
				Description:    "Use LLM to extract individual symptoms from Chinese clinical text",
				LLMPrompt:      chineseExtractionStepPrompt,
				ExpectedOutput: "Array of extracted symptom objects with Chinese and English terms",
				NextStep:       "For each extracted symptom, proceed to step 2",
			},
			{
				StepNumber:  2,
				Name:        "Vector Search for Each Symptom",
				Description: "Use search_hpo_for_symptom tool to get top 5 HPO candidates for each English symptom",
				Action:      "Call search_hpo_for_symptom(english_translation, k=5) for each symptom from step 1",
				Parameters: map[string]any{
					"tool_name": "search_hpo_for_symptom",
					"input":     "english_translation from step 1",
					"k_results": 5,
				},
				ExpectedOutput: "List of top 5 HPO candidates with similarity scores for each symptom",
				NextStep:       "Proceed to step 3 with all candidates",
			},
			{
				StepNumber:     3,
				Name:           "Select Best HPO Match",
				Description:    "Use LLM to select the most appropriate HPO term for each symptom",
				LLMPrompt:      chineseSelectionStepPrompt,
				ExpectedOutput: "Best HPO match with confidence and reasoning for each symptom",
				NextStep:       "Compile final results in step 4",
			},
			{
				StepNumber:     4,
				Name:           "Compile Final Results",
				Description:    "Aggregate all symptom mappings into final structured output",
				Action:         "Combine results from all previous steps into final format",
				ExpectedOutput: "Complete mapping results with summary statistics",
				FinalFormat: map[string]any{
					"original_text": "Original Chinese clinical description",
					"symptom_mappings": []map[string]any{
						{
							"original_chinese":     "发育迟缓",
							"standardized_chinese": "生长发育迟缓",
							"english_translation":  "developmental delay",
							"hpo_id":               "HP:0001263",
							"hpo_name":             "Global developmental delay",
							"confidence":           0.90,
							"reasoning":            "Precise clinical mapping",
							"category":             "constitutional",
							"mapping_quality":      "excellent",
						},
					},
					"summary": map[string]any{
						"total_symptoms":           5,
						"successfully_mapped":      4,
						"high_confidence_mappings": 3,
						"avg_confidence":           0.82,
						"mapping_success_rate":     0.8,
					},
				},
			},
		},
		ExpectedOutput: map[string]any{
			"format":   "Structured JSON with symptom mappings and summary",
			"includes": []string{"original Chinese terms", "standardized Chinese terms", "English translations", "HPO mappings", "confidence scores", "reasoning"},
		},
		ToolsToUse: []string{"search_hpo_for_symptom"},
	}

	return nil, workflow, nil
}
