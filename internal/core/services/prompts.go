package services

import "github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"

// System messages are fixed; only the user-facing task templates are
// customisable through the PromptStore.
const (
	extractSystemPrompt = `You are a medical expert specializing in clinical descriptions.
You will analyze clinical text and extract symptoms with high accuracy.
Respond with ONLY a JSON object, no commentary.`

	selectSystemPrompt = `You are a medical expert making final decisions on HPO term mapping.
You will select the BEST HPO term from retrieved candidates based on clinical accuracy.
Respond with ONLY a JSON object, no commentary.`
)

// defaultExtractEnglishPrompt is the fallback prompt when no PromptStore is configured.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultExtractEnglishPrompt = `Analyze the following English clinical text and perform these tasks:

1. **Symptom identification**: Extract ALL symptom descriptions, clinical signs, and phenotypic observations
2. **Standardization**: Convert each symptom to standard medical terminology
3. **Categorization**: Group symptoms into clinical categories (neurological, cardiovascular, respiratory, digestive, musculoskeletal, dermatological, constitutional, other)
4. **Information preservation**: Preserve diagnostic information (lab values, imaging, temporal info)

Clinical Text:
%s

Respond with a JSON object in this exact shape:
{
  "extracted_symptoms": [
    {
      "original_text": "exact phrase from the text",
      "standardized_text": "standard medical terminology",
      "category": "neurological",
      "severity": "mild|moderate|severe|unknown",
      "temporal": "acute|chronic|recurrent|unknown",
      "context": "surrounding clinical context",
      "confidence": 0.95
    }
  ],
  "clinical_summary": {"neurological": ["..."], "constitutional": ["..."]},
  "diagnostic_information": {
    "lab_values": [], "imaging_findings": [], "physical_examination": [],
    "temporal_information": [], "severity_indicators": []
  },
  "processing_notes": "brief commentary"
}

Focus on medical accuracy and completeness. If uncertain, indicate lower confidence.`

// defaultExtractChinesePrompt is the fallback prompt when no PromptStore is configured.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultExtractChinesePrompt = `Analyze the following Chinese clinical text and perform these tasks:

1. **症状识别**: Extract ALL symptom descriptions, clinical signs, and phenotypic observations
2. **标准化**: Convert to standard medical terminology in Chinese
3. **分类整理**: Group symptoms into clinical categories (neurological, cardiovascular, respiratory, digestive, musculoskeletal, dermatological, constitutional, other)
4. **重要信息保留**: Preserve diagnostic information (lab values, imaging, temporal info)
5. **英文翻译**: Translate each symptom to precise English medical terminology

Chinese Clinical Text:
%s

Respond with a JSON object in this exact shape:
{
  "extracted_symptoms": [
    {
      "original_text": "原文中的确切表述",
      "standardized_text": "标准中文医学术语",
      "english_translation": "precise English medical term",
      "category": "neurological",
      "severity": "mild|moderate|severe|unknown",
      "temporal": "acute|chronic|recurrent|unknown",
      "context": "surrounding clinical context",
      "confidence": 0.95
    }
  ],
  "clinical_summary": {"neurological": ["..."], "constitutional": ["..."]},
  "diagnostic_information": {
    "lab_values": [], "imaging_findings": [], "physical_examination": [],
    "temporal_information": [], "severity_indicators": []
  },
  "processing_notes": "brief commentary"
}

Focus on medical accuracy and completeness. If uncertain about a translation, indicate lower confidence.`

// defaultSelectPrompt is the fallback prompt when no PromptStore is configured.
// Placeholders, in order: original text, English text, category, severity,
// temporal, context, candidate JSON, confidence threshold.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultSelectPrompt = `Select the BEST HPO term for the clinical description:

**Clinical Term:**
- Original: %s
- English: %s
- Category: %s
- Severity: %s
- Temporal: %s
- Context: %s

**Retrieved HPO Candidates (from vector search):**
%s

**Selection Criteria:**
1. Semantic and clinical accuracy
2. Appropriate level of specificity
3. Medical appropriateness
4. Confidence threshold: %.2f

Respond with a JSON object in this exact shape:
{
  "selected_term_id": "HP:0000000",
  "selected_term_label": "term label",
  "confidence": 0.90,
  "reasoning": "why this term fits",
  "mapping_quality": "excellent|good|fair|poor"
}

Select the most appropriate HPO term. If no term meets the confidence threshold, set confidence to 0.0 and explain why.`

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}
