package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptExtractEnglish: `Analyze the following English clinical text and perform these tasks:

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

Focus on medical accuracy and completeness. If uncertain, indicate lower confidence.`,

	driven.PromptExtractChinese: `Analyze the following Chinese clinical text and perform these tasks:

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

Focus on medical accuracy and completeness. If uncertain about a translation, indicate lower confidence.`,

	driven.PromptSelect: `Select the BEST HPO term for the clinical description:

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

Select the most appropriate HPO term. If no term meets the confidence threshold, set confidence to 0.0 and explain why.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.phenomap/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".phenomap", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# PhenoMap Prompts

This directory contains customisable prompts used by PhenoMap's LLM features.

## Files

- ` + "`extract_english.txt`" + ` - Extracts symptoms from English clinical text
- ` + "`extract_chinese.txt`" + ` - Extracts, standardises and translates symptoms from Chinese clinical text
- ` + "`select_term.txt`" + ` - Picks the best HPO term for one clinical term

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command or after restarting the MCP server.

## Format Placeholders

The prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the clinical text, term fields, candidate JSON)
- ` + "`%.2f`" + ` - Float (the confidence threshold)

The JSON shapes in the prompts are contracts with the pipeline; customised
prompts must keep the same response fields and placeholder order.
`
	return os.WriteFile(path, []byte(content), 0600)
}
